// Command gdp-router runs a small GDP router.
//
// The router forwards frames by destination name, learns source routes
// from traffic it sees, answers RIB queries from its table, and bounces
// a nack for destinations it cannot route. Configuration comes from the
// environment.
package main

import (
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/gdp-project/gdp/dtls"
	"github.com/gdp-project/gdp/rib"
	"github.com/gdp-project/gdp/transport"
)

type config struct {
	ListenAddr    string        `env:"GDP_LISTEN_ADDR" envDefault:":5006"`
	RouterName    string        `env:"GDP_ROUTER_NAME"`
	SharedSecret  string        `env:"GDP_SHARED_SECRET"`
	RouteLifetime time.Duration `env:"GDP_ROUTE_LIFETIME" envDefault:"5m"`
	StatsInterval time.Duration `env:"GDP_STATS_INTERVAL" envDefault:"1s"`
	LogLevel      string        `env:"GDP_LOG_LEVEL" envDefault:"info"`
}

type router struct {
	name      transport.Name
	table     *rib.Table
	transport *transport.UDPTransport

	forwarded atomic.Uint64
	bounced   atomic.Uint64
	answered  atomic.Uint64
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to parse environment")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	r, err := newRouter(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to start router")
	}
	defer r.transport.Close()

	logrus.WithFields(logrus.Fields{
		"listen_addr": r.transport.LocalAddr().String(),
		"name":        r.name.String(),
	}).Info("GDP router running")

	expire := time.NewTicker(time.Second)
	defer expire.Stop()
	stats := time.NewTicker(cfg.StatsInterval)
	defer stats.Stop()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expire.C:
			r.table.Expire()
		case <-stats.C:
			logrus.WithFields(logrus.Fields{
				"forwarded": r.forwarded.Load(),
				"bounced":   r.bounced.Load(),
				"answered":  r.answered.Load(),
				"routes":    r.table.Len(),
			}).Info("Router stats")
		case sig := <-sigs:
			logrus.WithField("signal", sig.String()).Info("Shutting down")
			return
		}
	}
}

func newRouter(cfg config) (*router, error) {
	var name transport.Name
	if cfg.RouterName != "" {
		parsed, err := transport.NameFromString(cfg.RouterName)
		if err != nil {
			return nil, err
		}
		name = parsed
	}

	tr, err := transport.NewUDPTransport(cfg.ListenAddr, "")
	if err != nil {
		return nil, err
	}

	if cfg.SharedSecret != "" {
		codec, err := dtls.NewCodec([]byte(cfg.SharedSecret))
		if err != nil {
			tr.Close()
			return nil, err
		}
		tr.SetSealer(codec)
	}

	r := &router{
		name:      name,
		table:     rib.NewTable(cfg.RouteLifetime),
		transport: tr,
	}

	// The router's own table resolves outgoing frames by name.
	tr.SetResolver(r.table)
	tr.RegisterHandler(transport.ActionForward, r.handleForward)
	tr.RegisterHandler(transport.ActionRibGet, r.handleRibQuery)

	return r, nil
}

// learn records the sender as the next hop for the frame's source, the
// way a learning switch does. Replies and nacks route back through it.
func (r *router) learn(frame *transport.Frame, from net.Addr) {
	if !frame.Src.IsZero() {
		r.table.Insert(frame.Src, from)
	}
}

func (r *router) handleForward(frame *transport.Frame, from net.Addr) error {
	r.learn(frame, from)

	if frame.TTL == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "router.handleForward",
			"dst":      frame.Dst.String(),
		}).Debug("Dropping frame with expired TTL")
		return nil
	}

	if _, ok := r.table.Lookup(frame.Dst); !ok {
		return r.bounce(frame, from)
	}

	out := &transport.Frame{
		Action:  transport.ActionForward,
		TTL:     frame.TTL - 1,
		Src:     frame.Src,
		Dst:     frame.Dst,
		LastHop: r.name,
		Payload: frame.Payload,
	}
	if err := r.transport.TrySend(out); err != nil {
		return r.bounce(frame, from)
	}
	r.forwarded.Add(1)
	return nil
}

// bounce strips the payload, flips the action to nack and returns the
// frame to the hop it came from. The names stay untouched so the
// sender can see which destination failed.
func (r *router) bounce(frame *transport.Frame, from net.Addr) error {
	r.bounced.Add(1)
	nack := &transport.Frame{
		Action:  transport.ActionNack,
		TTL:     transport.DefaultTTL,
		Src:     frame.Src,
		Dst:     frame.Dst,
		LastHop: r.name,
	}
	return r.transport.SendTo(nack, from)
}

func (r *router) handleRibQuery(frame *transport.Frame, from net.Addr) error {
	r.learn(frame, from)

	name, err := rib.ParseQuery(frame.Payload)
	if err != nil {
		return err
	}

	addr, ok := r.table.Lookup(name)
	if !ok {
		return r.bounce(frame, from)
	}
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		return r.bounce(frame, from)
	}

	reply, err := rib.BuildReply(r.name, frame.Src, name, udpAddr)
	if err != nil {
		return err
	}
	// Answer straight back to the querier.
	if err := r.transport.SendTo(reply, from); err != nil {
		return err
	}
	r.answered.Add(1)
	return nil
}
