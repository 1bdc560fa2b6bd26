// Command gdp-send fires a single payload at a GDP name through a
// router and prints the dispatch status. Useful for poking at a router
// the way a foreign caller of the shared library would.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gdp-project/gdp"
)

func main() {
	router := flag.String("router", "127.0.0.1:5006", "router (sidecar) address")
	dest := flag.String("dest", strings.Repeat("24", 32), "destination name, 64 hex chars")
	payload := flag.String("payload", "Hello, World!", "payload to send")
	secret := flag.String("secret", "", "shared sealing secret, empty for cleartext")
	timeout := flag.Duration("timeout", 250*time.Millisecond, "handoff timeout")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	dst, err := gdp.NameFromString(*dest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad destination name: %v\n", err)
		os.Exit(2)
	}

	opts := gdp.NewOptions()
	opts.RouterAddr = *router
	opts.SendTimeout = *timeout
	if *secret != "" {
		opts.SharedSecret = []byte(*secret)
	}

	client, err := gdp.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client setup failed: %v\n", err)
		os.Exit(2)
	}
	defer client.Close()
	client.NotifyState(gdp.StateReady)

	outcome := client.Dispatch(dst, []byte(*payload))
	fmt.Printf("%s (status %d)\n", outcome, outcome.Status())
	if outcome != gdp.OutcomeSent {
		os.Exit(1)
	}
}
