package rib

import (
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gdp-project/gdp/transport"
)

// DefaultEntryLifetime is how long a learned route stays usable before
// it must be re-learned from the RIB.
const DefaultEntryLifetime = 5 * time.Minute

type entry struct {
	addr    net.Addr
	expires time.Time
}

// Table is a concurrency-safe forwarding table keyed by GDP name. It
// implements transport.Resolver. The zero value is not usable; create
// tables with NewTable.
type Table struct {
	entries  map[transport.Name]entry
	lifetime time.Duration
	mu       sync.RWMutex
}

// NewTable creates an empty forwarding table with the given entry
// lifetime. A non-positive lifetime selects DefaultEntryLifetime.
func NewTable(lifetime time.Duration) *Table {
	if lifetime <= 0 {
		lifetime = DefaultEntryLifetime
	}
	return &Table{
		entries:  make(map[transport.Name]entry),
		lifetime: lifetime,
	}
}

// Insert records or refreshes the next hop for a name.
func (t *Table) Insert(name transport.Name, addr net.Addr) {
	t.mu.Lock()
	t.entries[name] = entry{addr: addr, expires: time.Now().Add(t.lifetime)}
	t.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Table.Insert",
		"name":     name.String(),
		"next_hop": addr.String(),
	}).Debug("Route learned")
}

// Lookup returns the next hop for a name. Expired entries are treated
// as misses; removal is left to the Expire sweep so Lookup stays on the
// read lock.
func (t *Table) Lookup(name transport.Name) (net.Addr, bool) {
	t.mu.RLock()
	e, ok := t.entries[name]
	t.mu.RUnlock()

	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.addr, true
}

// Delete removes the route for a name, if any. Used when a nack proves
// a cached route stale.
func (t *Table) Delete(name transport.Name) {
	t.mu.Lock()
	delete(t.entries, name)
	t.mu.Unlock()
}

// Expire removes all expired entries and reports how many were removed.
// Call it periodically; lookups do not depend on it for correctness.
func (t *Table) Expire() int {
	now := time.Now()

	t.mu.Lock()
	removed := 0
	for name, e := range t.entries {
		if now.After(e.expires) {
			delete(t.entries, name)
			removed++
		}
	}
	t.mu.Unlock()

	if removed > 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Table.Expire",
			"removed":  removed,
		}).Debug("Expired stale routes")
	}
	return removed
}

// Len returns the number of entries, including any not yet swept.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
