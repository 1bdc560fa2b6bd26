// Package rib implements the client-side route information base.
//
// The RIB caches name-to-next-hop mappings learned from rib-reply
// frames and exposes them to the transport as a Resolver. Entries
// expire after a fixed lifetime; a periodic sweep or lazy lookup
// removes stale routes so a moved endpoint is re-queried rather than
// black-holed.
package rib
