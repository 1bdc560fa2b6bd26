// Package main provides C-compatible wrappers for the GDP dispatch
// client, for building as a c-shared library.
//
// Exceptions and rich error values cannot cross the calling convention,
// so every boundary function returns a single signed status byte: 0 for
// accepted-for-delivery, fixed negative values for each failure kind.
// The codes are stable; foreign callers hard-code them.
//
// Client handles are stable tokens into an internally owned table, not
// raw addresses. Each token carries a generation, so a stale handle
// reused after close is detected instead of dereferenced.
package main
