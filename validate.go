package gdp

import "github.com/gdp-project/gdp/transport"

// validateName reads a destination slot as exactly 32 bytes. Name
// semantics (whether the name is reachable) are judged during dispatch,
// never here.
func validateName(b []byte) (Name, bool) {
	name, err := transport.NameFromBytes(b)
	if err != nil {
		return Name{}, false
	}
	return name, true
}

// validatePayload checks the declared length against the configured
// frame limit. Zero-length payloads are valid. The payload contents are
// never scanned; this is a single comparison regardless of length.
func validatePayload(length, maxPayload int) bool {
	return length >= 0 && length <= maxPayload
}
