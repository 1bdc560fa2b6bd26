package transport

import (
	"strings"
	"testing"
)

func TestNameFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   strings.Repeat("24", 32),
			wantErr: false,
		},
		{
			name:    "too short",
			input:   strings.Repeat("24", 31),
			wantErr: true,
		},
		{
			name:    "too long",
			input:   strings.Repeat("24", 33),
			wantErr: true,
		},
		{
			name:    "not hex",
			input:   strings.Repeat("zz", 32),
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := NameFromString(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if name.String() != tt.input {
				t.Errorf("Round trip mismatch: %s != %s", name.String(), tt.input)
			}
		})
	}
}

func TestNameFromBytes(t *testing.T) {
	b := make([]byte, NameSize)
	b[0] = 0x24

	name, err := NameFromBytes(b)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if name[0] != 0x24 {
		t.Error("Name bytes not copied")
	}

	// The name must be a copy, not an alias.
	b[0] = 0x00
	if name[0] != 0x24 {
		t.Error("Name aliases the input slice")
	}

	if _, err := NameFromBytes(b[:NameSize-1]); err == nil {
		t.Error("Expected error for short slice")
	}
	if _, err := NameFromBytes(append(b, 0x00)); err == nil {
		t.Error("Expected error for long slice")
	}
}

func TestNameIsZero(t *testing.T) {
	var zero Name
	if !zero.IsZero() {
		t.Error("Zero name should report IsZero")
	}
	if testName(0x01).IsZero() {
		t.Error("Non-zero name should not report IsZero")
	}
}
