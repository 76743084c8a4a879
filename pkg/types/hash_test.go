package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHash_IsZero(t *testing.T) {
	var zero Hash
	if !zero.IsZero() {
		t.Error("zero-value Hash should be zero")
	}

	nonZero := Hash{0x01}
	if nonZero.IsZero() {
		t.Error("non-zero Hash should not be zero")
	}
}

func TestHash_String(t *testing.T) {
	var h Hash
	s := h.String()
	if len(s) != 66 {
		t.Errorf("String() length = %d, want 66", len(s))
	}
	if s != "0x"+strings.Repeat("0", 64) {
		t.Errorf("zero hash String() = %s, want all zeros", s)
	}

	h[0] = 0xab
	h[31] = 0xcd
	s = h.String()
	if !strings.HasPrefix(s, "0xab") {
		t.Errorf("String() should start with '0xab', got %s", s[:4])
	}
	if !strings.HasSuffix(s, "cd") {
		t.Errorf("String() should end with 'cd', got %s", s[64:])
	}
}

func TestHexToHash(t *testing.T) {
	want := Hash{0x01}
	want[31] = 0xff
	in := "01" + strings.Repeat("00", 30) + "ff"

	for _, s := range []string{in, "0x" + in} {
		got, err := HexToHash(s)
		if err != nil {
			t.Fatalf("HexToHash(%q) error: %v", s, err)
		}
		if got != want {
			t.Errorf("HexToHash(%q) = %s, want %s", s, got, want)
		}
	}

	if _, err := HexToHash("abcd"); err == nil {
		t.Error("HexToHash() should reject short input")
	}
	if _, err := HexToHash(strings.Repeat("zz", 32)); err == nil {
		t.Error("HexToHash() should reject non-hex input")
	}
}

func TestHash_JSON(t *testing.T) {
	h := Hash{0xde, 0xad}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Hash
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != h {
		t.Errorf("JSON round trip = %s, want %s", back, h)
	}
}
