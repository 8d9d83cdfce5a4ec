package encoding

import (
	"bytes"
	"testing"
)

func TestFixedStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		size int
		want string
	}{
		{"ascii", "bracket v2", 80, "bracket v2"},
		{"latin", "pièce façade", 80, "pièce façade"},
		{"truncated", "abcdef", 3, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := UTF8ToFixedString(tt.in, tt.size)
			if len(field) != tt.size {
				t.Fatalf("field length = %d, want %d", len(field), tt.size)
			}
			if got := FixedStringToUTF8(field); got != tt.want {
				t.Errorf("FixedStringToUTF8() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWindows1252ToUTF8(t *testing.T) {
	// 0xE9 is e-acute in Windows-1252
	if got := Windows1252ToUTF8([]byte{'c', 'a', 'f', 0xE9}); got != "café" {
		t.Errorf("Windows1252ToUTF8() = %q, want %q", got, "café")
	}
}

func TestUnencodableRunes(t *testing.T) {
	got := UTF8ToWindows1252("a中b")
	if !bytes.Equal(got, []byte("a?b")) {
		t.Errorf("UTF8ToWindows1252() = %q, want %q", got, "a?b")
	}
}

func TestTrimNullBytes(t *testing.T) {
	if got := TrimNullBytes([]byte("abc\x00\x00")); string(got) != "abc" {
		t.Errorf("TrimNullBytes() = %q, want abc", got)
	}
}
