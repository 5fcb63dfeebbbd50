package gpack

import (
	"bytes"
	"testing"
)

func TestWrapUnwrapRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("gvox-container-bytes-"), 50)
	for _, c := range []Compression{Uncompressed, Gzip, LZ4} {
		for _, checksum := range []bool{false, true} {
			wrapped, err := Wrap(payload, c, checksum)
			if err != nil {
				t.Fatalf("Wrap(%v, checksum=%v): %v", c, checksum, err)
			}
			got, err := Unwrap(wrapped)
			if err != nil {
				t.Fatalf("Unwrap(%v, checksum=%v): %v", c, checksum, err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("Unwrap(Wrap(x, %v, %v)) did not reconstruct x", c, checksum)
			}
		}
	}
}

func TestUnwrapRejectsCorruptedChecksum(t *testing.T) {
	payload := []byte("some palette container bytes")
	wrapped, err := Wrap(payload, Uncompressed, true)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	corrupted := append([]byte(nil), wrapped...)
	corrupted[len(corrupted)-1] ^= 0xFF
	if _, err := Unwrap(corrupted); err == nil {
		t.Fatal("expected checksum mismatch error")
	}
}

func TestUnwrapRejectsTruncated(t *testing.T) {
	if _, err := Unwrap([]byte{0, 1}); err == nil {
		t.Fatal("expected error for truncated buffer")
	}
}

// TestUnwrapRejectsShortChecksummedBuffer covers a buffer that clears the
// len(buf) < 9 header check but is still too short to hold the trailing
// 4-byte checksum the format byte claims is present.
func TestUnwrapRejectsShortChecksummedBuffer(t *testing.T) {
	buf := make([]byte, 10)
	buf[0] = packFormat(Uncompressed, true)
	if _, err := Unwrap(buf); err == nil {
		t.Fatal("expected error for truncated checksum")
	}
}
