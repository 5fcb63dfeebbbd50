package bitops

import "testing"

func TestCeilLog2(t *testing.T) {
	cases := map[uint32]uint32{
		0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4, 367: 9, 368: 9, 511: 9, 512: 9,
	}
	for n, want := range cases {
		if got := CeilLog2(n); got != want {
			t.Errorf("CeilLog2(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestPopCount32(t *testing.T) {
	if got := PopCount32(0); got != 0 {
		t.Errorf("PopCount32(0) = %d, want 0", got)
	}
	if got := PopCount32(0xFFFFFFFF); got != 32 {
		t.Errorf("PopCount32(all ones) = %d, want 32", got)
	}
	if got := PopCount32(0b10110); got != 3 {
		t.Errorf("PopCount32(0b10110) = %d, want 3", got)
	}
}

func TestPackedIndexRoundTrip(t *testing.T) {
	const n = 512
	bits := uint32(9) // MaxVariants=367 -> CeilLog2=9
	size := PackedIndexSize(n, bits)
	buf := make([]byte, size)

	values := make([]uint32, n)
	for i := range values {
		values[i] = uint32(i*37+5) & LowMask(bits)
		WritePackedIndex(buf, uint32(i), bits, values[i])
	}
	for i := range values {
		if got := ReadPackedIndex(buf, uint32(i), bits); got != values[i] {
			t.Fatalf("ReadPackedIndex(%d) = %d, want %d", i, got, values[i])
		}
	}
}

func TestPackedIndexSizeHasTailPad(t *testing.T) {
	size := PackedIndexSize(1, 1)
	if size < 8 {
		t.Fatalf("PackedIndexSize(1,1) = %d, want at least 8 (rounded + 4-byte pad)", size)
	}
}
