package voxel

import "testing"

func TestChannelMaskChannelIds(t *testing.T) {
	m := ChannelMask(0b1011)
	ids := m.ChannelIds()
	want := []ChannelId{0, 1, 3}
	if len(ids) != len(want) {
		t.Fatalf("ChannelIds() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ChannelIds()[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
	if got := m.ChannelCount(); got != 3 {
		t.Errorf("ChannelCount() = %d, want 3", got)
	}
}

func TestChannelMaskSlotOf(t *testing.T) {
	m := ChannelMask(0b1011)
	cases := []struct {
		id       ChannelId
		wantSlot uint32
		wantOk   bool
	}{
		{0, 0, true},
		{1, 1, true},
		{2, 0, false},
		{3, 2, true},
	}
	for _, c := range cases {
		slot, ok := m.SlotOf(c.id)
		if ok != c.wantOk || (ok && slot != c.wantSlot) {
			t.Errorf("SlotOf(%d) = (%d,%v), want (%d,%v)", c.id, slot, ok, c.wantSlot, c.wantOk)
		}
	}
}

func TestRegionRangeContains(t *testing.T) {
	r := RegionRange{Offset: Offset3D{X: 2, Y: 2, Z: 2}, Extent: Extent3D{X: 4, Y: 4, Z: 4}}
	if !r.Contains(Offset3D{X: 2, Y: 2, Z: 2}) {
		t.Error("expected origin to be contained")
	}
	if !r.Contains(Offset3D{X: 5, Y: 5, Z: 5}) {
		t.Error("expected interior point to be contained")
	}
	if r.Contains(Offset3D{X: 6, Y: 2, Z: 2}) {
		t.Error("expected point past the extent to be excluded")
	}
	if r.Contains(Offset3D{X: 1, Y: 2, Z: 2}) {
		t.Error("expected point before the offset to be excluded")
	}
}

func TestRegionRangeGridDims(t *testing.T) {
	r := RegionRange{Extent: Extent3D{X: 17, Y: 8, Z: 1}}
	nx, ny, nz := r.GridDims(8)
	if nx != 3 || ny != 1 || nz != 1 {
		t.Errorf("GridDims = (%d,%d,%d), want (3,1,1)", nx, ny, nz)
	}
}

func TestExtentValid(t *testing.T) {
	if (Extent3D{X: 1, Y: 0, Z: 1}).Valid() {
		t.Error("expected zero-axis extent to be invalid")
	}
	if !(Extent3D{X: 1, Y: 1, Z: 1}).Valid() {
		t.Error("expected all-nonzero extent to be valid")
	}
}
