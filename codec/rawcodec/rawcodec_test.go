package rawcodec

import (
	"testing"

	"github.com/IntegratedQuantum/gvox/voxel"
)

func gradientSampler() voxel.Sampler {
	return sampleFunc(func(pos voxel.Offset3D, ch voxel.ChannelId) voxel.VoxelSample {
		return voxel.VoxelSample(uint32(pos.X) + uint32(pos.Y)*100 + uint32(pos.Z)*10000 + uint32(ch)*1_000_000)
	})
}

type sampleFunc func(pos voxel.Offset3D, ch voxel.ChannelId) voxel.VoxelSample

func (f sampleFunc) Sample(pos voxel.Offset3D, ch voxel.ChannelId) voxel.VoxelSample {
	return f(pos, ch)
}

func TestRoundTripMultiChannel(t *testing.T) {
	r := voxel.RegionRange{Extent: voxel.Extent3D{X: 4, Y: 3, Z: 2}}
	mask := voxel.ChannelMask(0b101) // channels 0 and 2

	buf := Serialize(gradientSampler(), r, mask)

	p, err := NewParser(buf)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if p.Range != r {
		t.Fatalf("Range = %+v, want %+v", p.Range, r)
	}
	if p.Mask != mask {
		t.Fatalf("Mask = %v, want %v", p.Mask, mask)
	}

	regions, err := p.LoadRegion()
	if err != nil {
		t.Fatalf("LoadRegion: %v", err)
	}
	for _, ch := range mask.ChannelIds() {
		if _, ok := regions[ch]; !ok {
			t.Fatalf("missing channel %d in decoded regions", ch)
		}
	}
}

func TestRandomAccessSampleMatchesLoadRegion(t *testing.T) {
	r := voxel.RegionRange{Offset: voxel.Offset3D{X: 1, Y: 2, Z: 3}, Extent: voxel.Extent3D{X: 5, Y: 4, Z: 3}}
	mask := voxel.ChannelMask(0b11)
	sampler := gradientSampler()
	buf := Serialize(sampler, r, mask)

	p, err := NewParser(buf)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	for z := int32(0); z < 3; z++ {
		for y := int32(0); y < 4; y++ {
			for x := int32(0); x < 5; x++ {
				pos := voxel.Offset3D{X: r.Offset.X + x, Y: r.Offset.Y + y, Z: r.Offset.Z + z}
				for _, ch := range mask.ChannelIds() {
					want := sampler.Sample(pos, ch)
					got, err := p.Sample(pos, ch)
					if err != nil {
						t.Fatalf("Sample(%v, %d): %v", pos, ch, err)
					}
					if got != want {
						t.Fatalf("Sample(%v, %d) = %d, want %d", pos, ch, got, want)
					}
				}
			}
		}
	}
}

// TestParseBadMagicEntersErroredState covers spec.md §4.5: a mismatched
// magic never fails the constructor, it transitions the Parser to a
// terminal Errored state whose loads return zero regions.
func TestParseBadMagicEntersErroredState(t *testing.T) {
	buf := make([]byte, headerSize+4)
	copy(buf, "xxxx")
	p, err := NewParser(buf)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	regions, err := p.LoadRegion()
	if err != nil {
		t.Fatalf("LoadRegion: %v", err)
	}
	if len(regions) != 0 {
		t.Fatalf("LoadRegion() = %v, want no regions", regions)
	}
	v, err := p.Sample(voxel.Offset3D{}, 0)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if v != 0 {
		t.Fatalf("Sample() = %d, want 0", v)
	}
}

func TestParseRejectsTruncatedBody(t *testing.T) {
	r := voxel.RegionRange{Extent: voxel.Extent3D{X: 2, Y: 2, Z: 2}}
	mask := voxel.ChannelMask(1)
	buf := Serialize(gradientSampler(), r, mask)
	truncated := buf[:len(buf)-4]
	if _, err := NewParser(truncated); err == nil {
		t.Fatal("expected error for truncated body")
	}
}
