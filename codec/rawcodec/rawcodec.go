// Package rawcodec implements the trivial fixed-header dense codec: a
// magic, a RegionRange, a channel mask, and a dense u32 array with the
// channel varying fastest, then x, then y, then z. It is a format in its
// own right for callers that don't need compression; the palette codec
// has its own raw-tile encoding and does not use this package.
package rawcodec

import (
	"fmt"

	"github.com/IntegratedQuantum/gvox/internal/bitops"
	"github.com/IntegratedQuantum/gvox/voxel"
)

// Magic is the 4-byte tag at the start of every raw container: 'g','v','r',0.
var Magic = [4]byte{'g', 'v', 'r', 0}

const headerSize = 4 + 24 + 4 // magic + RegionRange + channel_mask

// Serialize writes range, mask and the dense samples (sampled from s, one
// call per voxel per channel) into a single raw container blob.
func Serialize(s voxel.Sampler, r voxel.RegionRange, mask voxel.ChannelMask) []byte {
	channelN := mask.ChannelCount()
	voxelN := r.Extent.Prod()
	buf := make([]byte, headerSize+int(voxelN)*int(channelN)*4)

	copy(buf[0:4], Magic[:])
	putRange(buf[4:28], r)
	bitops.PutUint32At(buf, 28, uint32(mask))

	ids := mask.ChannelIds()
	off := headerSize
	for z := uint32(0); z < r.Extent.Z; z++ {
		for y := uint32(0); y < r.Extent.Y; y++ {
			for x := uint32(0); x < r.Extent.X; x++ {
				pos := r.Offset.Add(voxel.Offset3D{X: int32(x), Y: int32(y), Z: int32(z)})
				for _, ch := range ids {
					v := s.Sample(pos, ch)
					bitops.PutUint32At(buf, uint32(off), uint32(v))
					off += 4
				}
			}
		}
	}
	return buf
}

func putRange(buf []byte, r voxel.RegionRange) {
	bitops.PutUint32At(buf, 0, uint32(int32(r.Offset.X)))
	bitops.PutUint32At(buf, 4, uint32(int32(r.Offset.Y)))
	bitops.PutUint32At(buf, 8, uint32(int32(r.Offset.Z)))
	bitops.PutUint32At(buf, 12, r.Extent.X)
	bitops.PutUint32At(buf, 16, r.Extent.Y)
	bitops.PutUint32At(buf, 20, r.Extent.Z)
}

func getRange(buf []byte) voxel.RegionRange {
	return voxel.RegionRange{
		Offset: voxel.Offset3D{
			X: int32(bitops.Uint32At(buf, 0)),
			Y: int32(bitops.Uint32At(buf, 4)),
			Z: int32(bitops.Uint32At(buf, 8)),
		},
		Extent: voxel.Extent3D{
			X: bitops.Uint32At(buf, 12),
			Y: bitops.Uint32At(buf, 16),
			Z: bitops.Uint32At(buf, 20),
		},
	}
}

// parseState is the raw parse adapter's lifecycle, mirroring the original
// adapter's Created -> BegunValid -> (Loading)* -> Ended/Errored states
// (see original_source adapters/parse/gvox_raw.cpp).
type parseState int

const (
	stateCreated parseState = iota
	stateBegunValid
	stateEnded
	stateErrored
)

// Parser provides random-access decode of a raw container without
// materializing the whole volume, mirroring the original adapter's
// load_region entry point.
type Parser struct {
	state   parseState
	buf     []byte
	Range   voxel.RegionRange
	Mask    voxel.ChannelMask
	channel []voxel.ChannelId
}

// NewParser validates the container header and returns a Parser positioned
// at BegunValid. A mismatched magic returns a Parser in the terminal
// Errored state instead of failing outright, per spec.md §4.5; any other
// malformed header is a hard error.
func NewParser(buf []byte) (*Parser, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("rawcodec: buffer too short for header: %d bytes", len(buf))
	}
	if buf[0] != Magic[0] || buf[1] != Magic[1] || buf[2] != Magic[2] || buf[3] != Magic[3] {
		return &Parser{state: stateErrored}, nil
	}
	r := getRange(buf[4:28])
	if !r.Extent.Valid() {
		return nil, fmt.Errorf("rawcodec: zero extent in header")
	}
	mask := voxel.ChannelMask(bitops.Uint32At(buf, 28))
	ids := mask.ChannelIds()
	want := headerSize + int(r.Extent.Prod())*len(ids)*4
	if len(buf) < want {
		return nil, fmt.Errorf("rawcodec: buffer too short for body: have %d want %d", len(buf), want)
	}
	return &Parser{
		state:   stateBegunValid,
		buf:     buf,
		Range:   r,
		Mask:    mask,
		channel: ids,
	}, nil
}

// LoadRegion decodes the whole container into a dense voxel.Region per
// channel, keyed by channel id.
func (p *Parser) LoadRegion() (map[voxel.ChannelId]*voxel.Region, error) {
	if p.state == stateErrored {
		return map[voxel.ChannelId]*voxel.Region{}, nil
	}
	if p.state != stateBegunValid {
		return nil, fmt.Errorf("rawcodec: parser not in a loadable state")
	}
	out := make(map[voxel.ChannelId]*voxel.Region, len(p.channel))
	voxelN := p.Range.Extent.Prod()
	for _, ch := range p.channel {
		out[ch] = &voxel.Region{
			Range:    p.Range,
			Channels: ch,
			Flags:    voxel.Sparse,
			Data:     make([]voxel.VoxelSample, voxelN),
		}
	}
	idx := uint64(0)
	off := headerSize
	for z := uint32(0); z < p.Range.Extent.Z; z++ {
		for y := uint32(0); y < p.Range.Extent.Y; y++ {
			for x := uint32(0); x < p.Range.Extent.X; x++ {
				for _, ch := range p.channel {
					v := voxel.VoxelSample(bitops.Uint32At(p.buf, uint32(off)))
					out[ch].Data[idx] = v
					off += 4
				}
				idx++
			}
		}
	}
	p.state = stateEnded
	return out, nil
}

// Sample performs a single random-access voxel lookup without decoding the
// whole container, mirroring the original adapter's per-voxel load_region
// offset formula.
func (p *Parser) Sample(pos voxel.Offset3D, channel voxel.ChannelId) (voxel.VoxelSample, error) {
	if p.state == stateErrored {
		return 0, nil
	}
	if p.state != stateBegunValid && p.state != stateEnded {
		return 0, fmt.Errorf("rawcodec: parser errored")
	}
	if !p.Range.Contains(pos) {
		return 0, fmt.Errorf("rawcodec: position %v outside range", pos)
	}
	slot, ok := p.Mask.SlotOf(channel)
	if !ok {
		return 0, fmt.Errorf("rawcodec: channel %d not present", channel)
	}
	dx := uint32(pos.X - p.Range.Offset.X)
	dy := uint32(pos.Y - p.Range.Offset.Y)
	dz := uint32(pos.Z - p.Range.Offset.Z)
	linear := (dz*p.Range.Extent.Y+dy)*p.Range.Extent.X + dx
	channelN := p.Mask.ChannelCount()
	off := headerSize + int(linear)*int(channelN)*4 + int(slot)*4
	return voxel.VoxelSample(bitops.Uint32At(p.buf, uint32(off))), nil
}
