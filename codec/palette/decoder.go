package palette

import (
	"fmt"

	"github.com/IntegratedQuantum/gvox/blit"
	"github.com/IntegratedQuantum/gvox/internal/bitops"
	"github.com/IntegratedQuantum/gvox/voxel"
)

// Decoder provides sequential region/channel access to a parsed palette
// container, per spec.md §4.4.
type Decoder struct {
	buf              []byte
	Range            voxel.RegionRange
	Mask             voxel.ChannelMask
	channels         []voxel.ChannelId
	nx, ny, nz       uint32
	channelN         uint32
	blobBase         uint32
	blobSize         uint32
	errs             blit.ErrorSink
}

// NewDecoder validates the container header and returns a Decoder.
func NewDecoder(buf []byte) (*Decoder, error) {
	return NewDecoderWithErrors(buf, blit.NopSink{})
}

// NewDecoderWithErrors is NewDecoder but routes per-region format errors
// (e.g. a corrupted blob_offset) through errs instead of only ever
// discarding them, per spec.md §7's error taxonomy.
func NewDecoderWithErrors(buf []byte, errs blit.ErrorSink) (*Decoder, error) {
	if errs == nil {
		errs = blit.NopSink{}
	}
	if len(buf) < int(headerTableOffset()) {
		return nil, fmt.Errorf("palette: buffer too short for header")
	}
	if buf[0] != Magic[0] || buf[1] != Magic[1] || buf[2] != Magic[2] || buf[3] != Magic[3] {
		return nil, fmt.Errorf("palette: bad magic")
	}
	r := getRange(buf[4:28])
	if !r.Extent.Valid() {
		return nil, fmt.Errorf("palette: zero extent in header")
	}
	blobSize := bitops.Uint32At(buf, 28)
	mask := voxel.ChannelMask(bitops.Uint32At(buf, 32))
	channelN := bitops.Uint32At(buf, 36)
	if channelN != mask.ChannelCount() {
		return nil, fmt.Errorf("palette: channel_n %d does not match channel_mask popcount %d", channelN, mask.ChannelCount())
	}
	nx, ny, nz := gridDims(r)
	headerEntries := uint64(nx) * uint64(ny) * uint64(nz) * uint64(channelN)
	headerBytes := headerEntries * 8
	blobBase := headerTableOffset() + uint32(headerBytes)
	want := uint64(blobBase) + uint64(blobSize)
	if uint64(len(buf)) < want {
		return nil, fmt.Errorf("palette: buffer too short for blob: have %d want %d", len(buf), want)
	}
	return &Decoder{
		buf:      buf,
		Range:    r,
		Mask:     mask,
		channels: mask.ChannelIds(),
		nx:       nx, ny: ny, nz: nz,
		channelN: channelN,
		blobBase: blobBase,
		blobSize: blobSize,
		errs:     errs,
	}, nil
}

// requiredBlobLen returns the minimum number of blob bytes h's
// representation needs, so the decoder can reject a header whose implied
// blob range runs past blob_size before slicing it.
func requiredBlobLen(h ChannelHeader) uint32 {
	switch h.Representation() {
	case RepRaw:
		return RegionVolume * 4
	case RepPalette:
		variantN := h.VariantN
		bits := bitops.CeilLog2(variantN)
		return variantN*4 + bitops.PackedIndexSize(RegionVolume, bits)
	default:
		return 0
	}
}

// header reads the ChannelHeader at region (rx,ry,rz), channel slot ci.
func (d *Decoder) header(rx, ry, rz, ci uint32) ChannelHeader {
	idx := headerIndex(rx, ry, rz, d.nx, d.ny, d.channelN, ci)
	base := headerTableOffset() + idx*8
	return ChannelHeader{
		VariantN:   bitops.Uint32At(d.buf, base),
		BlobOffset: bitops.Uint32At(d.buf, base+4),
	}
}

// RegionChannel decodes one region cube's channel into its RegionVolume
// samples. rx/ry/rz are region-grid coordinates (not voxel coordinates).
func (d *Decoder) RegionChannel(rx, ry, rz uint32, channel voxel.ChannelId) ([]voxel.VoxelSample, error) {
	if rx >= d.nx || ry >= d.ny || rz >= d.nz {
		return nil, fmt.Errorf("palette: region coordinate out of range")
	}
	ci, ok := d.Mask.SlotOf(channel)
	if !ok {
		return nil, fmt.Errorf("palette: channel %d not present", channel)
	}
	h := d.header(rx, ry, rz, ci)
	var blob []byte
	if h.Representation() != RepConstant {
		need := requiredBlobLen(h)
		if h.BlobOffset > d.blobSize || need > d.blobSize-h.BlobOffset {
			d.errs.PushError(blit.InvalidInput, fmt.Sprintf(
				"palette: blob range [%d,%d) outside [0,%d)", h.BlobOffset, uint64(h.BlobOffset)+uint64(need), d.blobSize))
			return nil, fmt.Errorf("palette: header blob range out of bounds")
		}
		blob = d.buf[d.blobBase+h.BlobOffset : d.blobBase+h.BlobOffset+need]
	}
	return decodeRegionChannel(h, blob), nil
}

// RegionChannelCompact is RegionChannel's cheaper sibling for constant
// regions: instead of materializing RegionVolume copies of the same
// value, it returns a voxel.Region with Flags set to voxel.Uniform and a
// single inline sample, mirroring the original adapter's UNIFORM-flag
// shortcut for single-voxel data (see original_source's raw parse
// adapter). Palette and raw regions still decode to a dense Sparse
// region since they have no single value to inline.
func (d *Decoder) RegionChannelCompact(rx, ry, rz uint32, channel voxel.ChannelId) (*voxel.Region, error) {
	if rx >= d.nx || ry >= d.ny || rz >= d.nz {
		return nil, fmt.Errorf("palette: region coordinate out of range")
	}
	ci, ok := d.Mask.SlotOf(channel)
	if !ok {
		return nil, fmt.Errorf("palette: channel %d not present", channel)
	}
	origin := d.Range.Offset.Add(voxel.Offset3D{
		X: int32(rx * RegionSide),
		Y: int32(ry * RegionSide),
		Z: int32(rz * RegionSide),
	})
	cubeRange := voxel.RegionRange{Offset: origin, Extent: voxel.Extent3D{X: RegionSide, Y: RegionSide, Z: RegionSide}}
	h := d.header(rx, ry, rz, ci)
	if h.Representation() == RepConstant {
		return &voxel.Region{
			Range:    cubeRange,
			Channels: channel,
			Flags:    voxel.Uniform,
			Data:     []voxel.VoxelSample{voxel.VoxelSample(h.BlobOffset)},
		}, nil
	}
	cube, err := d.RegionChannel(rx, ry, rz, channel)
	if err != nil {
		return nil, err
	}
	return &voxel.Region{
		Range:    cubeRange,
		Channels: channel,
		Flags:    voxel.Sparse,
		Data:     cube,
	}, nil
}

// LoadVolume decodes every region of every requested channel into a
// dense per-channel voxel.Region covering the full container range.
func (d *Decoder) LoadVolume() (map[voxel.ChannelId]*voxel.Region, error) {
	out := make(map[voxel.ChannelId]*voxel.Region, len(d.channels))
	for _, ch := range d.channels {
		out[ch] = &voxel.Region{
			Range:    d.Range,
			Channels: ch,
			Flags:    voxel.Sparse,
			Data:     make([]voxel.VoxelSample, d.Range.Extent.Prod()),
		}
	}
	for rz := uint32(0); rz < d.nz; rz++ {
		for ry := uint32(0); ry < d.ny; ry++ {
			for rx := uint32(0); rx < d.nx; rx++ {
				for _, ch := range d.channels {
					cube, err := d.RegionChannel(rx, ry, rz, ch)
					if err != nil {
						return nil, err
					}
					scatterCube(out[ch], d.Range, rx, ry, rz, cube)
				}
			}
		}
	}
	return out, nil
}

// scatterCube writes one decoded region cube's RegionVolume samples into
// dst's dense array at its world-space position, clipping against dst's
// range for edge regions that overhang the container extent.
func scatterCube(dst *voxel.Region, full voxel.RegionRange, rx, ry, rz uint32, cube []voxel.VoxelSample) {
	origin := full.Offset.Add(voxel.Offset3D{
		X: int32(rx * RegionSide),
		Y: int32(ry * RegionSide),
		Z: int32(rz * RegionSide),
	})
	i := 0
	for z := uint32(0); z < RegionSide; z++ {
		for y := uint32(0); y < RegionSide; y++ {
			for x := uint32(0); x < RegionSide; x++ {
				pos := origin.Add(voxel.Offset3D{X: int32(x), Y: int32(y), Z: int32(z)})
				v := cube[i]
				i++
				if !full.Contains(pos) {
					continue
				}
				dx := uint32(pos.X - full.Offset.X)
				dy := uint32(pos.Y - full.Offset.Y)
				dz := uint32(pos.Z - full.Offset.Z)
				idx := (dz*full.Extent.Y+dy)*full.Extent.X + dx
				dst.Data[idx] = v
			}
		}
	}
}
