package palette

import (
	"github.com/IntegratedQuantum/gvox/internal/bitops"
	"github.com/IntegratedQuantum/gvox/voxel"
)

// sampleCube pulls the RegionVolume samples for one region cube and
// channel out of s, in z,y,x order (channel fastest within a voxel is the
// container's concern, not the cube's).
func sampleCube(s voxel.Sampler, origin voxel.Offset3D, side uint32, channel voxel.ChannelId) []voxel.VoxelSample {
	out := make([]voxel.VoxelSample, int(side)*int(side)*int(side))
	i := 0
	for z := uint32(0); z < side; z++ {
		for y := uint32(0); y < side; y++ {
			for x := uint32(0); x < side; x++ {
				pos := origin.Add(voxel.Offset3D{X: int32(x), Y: int32(y), Z: int32(z)})
				out[i] = s.Sample(pos, channel)
				i++
			}
		}
	}
	return out
}

// encodedRegion is the result of encoding one (region, channel) pair: the
// header fields plus the blob bytes to append (nil for RepConstant).
type encodedRegion struct {
	header ChannelHeader
	blob   []byte
}

// encodeRegionChannel runs the sample pass and variant selection for one
// region cube's channel, choosing constant/palette/raw per spec.md §4.2,
// mirroring the teacher's encodeBlock two-pass approach (collect variants
// first, then bit-pack indices against the discovered palette).
func encodeRegionChannel(samples []voxel.VoxelSample) encodedRegion {
	// First pass: discover every distinct value in order of first
	// appearance. We always scan to completion, even past MaxVariants,
	// because a raw-fallback header still publishes the true distinct
	// count in VariantN (spec.md §8's testable property 4).
	firstSeen := make(map[voxel.VoxelSample]int, 16)
	order := make([]voxel.VoxelSample, 0, 16)
	for _, v := range samples {
		if _, ok := firstSeen[v]; !ok {
			firstSeen[v] = len(order)
			order = append(order, v)
		}
	}

	if len(order) == 1 {
		// No blob payload for a constant region: BlobOffset is repurposed
		// to carry the single value inline, matching the teacher's
		// preference for packing state into existing fields rather than
		// adding a parallel flag/value byte (see MakeSolidBlock).
		return encodedRegion{header: ChannelHeader{VariantN: 1, BlobOffset: uint32(order[0])}}
	}

	if len(order) > MaxVariants {
		return encodedRegion{header: ChannelHeader{VariantN: uint32(len(order))}, blob: encodeRaw(samples)}
	}

	return encodedRegion{
		header: ChannelHeader{VariantN: uint32(len(order))},
		blob:   encodePalette(samples, order, firstSeen),
	}
}

// encodeRaw lays out samples as one little-endian u32 per voxel.
func encodeRaw(samples []voxel.VoxelSample) []byte {
	buf := make([]byte, len(samples)*4)
	for i, v := range samples {
		bitops.PutUint32At(buf, uint32(i*4), uint32(v))
	}
	return buf
}

// encodePalette writes the palette table (len(order) u32 values) followed
// by the bit-packed index array, one index per voxel, each ceil_log2(len)
// bits wide, per spec.md §4.2/§6.
func encodePalette(samples []voxel.VoxelSample, order []voxel.VoxelSample, index map[voxel.VoxelSample]int) []byte {
	paletteBytes := len(order) * 4
	bits := bitops.CeilLog2(uint32(len(order)))
	packedLen := bitops.PackedIndexSize(uint32(len(samples)), bits)
	buf := make([]byte, paletteBytes+int(packedLen))

	for i, v := range order {
		bitops.PutUint32At(buf, uint32(i*4), uint32(v))
	}
	packed := buf[paletteBytes:]
	for i, v := range samples {
		bitops.WritePackedIndex(packed, uint32(i), bits, uint32(index[v]))
	}
	return buf
}

// decodeRegionChannel reconstructs the RegionVolume samples for one
// region-channel from its header and blob slice, the inverse of
// encodeRegionChannel.
func decodeRegionChannel(h ChannelHeader, blob []byte) []voxel.VoxelSample {
	out := make([]voxel.VoxelSample, RegionVolume)
	switch h.Representation() {
	case RepConstant:
		v := voxel.VoxelSample(h.BlobOffset)
		for i := range out {
			out[i] = v
		}
	case RepRaw:
		for i := range out {
			out[i] = voxel.VoxelSample(bitops.Uint32At(blob, uint32(i*4)))
		}
	case RepPalette:
		variantN := int(h.VariantN)
		paletteBytes := variantN * 4
		palette := make([]voxel.VoxelSample, variantN)
		for i := range palette {
			palette[i] = voxel.VoxelSample(bitops.Uint32At(blob, uint32(i*4)))
		}
		bits := bitops.CeilLog2(uint32(variantN))
		packed := blob[paletteBytes:]
		for i := range out {
			idx := bitops.ReadPackedIndex(packed, uint32(i), bits)
			out[i] = palette[idx]
		}
	}
	return out
}

// blobSize returns the number of blob bytes an encodedRegion contributes
// (0 for constant regions, which carry no blob payload).
func (e encodedRegion) blobSize() uint32 { return uint32(len(e.blob)) }
