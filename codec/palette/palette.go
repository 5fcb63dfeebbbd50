// Package palette implements the palette-compressed region codec: per
// region-cube-per-channel, choose between a constant, palette-indexed, or
// raw representation, bit-pack whichever wins, and lay the results out
// behind a two-pass header table + blob per spec. Grounded on the
// teacher's near-identical block codec in
// datatype/common/labels/compressed.go (encodeBlock, bitsFor,
// getPackedValue).
package palette

import "github.com/IntegratedQuantum/gvox/voxel"

// RegionSide is the cube side length R of one region, frozen per spec §3's
// Open Question resolution: encoder and decoder of a given build always
// agree; this is not a runtime-tunable value.
const RegionSide = 8

// RegionVolume is R^3, the voxel count of one region cube.
const RegionVolume = RegionSide * RegionSide * RegionSide

// MaxVariants is the palette ceiling: a region with more distinct values
// than this falls back to the raw representation instead of palette
// indexing. Frozen alongside RegionSide; see RegionSide.
const MaxVariants = 367

// Magic is the 4-byte tag at the start of every palette container:
// 'g','v','p',0.
var Magic = [4]byte{'g', 'v', 'p', 0}

// Representation is the per-region-channel encoding variant chosen by the
// region encoder.
type Representation uint8

const (
	// RepConstant: the region holds exactly one distinct value, stored
	// inline in the header with no blob bytes.
	RepConstant Representation = iota
	// RepPalette: the region's distinct values (<= MaxVariants) are
	// stored as a small table plus a bit-packed index array.
	RepPalette
	// RepRaw: the region exceeded MaxVariants distinct values and falls
	// back to one u32 per voxel, uncompressed.
	RepRaw
)

// ChannelHeader is the fixed-size header-table entry for one
// (region, channel) pair: spec.md §3's "Channel Header".
type ChannelHeader struct {
	// VariantN is the number of distinct values in the region for this
	// channel: 1 means RepConstant, 2..MaxVariants means RepPalette, and
	// anything above MaxVariants means RepRaw, carrying the true distinct
	// count rather than a fixed sentinel (spec.md §8's testable property
	// 4: VariantN always equals the actual number of distinct samples).
	VariantN uint32
	// BlobOffset is the byte offset from the start of the blob area to
	// this region-channel's payload; when Representation is RepConstant
	// there is no payload and it holds the region's single value instead.
	BlobOffset uint32
}

// Representation derives which of the three encodings this header
// describes, from VariantN alone (no separate flag bit is stored; raw is
// signaled by VariantN exceeding MaxVariants, matching the teacher's
// preference for packing state into one field rather than a parallel
// flags byte).
func (h ChannelHeader) Representation() Representation {
	switch {
	case h.VariantN > MaxVariants:
		return RepRaw
	case h.VariantN <= 1:
		return RepConstant
	default:
		return RepPalette
	}
}

func headerTableOffset() uint32 { return 40 }

// headerIndex computes the header-table slot for region (rx,ry,rz),
// channel slot ci, per spec.md §6:
// ((rz*Ny+ry)*Nx+rx)*channel_n+ci.
func headerIndex(rx, ry, rz, nx, ny, channelN, ci uint32) uint32 {
	return ((rz*ny+ry)*nx+rx)*channelN + ci
}

// gridDims returns the region-grid dimensions for a RegionRange, per
// spec.md §3: Nx/Ny/Nz = ceil(extent/R).
func gridDims(r voxel.RegionRange) (nx, ny, nz uint32) {
	return r.GridDims(RegionSide)
}
