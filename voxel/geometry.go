// Package voxel holds the data model shared by every gvox codec: the
// 3-D offset/extent types, the region range they describe, channel ids
// and masks, and the Sampler façade a codec uses to pull voxel values out
// of whatever is producing them.
package voxel

import (
	"fmt"

	"github.com/IntegratedQuantum/gvox/internal/bitops"
)

// Offset3D is a signed voxel-space coordinate.
type Offset3D struct {
	X, Y, Z int32
}

func (o Offset3D) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.X, o.Y, o.Z)
}

// Add returns o shifted by d.
func (o Offset3D) Add(d Offset3D) Offset3D {
	return Offset3D{o.X + d.X, o.Y + d.Y, o.Z + d.Z}
}

// Extent3D is a non-zero-per-axis unsigned size.
type Extent3D struct {
	X, Y, Z uint32
}

func (e Extent3D) String() string {
	return fmt.Sprintf("%dx%dx%d", e.X, e.Y, e.Z)
}

// Prod returns the voxel count X*Y*Z.
func (e Extent3D) Prod() uint64 {
	return uint64(e.X) * uint64(e.Y) * uint64(e.Z)
}

// Valid reports whether every axis is non-zero, as spec.md §3 requires.
func (e Extent3D) Valid() bool {
	return e.X != 0 && e.Y != 0 && e.Z != 0
}

// RegionRange describes the voxel-space box a container covers.
type RegionRange struct {
	Offset Offset3D
	Extent Extent3D
}

// Contains reports whether the world position p (already offset by
// Offset) lies within [Offset, Offset+Extent).
func (r RegionRange) Contains(p Offset3D) bool {
	dx := p.X - r.Offset.X
	dy := p.Y - r.Offset.Y
	dz := p.Z - r.Offset.Z
	if dx < 0 || dy < 0 || dz < 0 {
		return false
	}
	return uint32(dx) < r.Extent.X && uint32(dy) < r.Extent.Y && uint32(dz) < r.Extent.Z
}

// GridDims returns (Nx,Ny,Nz) = ceil(extent/regionSide), the region-grid
// dimensions tiling this range.
func (r RegionRange) GridDims(regionSide uint32) (nx, ny, nz uint32) {
	nx = (r.Extent.X + regionSide - 1) / regionSide
	ny = (r.Extent.Y + regionSide - 1) / regionSide
	nz = (r.Extent.Z + regionSide - 1) / regionSide
	return
}

// ChannelId selects one of up to 32 independently-encoded voxel channels.
type ChannelId uint8

// MaxChannels is the width of ChannelMask.
const MaxChannels = 32

// ChannelMask is a bitmap of up to 32 channel ids.
type ChannelMask uint32

// ChannelCount returns popcount(mask), i.e. channel_n from spec.md §3.
func (m ChannelMask) ChannelCount() uint32 {
	return bitops.PopCount32(uint32(m))
}

// ChannelIds returns the set bit positions of m in ascending order: the
// canonical channel ordering, so ChannelIds()[ci] is the channel id stored
// at serialized slot ci.
func (m ChannelMask) ChannelIds() []ChannelId {
	ids := make([]ChannelId, 0, m.ChannelCount())
	for i := ChannelId(0); i < MaxChannels; i++ {
		if m&(1<<i) != 0 {
			ids = append(ids, i)
		}
	}
	return ids
}

// Has reports whether id is set in the mask.
func (m ChannelMask) Has(id ChannelId) bool {
	return m&(1<<id) != 0
}

// SlotOf returns the 0-based serialized slot of channel id within m, and
// false if id is not set in m.
func (m ChannelMask) SlotOf(id ChannelId) (slot uint32, ok bool) {
	if !m.Has(id) {
		return 0, false
	}
	for i := ChannelId(0); i < id; i++ {
		if m&(1<<i) != 0 {
			slot++
		}
	}
	return slot, true
}

// VoxelSample is one channel's value at one voxel; its interpretation is
// opaque to every codec in this module.
type VoxelSample uint32

// RegionFlags describes how a loaded Region's Data should be interpreted.
type RegionFlags uint8

const (
	// Sparse means Data must be sampled per-voxel (no inline shortcut).
	Sparse RegionFlags = iota
	// Uniform means every voxel in the region has the same value, carried
	// inline in Data rather than materialized as an array.
	Uniform
)

// Region is the in-memory representation of a loaded/decoded region of
// voxels for one channel.
type Region struct {
	Range    RegionRange
	Channels ChannelId
	Flags    RegionFlags
	// Data holds the inline sample when Flags == Uniform; otherwise it is
	// the dense sample array covering Range in z,y,x order (x fastest) for
	// Flags == Sparse.
	Data []VoxelSample
}

// Value returns the region's voxel value, valid only when Flags == Uniform
// or when Data holds exactly one element.
func (r Region) Value() VoxelSample {
	if len(r.Data) == 0 {
		return 0
	}
	return r.Data[0]
}

// Sampler is the source every codec pulls voxel values from. Concrete
// implementations (function-backed, dense-volume-backed) live in package
// blit; codecs depend only on this interface.
type Sampler interface {
	Sample(pos Offset3D, channel ChannelId) VoxelSample
}
