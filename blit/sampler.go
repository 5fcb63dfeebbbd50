// Package blit provides the ambient machinery every codec is driven
// through: samplers, a small I/O façade, an error sink, and a bounded
// worker pool. None of it is part of the bit-exact wire formats in
// codec/rawcodec or codec/palette; it is the "surrounding machinery" spec.md
// calls out as external collaborators, promoted here to a real, testable
// package. Grounded on the teacher's channel+sync.WaitGroup worker idiom in
// datatype/labelmap/blocks.go.
package blit

import "github.com/IntegratedQuantum/gvox/voxel"

// FuncSampler adapts a plain function to voxel.Sampler.
type FuncSampler func(pos voxel.Offset3D, channel voxel.ChannelId) voxel.VoxelSample

// Sample implements voxel.Sampler.
func (f FuncSampler) Sample(pos voxel.Offset3D, channel voxel.ChannelId) voxel.VoxelSample {
	return f(pos, channel)
}

// VolumeSampler samples out of a dense in-memory volume, one []VoxelSample
// per channel, laid out in z,y,x order over Range. It exists for tests and
// the CLI's demo encode path, where materializing the whole volume is
// cheaper than re-deriving it on every Sample call.
type VolumeSampler struct {
	Range voxel.RegionRange
	// Data maps channel id to the dense z,y,x sample array for that
	// channel; a missing channel samples as 0.
	Data map[voxel.ChannelId][]voxel.VoxelSample
}

// Sample implements voxel.Sampler.
func (v VolumeSampler) Sample(pos voxel.Offset3D, channel voxel.ChannelId) voxel.VoxelSample {
	data, ok := v.Data[channel]
	if !ok {
		return 0
	}
	if !v.Range.Contains(pos) {
		return 0
	}
	dx := uint32(pos.X - v.Range.Offset.X)
	dy := uint32(pos.Y - v.Range.Offset.Y)
	dz := uint32(pos.Z - v.Range.Offset.Z)
	idx := (dz*v.Range.Extent.Y+dy)*v.Range.Extent.X + dx
	if idx >= uint32(len(data)) {
		return 0
	}
	return data[idx]
}
