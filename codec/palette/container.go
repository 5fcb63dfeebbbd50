package palette

import (
	"fmt"
	"sync"

	"github.com/IntegratedQuantum/gvox/blit"
	"github.com/IntegratedQuantum/gvox/internal/bitops"
	"github.com/IntegratedQuantum/gvox/voxel"
)

// SerializeOptions configures the container encoder.
type SerializeOptions struct {
	// Pool drives per-(region,channel) tasks concurrently. Nil means a
	// single-goroutine fallback (still correct, just sequential).
	Pool *blit.Pool
	// Reproducible runs tasks through Pool but waits for each one before
	// enqueuing the next, trading concurrency for byte-for-byte
	// reproducible blob offsets, per spec.md §5's closing note.
	Reproducible bool
	Errors       blit.ErrorSink
}

// Serialize encodes every region cube of every channel in mask over r,
// sampled from s, into a complete palette container blob per spec.md
// §4.3/§6. Mirrors the original adapter's two-pass header-then-blob
// layout (see original_source adapters/serialize/gvox_palette.cpp's
// add_region): a first pass reserves the header table, then per-task
// work appends to a shared blob area behind a bump allocator, and a
// final patch-back fills in blob_size once every task has landed.
func Serialize(s voxel.Sampler, r voxel.RegionRange, mask voxel.ChannelMask, opts SerializeOptions) ([]byte, error) {
	errs := opts.Errors
	if errs == nil {
		errs = blit.NopSink{}
	}
	if !r.Extent.Valid() {
		errs.PushError(blit.InvalidInput, "palette: zero extent")
		return nil, fmt.Errorf("palette: zero extent")
	}

	nx, ny, nz := gridDims(r)
	channelN := mask.ChannelCount()
	ids := mask.ChannelIds()
	headerEntries := nx * ny * nz * channelN
	headerBytes := headerEntries * 8

	header := make([]uint32, headerEntries*2)

	var blobMu sync.Mutex
	blob := make([]byte, 0, headerBytes)

	appendBlob := func(b []byte) uint32 {
		blobMu.Lock()
		defer blobMu.Unlock()
		off := uint32(len(blob))
		blob = append(blob, b...)
		return off
	}

	pool := opts.Pool
	ownPool := false
	if pool == nil {
		pool = blit.NewPool(1)
		ownPool = true
	}
	pool.Start()
	if ownPool {
		defer pool.Stop()
	}

	var wg sync.WaitGroup
	for rz := uint32(0); rz < nz; rz++ {
		for ry := uint32(0); ry < ny; ry++ {
			for rx := uint32(0); rx < nx; rx++ {
				origin := r.Offset.Add(voxel.Offset3D{
					X: int32(rx * RegionSide),
					Y: int32(ry * RegionSide),
					Z: int32(rz * RegionSide),
				})
				for ci, ch := range ids {
					rx, ry, rz, ci, ch, origin := rx, ry, rz, ci, ch, origin
					idx := headerIndex(rx, ry, rz, nx, ny, channelN, uint32(ci))
					task := func() {
						defer wg.Done()
						samples := sampleCube(s, origin, RegionSide, ch)
						enc := encodeRegionChannel(samples)
						if enc.blobSize() > 0 {
							off := appendBlob(enc.blob)
							enc.header.BlobOffset = off
						}
						header[idx*2] = enc.header.VariantN
						header[idx*2+1] = enc.header.BlobOffset
					}
					wg.Add(1)
					if opts.Reproducible {
						pool.Enqueue(task)
						pool.Wait()
					} else {
						pool.Enqueue(task)
					}
				}
			}
		}
	}
	wg.Wait()

	buf := make([]byte, int(headerTableOffset())+int(headerBytes)+len(blob))
	copy(buf[0:4], Magic[:])
	putRange(buf[4:28], r)
	bitops.PutUint32At(buf, 32, uint32(mask))
	bitops.PutUint32At(buf, 36, channelN)
	for i, v := range header {
		bitops.PutUint32At(buf, headerTableOffset()+uint32(i*4), v)
	}
	copy(buf[int(headerTableOffset()+headerBytes):], blob)
	bitops.PutUint32At(buf, 28, uint32(len(blob)))

	return buf, nil
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
