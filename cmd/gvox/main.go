// Command gvox is a command-line interface exercising the raw and
// palette codecs end to end: encode a synthetic demo volume to a
// container file, decode one back, or print a container's header.
// Styled after the teacher's cmd/dvid/main.go flag-based CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/IntegratedQuantum/gvox/blit"
	"github.com/IntegratedQuantum/gvox/codec/palette"
	"github.com/IntegratedQuantum/gvox/codec/rawcodec"
	"github.com/IntegratedQuantum/gvox/gconfig"
	"github.com/IntegratedQuantum/gvox/gpack"
	"github.com/IntegratedQuantum/gvox/voxel"
)

var (
	showHelp = flag.Bool("help", false, "")

	format      = flag.String("format", "palette", "container format: palette or raw")
	configPath  = flag.String("config", "", "path to a gvox.toml config file")
	outPath     = flag.String("out", "", "output container file")
	inPath      = flag.String("in", "", "input container file")
	probe       = flag.String("probe", "", "x,y,z,channel to sample after decode")
	sizeFlag    = flag.String("size", "16,16,16", "demo volume extent x,y,z")
	patternFlag = flag.String("pattern", "checker", "demo pattern: checker or gradient")
)

const helpMessage = `
gvox encodes and decodes voxel data using the raw and palette-compressed
region codecs.

Usage: gvox [options] <command>

  encode -format=palette|raw -config=FILE -out=FILE   encode a demo volume
  decode -in=FILE -probe=x,y,z,channel                decode and sample
  info   -in=FILE                                     print header fields

      -format  =string  Container format for encode: palette or raw.
      -config  =string  Path to a TOML config file.
      -out     =string  Output container path for encode.
      -in      =string  Input container path for decode/info.
      -probe   =string  "x,y,z,channel" position to sample after decode.
      -size    =string  Demo volume extent "x,y,z" for encode.
      -pattern =string  Demo pattern: checker or gradient.
  -h, -help     (flag)  Show this help message.
`

var usage = func() {
	fmt.Print(helpMessage)
}

func main() {
	flag.BoolVar(showHelp, "h", false, "")
	flag.Usage = usage
	flag.Parse()

	if *showHelp || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	var err error
	switch strings.ToLower(flag.Arg(0)) {
	case "encode":
		err = doEncode()
	case "decode":
		err = doDecode()
	case "info":
		err = doInfo()
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "gvox:", err)
		os.Exit(1)
	}
}

func loadConfig() (*gconfig.Config, error) {
	if *configPath == "" {
		return &gconfig.Config{Compression: "none"}, nil
	}
	return gconfig.LoadConfig(*configPath)
}

func parseSize() (voxel.Extent3D, error) {
	parts := strings.Split(*sizeFlag, ",")
	if len(parts) != 3 {
		return voxel.Extent3D{}, fmt.Errorf("-size must be x,y,z")
	}
	vals := make([]uint32, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return voxel.Extent3D{}, fmt.Errorf("-size: invalid component %q", p)
		}
		vals[i] = uint32(n)
	}
	return voxel.Extent3D{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func demoSampler(extent voxel.Extent3D) voxel.Sampler {
	pattern := *patternFlag
	return blit.FuncSampler(func(pos voxel.Offset3D, channel voxel.ChannelId) voxel.VoxelSample {
		switch pattern {
		case "gradient":
			return voxel.VoxelSample(uint32(pos.X) + uint32(pos.Y)*extent.X + uint32(pos.Z)*extent.X*extent.Y)
		default: // checker
			if (pos.X+pos.Y+pos.Z)%2 == 0 {
				return 1
			}
			return 0
		}
	})
}

func doEncode() error {
	if *outPath == "" {
		return fmt.Errorf("encode requires -out")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	extent, err := parseSize()
	if err != nil {
		return err
	}
	r := voxel.RegionRange{Extent: extent}
	mask := voxel.ChannelMask(1)
	sampler := demoSampler(extent)

	var body []byte
	switch strings.ToLower(*format) {
	case "raw":
		body = rawcodec.Serialize(sampler, r, mask)
	case "palette":
		pool := blit.NewPool(cfg.WorkerCount())
		body, err = palette.Serialize(sampler, r, mask, palette.SerializeOptions{
			Pool:   pool,
			Errors: blit.NopSink{},
		})
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown -format %q", *format)
	}

	compression := gpack.Uncompressed
	switch cfg.Compression {
	case "gzip":
		compression = gpack.Gzip
	case "lz4":
		compression = gpack.LZ4
	}
	wrapped, err := gpack.Wrap(body, compression, cfg.Checksum)
	if err != nil {
		return err
	}
	return os.WriteFile(*outPath, wrapped, 0o644)
}

func readContainer() ([]byte, error) {
	if *inPath == "" {
		return nil, fmt.Errorf("-in is required")
	}
	wrapped, err := os.ReadFile(*inPath)
	if err != nil {
		return nil, err
	}
	return gpack.Unwrap(wrapped)
}

func doDecode() error {
	body, err := readContainer()
	if err != nil {
		return err
	}

	var x, y, z int
	var ch int
	if *probe != "" {
		parts := strings.Split(*probe, ",")
		if len(parts) != 4 {
			return fmt.Errorf("-probe must be x,y,z,channel")
		}
		x, _ = strconv.Atoi(parts[0])
		y, _ = strconv.Atoi(parts[1])
		z, _ = strconv.Atoi(parts[2])
		ch, _ = strconv.Atoi(parts[3])
	}
	pos := voxel.Offset3D{X: int32(x), Y: int32(y), Z: int32(z)}
	channel := voxel.ChannelId(ch)

	if isPaletteMagic(body) {
		dec, err := palette.NewDecoder(body)
		if err != nil {
			return err
		}
		rx, ry, rz := uint32(x)/palette.RegionSide, uint32(y)/palette.RegionSide, uint32(z)/palette.RegionSide
		cube, err := dec.RegionChannel(rx, ry, rz, channel)
		if err != nil {
			return err
		}
		lx, ly, lz := uint32(x)%palette.RegionSide, uint32(y)%palette.RegionSide, uint32(z)%palette.RegionSide
		idx := (lz*palette.RegionSide+ly)*palette.RegionSide + lx
		fmt.Printf("value at %v channel %d: %d\n", pos, channel, cube[idx])
		return nil
	}

	p, err := rawcodec.NewParser(body)
	if err != nil {
		return err
	}
	v, err := p.Sample(pos, channel)
	if err != nil {
		return err
	}
	fmt.Printf("value at %v channel %d: %d\n", pos, channel, v)
	return nil
}

func doInfo() error {
	body, err := readContainer()
	if err != nil {
		return err
	}
	if isPaletteMagic(body) {
		dec, err := palette.NewDecoder(body)
		if err != nil {
			return err
		}
		fmt.Printf("format: palette\nrange: %+v\nmask: %032b\n", dec.Range, uint32(dec.Mask))
		return nil
	}
	p, err := rawcodec.NewParser(body)
	if err != nil {
		return err
	}
	fmt.Printf("format: raw\nrange: %+v\nmask: %032b\n", p.Range, uint32(p.Mask))
	return nil
}

func isPaletteMagic(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == palette.Magic[0] && buf[1] == palette.Magic[1] && buf[2] == palette.Magic[2] && buf[3] == palette.Magic[3]
}
