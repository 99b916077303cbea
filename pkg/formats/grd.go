package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/volmesh/pkg/grid"
)

// Grid file format errors.
var (
	ErrInvalidGridMagic       = errors.New("invalid grid magic: expected 'VGRD'")
	ErrUnsupportedGridVersion = errors.New("unsupported grid version")
	ErrTruncatedGridData      = errors.New("truncated grid data")
)

const (
	gridMagic      = "VGRD"
	gridHeaderSize = 4 + 2 + 4 + 4 + 8 + 8
	gridSampleSize = 3 * 8

	// MaxGridDimension caps width and height read from a file.
	MaxGridDimension = 1 << 14
)

// CurrentGridVersion is written by EncodeGrid.
var CurrentGridVersion = GridVersion{Major: 1, Minor: 0}

// GridVersion represents the grid file version.
type GridVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v GridVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// GridFile is a parsed .vgrd file: a sample grid plus the volume depth.
type GridFile struct {
	Version GridVersion
	Grid    *grid.Grid
	Depth   float64
}

// ParseGrid parses a grid file from raw bytes.
func ParseGrid(data []byte) (*GridFile, error) {
	if len(data) < gridHeaderSize {
		return nil, ErrTruncatedGridData
	}

	if string(data[0:4]) != gridMagic {
		return nil, ErrInvalidGridMagic
	}

	// Version is stored as [minor, major]
	version := GridVersion{
		Major: data[5],
		Minor: data[4],
	}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGridVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var header struct {
		Width  uint32
		Height uint32
		NoData float64
		Depth  float64
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedGridData)
	}

	if header.Width == 0 || header.Height == 0 ||
		header.Width > MaxGridDimension || header.Height > MaxGridDimension {
		return nil, fmt.Errorf("invalid grid dimensions: %dx%d", header.Width, header.Height)
	}

	count := int(header.Width) * int(header.Height)
	if r.Len() < count*gridSampleSize {
		return nil, fmt.Errorf("%w: expected %d samples", ErrTruncatedGridData, count)
	}

	samples := make([]grid.Sample, count)
	if err := binary.Read(r, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("%w: reading samples", ErrTruncatedGridData)
	}

	g, err := grid.New(samples, int(header.Width), int(header.Height))
	if err != nil {
		return nil, err
	}
	g.NoData = header.NoData

	return &GridFile{
		Version: version,
		Grid:    g,
		Depth:   header.Depth,
	}, nil
}

// ParseGridFile parses a grid file from disk.
func ParseGridFile(path string) (*GridFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grid file: %w", err)
	}
	return ParseGrid(data)
}

// EncodeGrid writes g and depth in the current grid file version.
func EncodeGrid(w io.Writer, g *grid.Grid, depth float64) error {
	if err := g.Validate(); err != nil {
		return err
	}

	buf := bytes.NewBuffer(make([]byte, 0, gridHeaderSize+len(g.Samples)*gridSampleSize))
	buf.WriteString(gridMagic)
	buf.WriteByte(CurrentGridVersion.Minor)
	buf.WriteByte(CurrentGridVersion.Major)

	header := []any{uint32(g.Width), uint32(g.Height), g.NoData, depth, g.Samples}
	for _, v := range header {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("encoding grid: %w", err)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteGridFile encodes g and depth to path.
func WriteGridFile(path string, g *grid.Grid, depth float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating grid file: %w", err)
	}
	if err := EncodeGrid(f, g, depth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
