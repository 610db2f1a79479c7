package export

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	apperrors "galaxy-gen/internal/errors"
	"galaxy-gen/internal/galaxy"
)

// Format selects an on-disk or on-wire encoding of a point cloud.
type Format string

const (
	FormatJSON   Format = "json"
	FormatBinary Format = "binary"
	FormatPLY    Format = "ply"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatBinary, FormatPLY}
}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "json":
		return FormatJSON, nil
	case "binary", "bin", "glxy":
		return FormatBinary, nil
	case "ply":
		return FormatPLY, nil
	}
	return "", apperrors.Validationf("unknown export format %q", s)
}

// FormatForPath picks a format from a file name's extension, defaulting to
// JSON.
func FormatForPath(path string) Format {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		if f, err := ParseFormat(path[i+1:]); err == nil {
			return f
		}
	}
	return FormatJSON
}

// Extension returns the conventional file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatBinary:
		return ".glxy"
	case FormatPLY:
		return ".ply"
	}
	return ".json"
}

// ContentType returns the MIME type used when serving the format over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatBinary:
		return "application/octet-stream"
	case FormatPLY:
		return "application/x-ply"
	}
	return "application/json"
}

// Write encodes cloud in the given format.
func Write(w io.Writer, f Format, cloud *galaxy.PointCloud) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, cloud)
	case FormatBinary:
		return WriteBinary(w, cloud)
	case FormatPLY:
		return WritePLY(w, cloud)
	}
	return apperrors.Validationf("unknown export format %q", string(f))
}

// CloudMessage is the JSON representation of a cloud. Positions and Colors
// are flat xyz and rgb arrays.
type CloudMessage struct {
	Seed      uint64        `json:"seed"`
	Count     int           `json:"count"`
	Params    galaxy.Params `json:"params"`
	Sun       galaxy.Sun    `json:"sun"`
	Positions []float32     `json:"positions"`
	Colors    []float32     `json:"colors"`
}

// NewCloudMessage wraps cloud for JSON encoding. The buffers are shared, not
// copied.
func NewCloudMessage(cloud *galaxy.PointCloud) CloudMessage {
	if cloud == nil {
		return CloudMessage{Positions: []float32{}, Colors: []float32{}}
	}
	msg := CloudMessage{
		Seed:      cloud.Seed,
		Count:     cloud.Len(),
		Params:    cloud.Params,
		Sun:       cloud.Sun,
		Positions: cloud.Positions,
		Colors:    cloud.Colors,
	}
	if msg.Positions == nil {
		msg.Positions = []float32{}
	}
	if msg.Colors == nil {
		msg.Colors = []float32{}
	}
	return msg
}

// WriteJSON writes cloud as a single CloudMessage object.
func WriteJSON(w io.Writer, cloud *galaxy.PointCloud) error {
	if err := json.NewEncoder(w).Encode(NewCloudMessage(cloud)); err != nil {
		return apperrors.WrapExternal("encode cloud json", err)
	}
	return nil
}

// BinaryMagic opens every binary export.
const BinaryMagic = "GLXY"

// BinaryVersion is bumped whenever the binary layout changes.
const BinaryVersion uint16 = 1

// binaryHeader precedes the interleaved point records. All fields are little
// endian. Each record is six float32 values: x y z r g b.
type binaryHeader struct {
	Magic   [4]byte
	Version uint16
	_       uint16
	Seed    uint64
	Count   uint32
	Radius  float32
	Sun     [3]float32
	SunR    float32
}

// WriteBinary writes the compact GLXY layout.
func WriteBinary(w io.Writer, cloud *galaxy.PointCloud) error {
	n := cloud.Len()
	if uint64(n) > math.MaxUint32 {
		return apperrors.Validationf("cloud of %d points is too large for the binary format", n)
	}
	bw := bufio.NewWriter(w)
	h := binaryHeader{Version: BinaryVersion, Count: uint32(n)}
	copy(h.Magic[:], BinaryMagic)
	if cloud != nil {
		h.Seed = cloud.Seed
		h.Radius = float32(cloud.Params.Radius)
		c := cloud.Sun.Color
		h.Sun = [3]float32{float32(c.R), float32(c.G), float32(c.B)}
		h.SunR = float32(cloud.Sun.Radius)
	}
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return apperrors.WrapExternal("write binary header", err)
	}
	record := make([]byte, 24)
	for i := 0; i < n; i++ {
		x, y, z := cloud.Position(i)
		r, g, b := cloud.Color(i)
		for j, v := range [6]float32{x, y, z, r, g, b} {
			binary.LittleEndian.PutUint32(record[4*j:], math.Float32bits(v))
		}
		if _, err := bw.Write(record); err != nil {
			return apperrors.WrapExternal("write binary record", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return apperrors.WrapExternal("flush binary export", err)
	}
	return nil
}

// BinaryHeader is the decoded preamble of a binary export.
type BinaryHeader struct {
	Version   uint16
	Seed      uint64
	Count     int
	Radius    float32
	SunColor  [3]float32
	SunRadius float32
}

// ReadBinary decodes a GLXY stream into its header and flat position and
// color buffers.
func ReadBinary(r io.Reader) (BinaryHeader, []float32, []float32, error) {
	var h binaryHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return BinaryHeader{}, nil, nil, apperrors.WrapValidation("read binary header", err)
	}
	if string(h.Magic[:]) != BinaryMagic {
		return BinaryHeader{}, nil, nil, apperrors.Validationf("bad magic %q", string(h.Magic[:]))
	}
	if h.Version != BinaryVersion {
		return BinaryHeader{}, nil, nil, apperrors.Validationf("unsupported binary version %d", h.Version)
	}
	if h.Count > galaxy.MaxCount {
		return BinaryHeader{}, nil, nil, apperrors.Validationf("binary header claims %d points, limit is %d", h.Count, galaxy.MaxCount)
	}
	out := BinaryHeader{
		Version:   h.Version,
		Seed:      h.Seed,
		Count:     int(h.Count),
		Radius:    h.Radius,
		SunColor:  h.Sun,
		SunRadius: h.SunR,
	}
	positions := make([]float32, 0, 3*out.Count)
	colors := make([]float32, 0, 3*out.Count)
	var rec [6]float32
	for i := 0; i < out.Count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return out, nil, nil, apperrors.WrapValidation(fmt.Sprintf("read record %d", i), err)
		}
		positions = append(positions, rec[0], rec[1], rec[2])
		colors = append(colors, rec[3], rec[4], rec[5])
	}
	return out, positions, colors, nil
}

// WritePLY writes a binary little-endian PLY file with float positions and
// 8-bit colors, readable by common point-cloud viewers.
func WritePLY(w io.Writer, cloud *galaxy.PointCloud) error {
	n := cloud.Len()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ply\nformat binary_little_endian 1.0\n")
	if cloud != nil {
		fmt.Fprintf(bw, "comment seed %d\n", cloud.Seed)
	}
	fmt.Fprintf(bw, "element vertex %d\n", n)
	fmt.Fprintf(bw, "property float x\nproperty float y\nproperty float z\n")
	fmt.Fprintf(bw, "property uchar red\nproperty uchar green\nproperty uchar blue\n")
	fmt.Fprintf(bw, "end_header\n")

	record := make([]byte, 15)
	for i := 0; i < n; i++ {
		x, y, z := cloud.Position(i)
		r, g, b := cloud.Color(i)
		binary.LittleEndian.PutUint32(record[0:], math.Float32bits(x))
		binary.LittleEndian.PutUint32(record[4:], math.Float32bits(y))
		binary.LittleEndian.PutUint32(record[8:], math.Float32bits(z))
		record[12] = unit8(r)
		record[13] = unit8(g)
		record[14] = unit8(b)
		if _, err := bw.Write(record); err != nil {
			return apperrors.WrapExternal("write ply vertex", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return apperrors.WrapExternal("flush ply export", err)
	}
	return nil
}

func unit8(v float32) uint8 {
	return galaxy.Color{R: float64(v)}.RGBA().R
}
