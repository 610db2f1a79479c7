package export

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	apperrors "galaxy-gen/internal/errors"
	"galaxy-gen/internal/galaxy"
)

func testCloud(t *testing.T, count int) *galaxy.PointCloud {
	t.Helper()
	p := galaxy.DefaultParams()
	p.Count = count
	return galaxy.GenerateSeeded(p, 21)
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatJSON, "JSON": FormatJSON, ".ply": FormatPLY, "bin": FormatBinary, "glxy": FormatBinary}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("obj"); !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if FormatForPath("out/galaxy.PLY") != FormatPLY || FormatForPath("noext") != FormatJSON {
		t.Fatal("unexpected format for path")
	}
}

func TestWriteJSON(t *testing.T) {
	cloud := testCloud(t, 10)
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, cloud); err != nil {
		t.Fatal(err)
	}
	var msg CloudMessage
	if err := json.Unmarshal(buf.Bytes(), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Count != 10 || msg.Seed != 21 || len(msg.Positions) != 30 || len(msg.Colors) != 30 {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.Params.InsideColor != cloud.Params.InsideColor {
		t.Fatalf("inside color %v lost in transit", msg.Params.InsideColor)
	}
}

func TestWriteJSONEmptyCloudUsesArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"positions":[]`) {
		t.Fatalf("expected empty arrays, got %s", buf.String())
	}
}

func TestBinaryLayout(t *testing.T) {
	cloud := testCloud(t, 257)
	var buf bytes.Buffer
	if err := WriteBinary(&buf, cloud); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.Len(), 40+24*257; got != want {
		t.Fatalf("binary size %d, want %d", got, want)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte(BinaryMagic)) {
		t.Fatal("missing magic")
	}
	h, positions, colors, err := ReadBinary(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if h.Count != 257 || h.Seed != 21 || h.SunRadius != float32(galaxy.SunRadius) {
		t.Fatalf("unexpected header %+v", h)
	}
	if !slices.Equal(positions, cloud.Positions) || !slices.Equal(colors, cloud.Colors) {
		t.Fatal("binary payload differs from the cloud")
	}
}

func TestReadBinaryRejectsForeignData(t *testing.T) {
	data := bytes.Repeat([]byte{'x'}, 64)
	if _, _, _, err := ReadBinary(bytes.NewReader(data)); !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func forgedHeader(t *testing.T, count uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	h := binaryHeader{Version: BinaryVersion, Seed: 3, Count: count, Radius: 1}
	copy(h.Magic[:], BinaryMagic)
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadBinaryRejectsOversizedCount(t *testing.T) {
	for _, count := range []uint32{galaxy.MaxCount + 1, 50_000_000, ^uint32(0)} {
		_, positions, _, err := ReadBinary(bytes.NewReader(forgedHeader(t, count)))
		if !apperrors.IsValidation(err) {
			t.Fatalf("count %d: expected validation error, got %v", count, err)
		}
		if positions != nil {
			t.Fatalf("count %d: buffers returned for a rejected header", count)
		}
	}
}

func TestReadBinaryTruncatedRecords(t *testing.T) {
	_, _, _, err := ReadBinary(bytes.NewReader(forgedHeader(t, 4)))
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWritePLY(t *testing.T) {
	cloud := testCloud(t, 12)
	var buf bytes.Buffer
	if err := Write(&buf, FormatPLY, cloud); err != nil {
		t.Fatal(err)
	}
	header, body, ok := bytes.Cut(buf.Bytes(), []byte("end_header\n"))
	if !ok {
		t.Fatal("missing end_header")
	}
	h := string(header)
	if !strings.HasPrefix(h, "ply\nformat binary_little_endian 1.0\n") || !strings.Contains(h, "element vertex 12\n") {
		t.Fatalf("unexpected header %q", h)
	}
	if len(body) != 12*15 {
		t.Fatalf("body size %d, want %d", len(body), 12*15)
	}
}

func TestFormatMetadata(t *testing.T) {
	for _, f := range Formats() {
		if f.Extension() == "" || f.ContentType() == "" {
			t.Fatalf("%s lacks metadata", f)
		}
		if FormatForPath("galaxy"+f.Extension()) != f {
			t.Fatalf("%s extension does not map back", f)
		}
	}
}
