package three

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/taigrr/obj2three/pkg/models"
)

// The binary variant splits the model into a small JSON descriptor
// (materials plus the buffer file name) and a packed little-endian
// buffer. The buffer starts with a fixed 64 byte header and groups
// faces into eight sections by shape, shading and texturing:
// triangles before quads, flat before smooth, untextured before
// textured. Every section is padded to a four byte boundary.

const binarySignature = "Three.js 003"

const (
	headerBytes        = 64
	vertexCoordBytes   = 4 // float32
	normalCoordBytes   = 1 // int8, scaled by 127
	uvCoordBytes       = 4 // float32
	vertexIndexBytes   = 4 // uint32
	normalIndexBytes   = 4 // uint32
	uvIndexBytes       = 4 // uint32
	materialIndexBytes = 2 // uint16
)

type binaryDocument struct {
	Metadata  metadata       `json:"metadata"`
	Materials []MaterialJSON `json:"materials"`
	Buffers   string         `json:"buffers"`
}

// WriteBinaryJS writes the JSON descriptor that accompanies a binary
// buffer. binName is the buffer file name as the loader should fetch
// it, normally just the base name since both files sit side by side.
func WriteBinaryJS(w io.Writer, mesh *models.Mesh, binName string, opts Options) error {
	normals := 0
	if opts.Smooth {
		normals = len(mesh.Normals)
	}

	doc := binaryDocument{
		Metadata: metadata{
			FormatVersion: 3,
			SourceFile:    opts.SourceFile,
			GeneratedBy:   "obj2three",
			Vertices:      mesh.VertexCount(),
			Faces:         mesh.FaceCount(),
			Normals:       normals,
			UVs:           len(mesh.UVs),
			Materials:     len(mesh.Materials),
		},
		Materials: BuildMaterials(mesh, opts.InvertTransparency),
		Buffers:   binName,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}
	return nil
}

// faceBuckets sorts faces into the eight binary sections, preserving
// file order within each.
type faceBuckets struct {
	triFlat     []models.Face
	triSmooth   []models.Face
	triFlatUV   []models.Face
	triSmoothUV []models.Face

	quadFlat     []models.Face
	quadSmooth   []models.Face
	quadFlatUV   []models.Face
	quadSmoothUV []models.Face
}

func bucketFaces(mesh *models.Mesh, smooth bool) faceBuckets {
	var b faceBuckets
	for _, f := range mesh.Faces {
		hasNormal := smooth && f.HasNormals()
		hasUV := f.HasUVs()
		switch {
		case !f.IsQuad() && !hasNormal && !hasUV:
			b.triFlat = append(b.triFlat, f)
		case !f.IsQuad() && hasNormal && !hasUV:
			b.triSmooth = append(b.triSmooth, f)
		case !f.IsQuad() && !hasNormal:
			b.triFlatUV = append(b.triFlatUV, f)
		case !f.IsQuad():
			b.triSmoothUV = append(b.triSmoothUV, f)
		case !hasNormal && !hasUV:
			b.quadFlat = append(b.quadFlat, f)
		case hasNormal && !hasUV:
			b.quadSmooth = append(b.quadSmooth, f)
		case !hasNormal:
			b.quadFlatUV = append(b.quadFlatUV, f)
		default:
			b.quadSmoothUV = append(b.quadSmoothUV, f)
		}
	}
	return b
}

// WriteBinaryBuffer writes the packed geometry buffer.
func WriteBinaryBuffer(w io.Writer, mesh *models.Mesh, opts Options) error {
	buckets := bucketFaces(mesh, opts.Smooth)

	normals := mesh.Normals
	if !opts.Smooth {
		normals = nil
	}

	var buf bytes.Buffer

	buf.WriteString(binarySignature)
	buf.Write([]byte{
		headerBytes,
		vertexCoordBytes,
		normalCoordBytes,
		uvCoordBytes,
		vertexIndexBytes,
		normalIndexBytes,
		uvIndexBytes,
		materialIndexBytes,
	})
	for _, n := range []int{
		len(mesh.Vertices),
		len(normals),
		len(mesh.UVs),
		len(buckets.triFlat),
		len(buckets.triSmooth),
		len(buckets.triFlatUV),
		len(buckets.triSmoothUV),
		len(buckets.quadFlat),
		len(buckets.quadSmooth),
		len(buckets.quadFlatUV),
		len(buckets.quadSmoothUV),
	} {
		putUint32(&buf, n)
	}

	for _, v := range mesh.Vertices {
		putFloat32(&buf, v.X)
		putFloat32(&buf, v.Y)
		putFloat32(&buf, v.Z)
	}
	pad(&buf)

	// Normals are quantized to signed bytes; unit vectors survive the
	// 1/127 resolution with no visible difference.
	for _, n := range normals {
		buf.WriteByte(byte(int8(math.Round(n.X * 127))))
		buf.WriteByte(byte(int8(math.Round(n.Y * 127))))
		buf.WriteByte(byte(int8(math.Round(n.Z * 127))))
	}
	pad(&buf)

	for _, uv := range mesh.UVs {
		putFloat32(&buf, uv.X)
		putFloat32(&buf, uv.Y)
	}
	pad(&buf)

	writeSection(&buf, buckets.triFlat, false, false)
	writeSection(&buf, buckets.triSmooth, true, false)
	writeSection(&buf, buckets.triFlatUV, false, true)
	writeSection(&buf, buckets.triSmoothUV, true, true)
	writeSection(&buf, buckets.quadFlat, false, false)
	writeSection(&buf, buckets.quadSmooth, true, false)
	writeSection(&buf, buckets.quadFlatUV, false, true)
	writeSection(&buf, buckets.quadSmoothUV, true, true)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write buffer: %w", err)
	}
	return nil
}

// writeSection packs one face bucket: vertex indices, then normal and
// uv indices when present, then the material index.
func writeSection(buf *bytes.Buffer, faces []models.Face, withNormals, withUVs bool) {
	for _, f := range faces {
		for _, v := range f.V {
			putUint32(buf, v)
		}
		if withNormals {
			for _, n := range f.N {
				putUint32(buf, n)
			}
		}
		if withUVs {
			for _, t := range f.T {
				putUint32(buf, t)
			}
		}
		putUint16(buf, max(f.Material, 0))
	}
	pad(buf)
}

func putUint32(buf *bytes.Buffer, v int) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func putUint16(buf *bytes.Buffer, v int) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	buf.Write(b[:])
}

func putFloat32(buf *bytes.Buffer, v float64) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v)))
	buf.Write(b[:])
}

// pad aligns the buffer to a four byte boundary.
func pad(buf *bytes.Buffer) {
	if rem := buf.Len() % 4; rem != 0 {
		buf.Write(make([]byte, 4-rem))
	}
}
