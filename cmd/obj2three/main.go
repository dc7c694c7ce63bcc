// obj2three - Convert Wavefront OBJ / MTL files into three.js models.
//
// The ascii and binary outputs target the classic JSON model loaders;
// the gltf and glb outputs target the current GLTFLoader. The optional
// preview spins the converted model in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/taigrr/obj2three/pkg/geometry"
	"github.com/taigrr/obj2three/pkg/gltfexport"
	"github.com/taigrr/obj2three/pkg/math3d"
	"github.com/taigrr/obj2three/pkg/models"
	"github.com/taigrr/obj2three/pkg/preview"
	"github.com/taigrr/obj2three/pkg/three"
)

var (
	inFile      = flag.String("i", "", "input OBJ file")
	outFile     = flag.String("o", "", "output file (.js for ascii/binary, .gltf/.glb for gltf)")
	morphFiles  = flag.String("m", "", "morph OBJ file patterns (quoted, space separated)")
	morphColors = flag.String("c", "", "morph color OBJ file patterns (quoted, space separated)")
	align       = flag.String("a", "none", "model alignment: center|centerxz|top|bottom|none")
	shading     = flag.String("s", "smooth", "shading: smooth = export vertex normals, flat = loader computes face normals")
	format      = flag.String("t", "ascii", "output format: ascii|binary|gltf|glb")
	dissolve    = flag.String("d", "normal", "transparency interpretation: normal|invert")
	bakeColors  = flag.Bool("b", false, "bake material colors into face colors")
	scale       = flag.Float64("x", 0, "snap vertex coordinates to a 1/x grid (0 disables)")
	morphStep   = flag.Int("f", 1, "morph frame sampling step")
	showPreview = flag.Bool("p", false, "preview the model as a terminal wireframe")
	previewFPS  = flag.Int("fps", 30, "preview frame rate")
	dump        = flag.Bool("dump", false, "dump the parsed model to stderr and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "obj2three - Convert Wavefront OBJ / MTL files into three.js models\n\n")
		fmt.Fprintf(os.Stderr, "Usage: obj2three -i infile.obj -o outfile.js [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nThe binary format writes two files: outfile.js with the material\n")
		fmt.Fprintf(os.Stderr, "descriptors and outfile.bin with the packed geometry.\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *inFile == "" {
		flag.Usage()
		return fmt.Errorf("no input file")
	}
	if *outFile == "" && !*showPreview && !*dump {
		flag.Usage()
		return fmt.Errorf("no output file")
	}

	alignment, err := geometry.ParseAlignment(*align)
	if err != nil {
		return err
	}
	smooth, err := parseChoice(*shading, "smooth", "flat")
	if err != nil {
		return fmt.Errorf("-s: %w", err)
	}
	invert, err := parseChoice(*dissolve, "invert", "normal")
	if err != nil {
		return fmt.Errorf("-d: %w", err)
	}
	switch *format {
	case "ascii", "binary", "gltf", "glb":
	default:
		return fmt.Errorf("-t: unknown format %q", *format)
	}

	mesh, err := models.LoadOBJ(*inFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %s: %d vertices, %d faces, %d materials\n",
		filepath.Base(*inFile), mesh.VertexCount(), mesh.FaceCount(), len(mesh.Materials))

	if *dump {
		spew.Fdump(os.Stderr, mesh)
		return nil
	}

	offset := mesh.Align(alignment)

	targets, err := loadMorphTargets(mesh, offset)
	if err != nil {
		return err
	}
	colorSets, err := loadMorphColors(mesh)
	if err != nil {
		return err
	}

	if smooth {
		mesh.NormalizeNormals()
	} else {
		mesh.DropNormals()
	}
	mesh.Quantize(*scale)

	if *outFile != "" {
		if err := writeOutput(mesh, targets, colorSets, smooth, invert); err != nil {
			return err
		}
	}

	if *showPreview {
		return preview.Run(mesh, *previewFPS)
	}
	return nil
}

// loadMorphTargets expands the -m patterns and loads every sampled
// frame, applying the base model's alignment offset and grid so frames
// stay registered with it.
func loadMorphTargets(mesh *models.Mesh, offset math3d.Vec3) ([]models.MorphTarget, error) {
	if *morphFiles == "" {
		return nil, nil
	}

	paths, err := models.ExpandPatterns(*morphFiles, *morphStep)
	if err != nil {
		return nil, err
	}
	targets, err := models.LoadMorphTargets(paths, mesh.VertexCount())
	if err != nil {
		return nil, err
	}

	for i := range targets {
		geometry.Translate(targets[i].Vertices, offset)
		models.QuantizeVertices(targets[i].Vertices, *scale)
	}

	fmt.Fprintf(os.Stderr, "Loaded %d morph targets\n", len(targets))
	return targets, nil
}

func loadMorphColors(mesh *models.Mesh) ([]models.MorphColorSet, error) {
	if *morphColors == "" {
		return nil, nil
	}

	paths, err := models.ExpandPatterns(*morphColors, *morphStep)
	if err != nil {
		return nil, err
	}
	sets, err := models.LoadMorphColors(paths)
	if err != nil {
		return nil, err
	}
	for _, set := range sets {
		if len(set.Colors) != mesh.FaceCount() {
			return nil, fmt.Errorf("morph colors %s has %d faces, base model has %d",
				set.Name, len(set.Colors), mesh.FaceCount())
		}
	}

	fmt.Fprintf(os.Stderr, "Loaded %d morph color sets\n", len(sets))
	return sets, nil
}

func writeOutput(mesh *models.Mesh, targets []models.MorphTarget, colorSets []models.MorphColorSet, smooth, invert bool) error {
	switch *format {
	case "gltf", "glb":
		f, err := os.Create(*outFile)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()

		opts := gltfexport.Options{
			Smooth:             smooth,
			InvertTransparency: invert,
			Binary:             *format == "glb",
		}
		if err := gltfexport.Write(f, mesh, opts); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *outFile)
		return nil
	}

	opts := three.Options{
		SourceFile:         filepath.Base(*inFile),
		Smooth:             smooth,
		BakeColors:         *bakeColors,
		InvertTransparency: invert,
	}

	f, err := os.Create(*outFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if *format == "ascii" {
		if err := three.WriteASCII(f, mesh, targets, colorSets, opts); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *outFile)
		return nil
	}

	binPath := strings.TrimSuffix(*outFile, filepath.Ext(*outFile)) + ".bin"
	if err := three.WriteBinaryJS(f, mesh, filepath.Base(binPath), opts); err != nil {
		return err
	}

	bf, err := os.Create(binPath)
	if err != nil {
		return fmt.Errorf("create buffer: %w", err)
	}
	defer bf.Close()

	if err := three.WriteBinaryBuffer(bf, mesh, opts); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s and %s\n", *outFile, binPath)
	return nil
}

// parseChoice maps a two-value flag onto a bool, true for the first
// value.
func parseChoice(value, yes, no string) (bool, error) {
	switch value {
	case yes:
		return true, nil
	case no:
		return false, nil
	}
	return false, fmt.Errorf("want %s or %s, got %q", yes, no, value)
}
