package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// continuationMarker joins a physical MTL line with its successor when it
// appears at the very end of the line, newline included.
const continuationMarker = "\\\n"

// ReadDirectives reads physical lines from r, folds lines ending in the
// continuation marker into single logical lines, and calls emit with the
// directive keyword and the remainder of each logical line. Blank lines
// and comments are skipped.
//
// One piece of state is carried across iterations: the pending fragment
// of an unfinished logical line. It is prepended to the next physical
// line and cleared at the start of every iteration. When the stream ends
// or a read fails while a fragment is held, the fragment is dispatched
// as a complete logical line rather than dropped.
func ReadDirectives(r io.Reader, emit func(keyword, rest string)) error {
	br := bufio.NewReader(r)
	pending := ""

	for {
		line, err := br.ReadString('\n')
		if err != nil && line == "" {
			if pending != "" {
				dispatch(pending, emit)
				pending = ""
			}
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read material line: %w", err)
		}

		text := pending + line
		pending = ""

		if strings.HasSuffix(text, continuationMarker) {
			pending = strings.TrimSuffix(text, continuationMarker)
			continue
		}

		dispatch(text, emit)
	}
}

// dispatch splits a logical line into keyword and remainder and hands it
// to the caller.
func dispatch(text string, emit func(keyword, rest string)) {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return
	}

	keyword, rest, _ := strings.Cut(text, " ")
	if i := strings.IndexByte(keyword, '\t'); i >= 0 {
		// Some exporters separate the keyword with a tab.
		keyword, rest = text[:i], text[i+1:]
	}
	emit(keyword, strings.TrimSpace(rest))
}

// ParseMTL reads a material library from r and returns the materials it
// defines, in definition order.
func ParseMTL(r io.Reader) ([]Material, error) {
	var materials []Material
	current := -1

	err := ReadDirectives(r, func(keyword, rest string) {
		if keyword == "newmtl" {
			materials = append(materials, NewMaterial(rest))
			current = len(materials) - 1
			return
		}
		if current < 0 {
			// Directive before any newmtl; nothing to attach it to.
			return
		}

		mat := &materials[current]
		switch keyword {
		case "Ka":
			mat.Ambient = parseColor(rest, mat.Ambient)
		case "Kd":
			mat.Diffuse = parseColor(rest, mat.Diffuse)
		case "Ks":
			mat.Specular = parseColor(rest, mat.Specular)
		case "Ns":
			mat.Shininess = parseScalar(rest, mat.Shininess)
		case "Ni":
			mat.OpticalDensity = parseScalar(rest, mat.OpticalDensity)
		case "d":
			mat.Opacity = parseScalar(rest, mat.Opacity)
		case "Tr":
			mat.Opacity = 1 - parseScalar(rest, 1-mat.Opacity)
		case "illum":
			if n, err := strconv.Atoi(rest); err == nil {
				mat.Illum = n
			}
		case "map_Kd":
			mat.DiffuseMap = rest
		case "map_Ka":
			mat.AmbientMap = rest
		case "map_Ks":
			mat.SpecularMap = rest
		case "map_Bump", "map_bump", "bump":
			mat.BumpMap = rest
		case "map_d":
			mat.AlphaMap = rest
		default:
			// Unrecognized directive; MTL has many exporter-specific
			// extensions and they are all safe to skip.
		}
	})
	if err != nil {
		return nil, err
	}

	return materials, nil
}

// LoadMTL reads a material library file. A file that cannot be opened is
// a hard error; there is no fallback material source.
func LoadMTL(path string) ([]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open material library: %w", err)
	}
	defer f.Close()

	materials, err := ParseMTL(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return materials, nil
}

// parseColor parses up to three floats, falling back to the previous
// value on malformed input. A single value is replicated across RGB, as
// some exporters write grayscale colors that way.
func parseColor(s string, prev [3]float64) [3]float64 {
	fields := strings.Fields(s)
	switch len(fields) {
	case 0:
		return prev
	case 1, 2:
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return prev
		}
		return [3]float64{v, v, v}
	}

	var c [3]float64
	for i := range 3 {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return prev
		}
		c[i] = v
	}
	return c
}

// parseScalar parses a single float, keeping the previous value on
// malformed input.
func parseScalar(s string, prev float64) float64 {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return prev
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return prev
	}
	return v
}
