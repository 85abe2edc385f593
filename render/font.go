// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/gg/text"
)

// Font is a loaded font with a cache of faces by pixel size.
// A Font is safe for concurrent use.
type Font struct {
	source *text.FontSource

	mu    sync.Mutex
	faces map[float64]text.Face
}

// LoadFont reads a TrueType or OpenType font file.
func LoadFont(path string) (*Font, error) {
	// #nosec G304 -- font path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: read font: %w", err)
	}
	return ParseFont(data)
}

// ParseFont parses font data. The data is validated with the OpenType
// parser before a text source is created from it.
func ParseFont(data []byte) (*Font, error) {
	if _, err := font.ParseTTF(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("render: invalid font: %w", err)
	}
	src, err := text.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("render: font source: %w", err)
	}
	return &Font{source: src, faces: make(map[float64]text.Face)}, nil
}

// Name returns the font family name.
func (f *Font) Name() string {
	return f.source.Name()
}

// Face returns a face of the given size. Sizes are rounded to a quarter
// pixel so that nearly equal sizes share a face.
func (f *Font) Face(size float64) text.Face {
	size = math.Max(math.Round(size*4)/4, 0.25)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.faces == nil {
		f.faces = make(map[float64]text.Face)
	}
	face, ok := f.faces[size]
	if !ok {
		face = f.source.Face(size)
		f.faces[size] = face
	}
	return face
}

// Close releases the font. Faces obtained from it become invalid.
func (f *Font) Close() error {
	f.mu.Lock()
	f.faces = nil
	f.mu.Unlock()
	return f.source.Close()
}
