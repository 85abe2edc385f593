// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestParseFont(t *testing.T) {
	font, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont() error = %v", err)
	}
	defer font.Close()

	if font.Name() == "" {
		t.Error("Name() is empty")
	}
	if font.Face(12) != font.Face(12.1) {
		t.Error("nearly equal sizes should share a face")
	}
	if font.Face(12) == font.Face(24) {
		t.Error("different sizes should not share a face")
	}
}

func TestParseFontInvalid(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":   nil,
		"garbage": []byte("definitely not a font file"),
	} {
		if _, err := ParseFont(data); err == nil {
			t.Errorf("%s: ParseFont() should fail", name)
		}
	}
}

func TestLoadFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	font, err := LoadFont(path)
	if err != nil {
		t.Fatalf("LoadFont() error = %v", err)
	}
	font.Close()

	if _, err := LoadFont(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("LoadFont() of a missing file should fail")
	}
}
