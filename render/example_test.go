// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render_test

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/gogpu/svgview"
	"github.com/gogpu/svgview/render"
	"github.com/gogpu/svgview/svg"
)

// ExampleBuildScene shows how a document is recorded into surface pixels
// and replayed on a CPU context.
func ExampleBuildScene() {
	doc, err := svg.Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50">
		<rect width="100" height="50" fill="navy" stroke="gold" stroke-width="2"/>
	</svg>`, svg.DefaultOptions())
	if err != nil {
		fmt.Println("parse failed:", err)
		return
	}

	viewport := svgview.Size{Width: 200, Height: 200}
	scene := render.BuildScene(doc, svgview.FitAndCenter(doc.Size(), viewport))
	fmt.Println("commands:", scene.CommandCount())

	cc := gg.NewContext(200, 200)
	params := render.RenderParams{BaseColor: gg.White, Width: 200, Height: 200, Antialiasing: render.AAArea}
	if err := scene.Draw(cc, params, nil); err != nil {
		fmt.Println("draw failed:", err)
		return
	}
	fmt.Println("drawn")
	// Output:
	// commands: 2
	// drawn
}
