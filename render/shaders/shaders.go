package shaders

import (
	_ "embed"
)

//go:embed circle.wgsl
var CircleWGSL string

//go:embed overlay.wgsl
var OverlayWGSL string

//go:embed text.wgsl
var TextWGSL string
