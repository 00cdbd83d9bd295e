package shaders

import (
	_ "embed"
)

//go:embed toon.wgsl
var ToonWGSL string

//go:embed points.wgsl
var PointsWGSL string
