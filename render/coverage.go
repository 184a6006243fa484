package render

import "math"

// Circle mask constants shared with circle.wgsl. The disc edge sits at
// local distance 0.5; opacity ramps to full by 0.48, and fragments whose
// coverage falls below the discard threshold are dropped.
const (
	CircleEdge       = 0.5
	CircleEdgeInner  = 0.48
	DiscardThreshold = 0.01
)

// Smoothstep is the WGSL builtin of the same name: a clamped cubic ease
// between edge0 and edge1. edge0 > edge1 inverts the ramp, which is how
// the fragment stage turns distance into opacity.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// CircleCoverage returns the mask alpha for a fragment at the given local
// quad position (both coordinates in [-0.5, 0.5]).
func CircleCoverage(localX, localY float32) float32 {
	dist := float32(math.Hypot(float64(localX), float64(localY)))
	return Smoothstep(CircleEdge, CircleEdgeInner, dist)
}

// ShadeFragment mirrors fs_main in circle.wgsl on the CPU. drawn is false
// when the fragment would be discarded; the returned color keeps the
// instance RGB untouched and modulates only the alpha channel.
func ShadeFragment(localX, localY float32, color [4]float32) (rgba [4]float32, drawn bool) {
	alpha := CircleCoverage(localX, localY)
	if alpha < DiscardThreshold {
		return [4]float32{}, false
	}
	return [4]float32{color[0], color[1], color[2], color[3] * alpha}, true
}
