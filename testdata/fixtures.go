// Package testdata builds synthetic video frames for pipeline tests, so
// integration tests don't depend on a camera or recorded footage.
package testdata

import (
	"image"

	"gocv.io/x/gocv"
)

// SolidFrame returns a 640x480 BGR frame filled with a single intensity.
// The caller owns the returned Mat.
func SolidFrame(value uint8) *gocv.Mat {
	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	v := float64(value)
	mat.SetTo(gocv.NewScalar(v, v, v, 0))
	return &mat
}

// DotFrame returns a dark frame with a bright square centered at (x, y)
// in pixel coordinates. Sequences of these drive the motion gate.
func DotFrame(x, y int) *gocv.Mat {
	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)

	const half = 40
	rect := image.Rect(x-half, y-half, x+half, y+half)
	rect = rect.Intersect(image.Rect(0, 0, 640, 480))

	region := mat.Region(rect)
	region.SetTo(gocv.NewScalar(255, 255, 255, 0))
	region.Close()

	return &mat
}

// MovingDotSequence returns n frames of a bright square sweeping left to
// right, enough inter-frame change to keep motion detection active.
func MovingDotSequence(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		x := 80 + (480*i)/max(n-1, 1)
		frames = append(frames, DotFrame(x, 240))
	}
	return frames
}

// CloseFrames releases every Mat in the slice.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
