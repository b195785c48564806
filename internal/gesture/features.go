// Package gesture turns per-frame hand landmark detections into a small
// control vocabulary for a 3D scene: discrete mode changes (chaos, formed,
// focus lock) and smoothed continuous rotation and zoom signals.
package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// The feature extractors below are pure functions over well-formed 21-point
// hands. They have no failure modes; a hand with the wrong landmark count is
// a defect in the upstream detector, not a condition to recover from here.

// InterHandDistance returns the distance between the two wrists, projected
// onto the image plane. Depth is ignored: the spread gesture is judged on
// what the user sees, and z from a monocular detector is too noisy to help.
func InterHandDistance(h1, h2 *detector.HandLandmarks) float64 {
	a := h1.WristPoint()
	b := h2.WristPoint()
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// FistClosure returns the mean distance from the wrist to the four non-thumb
// fingertips. A small value means the hand is closed.
func FistClosure(h *detector.HandLandmarks) float64 {
	wrist := h.WristPoint()

	var sum float64
	for _, tip := range detector.FingerTips {
		p := h.Points[tip]
		dx := p.X - wrist.X
		dy := p.Y - wrist.Y
		dz := p.Z - wrist.Z
		sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return sum / float64(len(detector.FingerTips))
}

// PinchDistance returns the thumb-tip to index-tip distance, projected onto
// the image plane.
func PinchDistance(h *detector.HandLandmarks) float64 {
	a := h.Points[detector.ThumbTip]
	b := h.Points[detector.IndexTip]
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// WristDelta returns the wrist displacement between two samples of the same
// hand.
func WristDelta(prev, curr detector.Point3D) (dx, dy float64) {
	return curr.X - prev.X, curr.Y - prev.Y
}
