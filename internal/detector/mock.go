package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to script the detection results frame by frame.
type MockDetector struct {
	hands  []HandLandmarks
	script [][]HandLandmarks
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
	m.script = nil
}

// SetScript queues per-call detection results. Each Detect call consumes one
// entry; once the script is exhausted Detect falls back to the SetHands value.
func (m *MockDetector) SetScript(script [][]HandLandmarks) {
	m.script = script
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmLandmarks returns a preset hand with all fingers extended: large
// fist closure, thumb and index tips far apart. The neutral control pose.
func OpenPalmLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	// Thumb extended to the side
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	lm.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	lm.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	lm.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	lm.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	lm.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward
	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	lm.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	lm.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	lm.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	lm.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	lm.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	lm.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	lm.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return lm
}

// FistLandmarks returns a preset closed fist: every fingertip curled in
// toward the palm, so the mean wrist-to-fingertip distance is small.
func FistLandmarks() HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	// Thumb wrapped across the curled fingers
	lm.Points[ThumbCMC] = Point3D{X: 0.54, Y: 0.76, Z: 0.01}
	lm.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.72, Z: 0.01}
	lm.Points[ThumbIP] = Point3D{X: 0.55, Y: 0.70, Z: -0.01}
	lm.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.70, Z: -0.02}

	// Index finger curled
	lm.Points[IndexMCP] = Point3D{X: 0.54, Y: 0.70, Z: -0.02}
	lm.Points[IndexPIP] = Point3D{X: 0.54, Y: 0.67, Z: -0.05}
	lm.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.69, Z: -0.05}
	lm.Points[IndexTip] = Point3D{X: 0.51, Y: 0.72, Z: -0.03}

	// Middle finger curled
	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.69, Z: -0.02}
	lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	lm.Points[MiddleDIP] = Point3D{X: 0.48, Y: 0.68, Z: -0.05}
	lm.Points[MiddleTip] = Point3D{X: 0.47, Y: 0.71, Z: -0.03}

	// Ring finger curled
	lm.Points[RingMCP] = Point3D{X: 0.46, Y: 0.70, Z: -0.02}
	lm.Points[RingPIP] = Point3D{X: 0.46, Y: 0.67, Z: -0.05}
	lm.Points[RingDIP] = Point3D{X: 0.44, Y: 0.69, Z: -0.05}
	lm.Points[RingTip] = Point3D{X: 0.43, Y: 0.72, Z: -0.03}

	// Pinky finger curled
	lm.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.72, Z: -0.02}
	lm.Points[PinkyPIP] = Point3D{X: 0.42, Y: 0.69, Z: -0.05}
	lm.Points[PinkyDIP] = Point3D{X: 0.40, Y: 0.71, Z: -0.04}
	lm.Points[PinkyTip] = Point3D{X: 0.39, Y: 0.74, Z: -0.02}

	return lm
}

// PinchLandmarks returns a preset pinching hand: thumb tip and index tip
// touching while the remaining fingers stay extended, so pinch distance
// triggers without the fist rule firing first.
func PinchLandmarks() HandLandmarks {
	lm := OpenPalmLandmarks()

	// Bring thumb and index tips together above the palm
	lm.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.55, Z: 0.02}
	lm.Points[ThumbTip] = Point3D{X: 0.565, Y: 0.46, Z: 0.02}
	lm.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.52, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.57, Y: 0.46, Z: 0.0}

	return lm
}

// TranslatedHand returns a copy of the hand with every landmark shifted by
// (dx, dy). Used to script wrist motion across frames.
func TranslatedHand(h HandLandmarks, dx, dy float64) HandLandmarks {
	out := h
	for i := range out.Points {
		out.Points[i].X += dx
		out.Points[i].Y += dy
	}
	return out
}
