package gesture

import "time"

// Config holds the calibration constants for gesture classification and
// control smoothing. The values are tuning data, not architecture: they are
// read at classification time without validation, and a mis-tuned threshold
// is a calibration defect rather than a runtime error.
//
// All geometric thresholds are in normalized camera space (image width and
// height both span 1.0). Motion thresholds are absolute deltas per
// invocation, never per unit time; the double-pinch window is the only
// wall-clock quantity, measured from the timestamps the caller supplies.
type Config struct {
	// DoublePinchWindow is the maximum time between a pinch release and the
	// next pinch engage for the pair to count as a double pinch.
	DoublePinchWindow time.Duration

	// PinchThreshold is the thumb-index tip distance below which the hand
	// counts as pinched.
	PinchThreshold float64

	// FistThreshold is the mean wrist-to-fingertip distance below which the
	// hand counts as a closed fist.
	FistThreshold float64

	// SpreadThreshold is the minimum inter-hand distance increase across the
	// spread window that counts as a deliberate two-hand spread.
	SpreadThreshold float64

	// RotationDeadzone and ZoomDeadzone filter wrist jitter out of the drag
	// channel. Deltas at or below the deadzone contribute nothing.
	RotationDeadzone float64
	ZoomDeadzone     float64

	// RotationSensitivity scales the horizontal drag impulse;
	// ZoomSensitivity scales the vertical drag contribution to zoom level.
	RotationSensitivity float64
	ZoomSensitivity     float64

	// RotationDecay is the per-frame multiplicative decay of rotation
	// velocity, and doubles as the EMA retention weight when a drag impulse
	// is blended in. Sensible range is 0.75-0.85.
	RotationDecay float64

	// IdleSpin is a tiny baseline rotation the smoother eases toward while
	// the scene is formed and the hand is otherwise still. Zero disables it.
	IdleSpin float64
}

// DefaultConfig returns the calibration used when no stored profile is
// active. The values came out of live tuning against a 640x480 feed at
// roughly 30 detections per second.
func DefaultConfig() Config {
	return Config{
		DoublePinchWindow:   400 * time.Millisecond,
		PinchThreshold:      0.05,
		FistThreshold:       0.20,
		SpreadThreshold:     0.015,
		RotationDeadzone:    0.004,
		ZoomDeadzone:        0.008,
		RotationSensitivity: 6.0,
		ZoomSensitivity:     1.5,
		RotationDecay:       0.8,
		IdleSpin:            0.002,
	}
}
