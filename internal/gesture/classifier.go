package gesture

import (
	"math"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Mode is the discrete classification of one frame.
type Mode string

const (
	// ModeNoHand means no hand was detected this frame.
	ModeNoHand Mode = "no_hand"
	// ModeChaos means a two-hand spread was detected; the sink scatters the scene.
	ModeChaos Mode = "chaos"
	// ModeFormed means a fist was detected; the sink assembles the scene.
	ModeFormed Mode = "formed"
	// ModeLocked means focus lock is held via double pinch.
	ModeLocked Mode = "locked"
	// ModeControl means the hand is driving continuous rotation/zoom.
	ModeControl Mode = "control"
)

// Action is the single resolved output for one frame: one mode plus the
// continuous control values the rendering side consumes. It is ephemeral;
// the sink reads it and the next frame replaces it.
type Action struct {
	Mode             Mode    `json:"mode"`
	RotationVelocity float64 `json:"rotation_velocity"`
	ZoomLevel        float64 `json:"zoom_level"`
	FocusLocked      bool    `json:"focus_locked"`
}

// Spread detection window: the inter-hand distance ring holds the last
// spreadWindow samples and the spread rule needs at least minSpreadSamples
// of them before it compares newest against oldest.
const (
	spreadWindow     = 5
	minSpreadSamples = 3
)

// distanceRing is a fixed-capacity ring of recent inter-hand distances with
// an explicit write cursor. Overflow drops the oldest sample; capacity and
// eviction are invariants, not incidental slice behavior.
type distanceRing struct {
	buf  [spreadWindow]float64
	next int
	size int
}

func (r *distanceRing) push(v float64) {
	r.buf[r.next] = v
	r.next = (r.next + 1) % spreadWindow
	if r.size < spreadWindow {
		r.size++
	}
}

func (r *distanceRing) clear() {
	r.next = 0
	r.size = 0
}

func (r *distanceRing) len() int {
	return r.size
}

func (r *distanceRing) newest() float64 {
	return r.buf[(r.next-1+spreadWindow)%spreadWindow]
}

func (r *distanceRing) oldest() float64 {
	return r.buf[(r.next-r.size+spreadWindow)%spreadWindow]
}

// Controller classifies each incoming detection frame and maintains the
// interaction state retained across frames: the spread window, the previous
// wrist sample, the pinch/lock sub-state, and the smoothed control channels.
//
// It is a finite-state machine with continuous-valued guards, not a decision
// tree: the guards read windowed history and event timing, so identical
// instantaneous geometry can resolve differently depending on state.
//
// A Controller is single-writer. ProcessFrame is invoked once per detection
// cycle by one goroutine; a host that classifies on a different thread than
// it detects must serialize access itself.
type Controller struct {
	cfg      Config
	smoother Smoother

	// Spread history. Only meaningful across contiguous two-hand frames.
	distances distanceRing

	// Previous wrist sample of the primary hand. Drag control only ever
	// needs the last contiguous sample.
	prevWrist detector.Point3D
	haveWrist bool

	// Pinch sub-state: Released -> FirstPinch -> (within window) -> Locked
	// -> (release) -> Released.
	pinched     bool
	locked      bool
	lastRelease time.Time
	haveRelease bool
}

// NewController creates a Controller with the given calibration.
func NewController(cfg Config) *Controller {
	return &Controller{
		cfg:      cfg,
		smoother: NewSmoother(cfg.RotationDecay, cfg.IdleSpin),
	}
}

// Config returns the active calibration.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetConfig swaps the calibration between frames. History and the continuous
// channels carry over; only the thresholds change.
func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg
	c.smoother.SetPolicy(cfg.RotationDecay, cfg.IdleSpin)
}

// Locked reports whether focus lock is currently held.
func (c *Controller) Locked() bool {
	return c.locked
}

// ProcessFrame resolves exactly one Action for the detection, in strict
// priority order: signal loss, two-hand spread, fist, pinch lock, drag.
// The first matching rule wins and short-circuits the rest, so discrete
// full-hand gestures can never be shadowed by incidental small motion, and
// the sticky lock is checked before drag so a held pinch cannot be overridden
// by wrist jitter in the same frame.
//
// now is the caller-supplied timestamp for this frame; the controller never
// reads the wall clock and never assumes a fixed frame delta.
func (c *Controller) ProcessFrame(det detector.DetectionResult, now time.Time) Action {
	if det.Count() == 0 {
		return c.signalLost()
	}

	primary := det.Primary()

	// Rule 2: two-hand spread. The distance window only accumulates while
	// both hands stay in frame; a hand-count change invalidates it.
	if det.Count() == 2 {
		secondary := det.Secondary()
		c.distances.push(InterHandDistance(&primary, &secondary))
		if c.distances.len() >= minSpreadSamples &&
			c.distances.newest()-c.distances.oldest() > c.cfg.SpreadThreshold {
			c.rememberWrist(primary)
			c.smoother.Decay()
			return c.resolve(ModeChaos)
		}
	} else {
		c.distances.clear()
	}

	// Rule 3: fist. Any present hand closing into a fist wins over pinch
	// and drag; a full fist is deliberate and overrides ongoing rotation.
	for _, h := range det.Hands() {
		if FistClosure(&h) < c.cfg.FistThreshold {
			c.rememberWrist(primary)
			c.smoother.Decay()
			c.smoother.IdleNudge()
			return c.resolve(ModeFormed)
		}
	}

	// Rule 4: pinch edges and the double-pinch lock, on the primary hand.
	if PinchDistance(&primary) < c.cfg.PinchThreshold {
		if !c.pinched {
			// Engage edge. A second engage within the window of the most
			// recent release latches the lock.
			c.pinched = true
			if c.haveRelease && now.Sub(c.lastRelease) < c.cfg.DoublePinchWindow {
				c.locked = true
			}
		}
	} else if c.pinched {
		// Release edge. Always stamps the release time so double-pinch
		// timing measures from the most recent release, locked or not.
		c.pinched = false
		c.locked = false
		c.lastRelease = now
		c.haveRelease = true
	}

	if c.locked {
		c.smoother.Suppress()
		c.rememberWrist(primary)
		return c.resolve(ModeLocked)
	}

	// Rule 5: drag control. Horizontal wrist motion beyond the deadzone
	// becomes a super-linear rotation impulse; vertical motion accumulates
	// into the zoom level. Raising the hand zooms in.
	var dx, dy float64
	if c.haveWrist {
		dx, dy = WristDelta(c.prevWrist, primary.WristPoint())
	}

	if math.Abs(dx) > c.cfg.RotationDeadzone {
		impulse := math.Copysign(math.Pow(math.Abs(dx), 1.2), dx) * c.cfg.RotationSensitivity
		c.smoother.Blend(impulse)
	} else {
		c.smoother.Decay()
	}

	if math.Abs(dy) > c.cfg.ZoomDeadzone {
		c.smoother.AccumulateZoom(-dy * c.cfg.ZoomSensitivity)
	}

	c.rememberWrist(primary)
	return c.resolve(ModeControl)
}

// signalLost handles the zero-hand frame. Rotation decays instead of
// snapping to zero so single-frame detection flicker stays invisible; zoom
// holds its level. Everything history-shaped is cleared because it is only
// meaningful across contiguous detections.
func (c *Controller) signalLost() Action {
	c.smoother.Decay()
	c.pinched = false
	c.locked = false
	c.haveRelease = false
	c.haveWrist = false
	c.distances.clear()
	return c.resolve(ModeNoHand)
}

func (c *Controller) rememberWrist(h detector.HandLandmarks) {
	c.prevWrist = h.WristPoint()
	c.haveWrist = true
}

func (c *Controller) resolve(mode Mode) Action {
	return Action{
		Mode:             mode,
		RotationVelocity: c.smoother.Rotation(),
		ZoomLevel:        c.smoother.Zoom(),
		FocusLocked:      c.locked,
	}
}
