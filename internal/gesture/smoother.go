package gesture

// rotationEpsilon is the magnitude below which decayed rotation snaps to
// exactly zero, so signal loss settles in a bounded number of frames instead
// of chasing denormals forever.
const rotationEpsilon = 1e-6

// Smoother owns the numeric policy for the two continuous control channels,
// so clamping and decay behave identically no matter which classifier branch
// produced the raw input.
//
// Rotation is a velocity: it decays multiplicatively toward zero once per
// frame. When a drag impulse arrives the decay is folded into the EMA blend
// (v = v*decay + impulse*(1-decay)), which is what makes rotation feel
// weighted rather than instantaneous, and keeps sustained dragging bounded.
//
// Zoom is a level, not a velocity: it accumulates monotonically from deltas
// and is hard-clamped to [0,1], with no decay.
type Smoother struct {
	decay    float64
	idleSpin float64

	rotation float64
	zoom     float64
}

// NewSmoother returns a Smoother with the given per-frame rotation decay
// factor and formed-state idle spin.
func NewSmoother(decay, idleSpin float64) Smoother {
	return Smoother{decay: decay, idleSpin: idleSpin}
}

// SetPolicy replaces the decay factor and idle spin, keeping the current
// rotation and zoom values.
func (s *Smoother) SetPolicy(decay, idleSpin float64) {
	s.decay = decay
	s.idleSpin = idleSpin
}

// Decay applies the per-frame multiplicative decay to rotation velocity.
func (s *Smoother) Decay() {
	s.rotation *= s.decay
	if s.rotation < rotationEpsilon && s.rotation > -rotationEpsilon {
		s.rotation = 0
	}
}

// Blend folds a drag impulse into the rotation velocity. The EMA step is
// also this frame's decay; callers must not call Decay in the same frame.
func (s *Smoother) Blend(impulse float64) {
	s.rotation = s.rotation*s.decay + impulse*(1-s.decay)
}

// Suppress forces rotation velocity to exactly zero. Used while focus lock
// is held.
func (s *Smoother) Suppress() {
	s.rotation = 0
}

// IdleNudge eases rotation toward the idle spin value when the current
// velocity is smaller in magnitude, giving a formed scene a faint sense of
// life while the hand is still.
func (s *Smoother) IdleNudge() {
	if s.idleSpin == 0 {
		return
	}
	if s.rotation < s.idleSpin && s.rotation > -s.idleSpin {
		s.rotation += (s.idleSpin - s.rotation) * 0.1
	}
}

// AccumulateZoom adds a delta to the zoom level and clamps to [0,1].
func (s *Smoother) AccumulateZoom(delta float64) {
	s.zoom += delta
	if s.zoom < 0 {
		s.zoom = 0
	} else if s.zoom > 1 {
		s.zoom = 1
	}
}

// Rotation returns the current smoothed rotation velocity.
func (s *Smoother) Rotation() float64 {
	return s.rotation
}

// Zoom returns the current zoom level in [0,1].
func (s *Smoother) Zoom() float64 {
	return s.zoom
}
