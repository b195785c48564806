package detector

// DetectionResult is the zero/one/two-hand payload for one frame. It is the
// sole input unit to the gesture controller. Construct it with NoHands,
// OneHand, TwoHands, or FromHands; the constructors cap the payload at two
// hands so two-hand-only rules are scoped by construction rather than by
// length checks scattered through the classifier.
type DetectionResult struct {
	hands [2]HandLandmarks
	count int
}

// NoHands returns an empty detection (signal loss or no hands in frame).
func NoHands() DetectionResult {
	return DetectionResult{}
}

// OneHand returns a detection holding a single hand.
func OneHand(h HandLandmarks) DetectionResult {
	return DetectionResult{hands: [2]HandLandmarks{h}, count: 1}
}

// TwoHands returns a detection holding both hands. The first argument is the
// primary hand, used for pinch and drag evaluation.
func TwoHands(primary, secondary HandLandmarks) DetectionResult {
	return DetectionResult{hands: [2]HandLandmarks{primary, secondary}, count: 2}
}

// FromHands builds a DetectionResult from a detector output slice. Hands
// beyond the second are discarded; detection order decides which hand is
// primary.
func FromHands(hands []HandLandmarks) DetectionResult {
	switch len(hands) {
	case 0:
		return NoHands()
	case 1:
		return OneHand(hands[0])
	default:
		return TwoHands(hands[0], hands[1])
	}
}

// Count returns the number of hands in the detection (0, 1, or 2).
func (d DetectionResult) Count() int {
	return d.count
}

// Primary returns the primary hand. Calling it on an empty detection is a
// programming error; callers must check Count first.
func (d DetectionResult) Primary() HandLandmarks {
	if d.count == 0 {
		panic("detector: Primary called on empty DetectionResult")
	}
	return d.hands[0]
}

// Secondary returns the second hand of a two-hand detection.
func (d DetectionResult) Secondary() HandLandmarks {
	if d.count < 2 {
		panic("detector: Secondary called on DetectionResult without two hands")
	}
	return d.hands[1]
}

// Hands returns the detected hands as a slice of length Count.
func (d DetectionResult) Hands() []HandLandmarks {
	return d.hands[:d.count]
}
