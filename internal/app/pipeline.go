package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/sink"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the frame loop. The motion gate decides whether the
// landmark detector runs at all: while the scene is still, frames are
// processed as no-signal so the controller's rotation decays instead of
// freezing at its last value.
//
// Loop per tick:
//  1. Read a frame, run motion differencing.
//  2. Motion switches capture to the active rate; two seconds of
//     stillness drops back to idle.
//  3. Active frames go through landmark detection; idle frames are
//     classified as no-hand.
//  4. The resulting action fans out to subscribers, and mode
//     transitions go to sinks and the session log.
func (a *App) runPipeline() {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			det := detector.NoHands()
			if activeMode {
				d := a.Detector()
				if d != nil {
					hands, err := d.Detect(frame)
					if err != nil {
						log.Printf("Error detecting hands: %v", err)
					} else {
						det = detector.FromHands(hands)
					}
				}
			}
			frame.Close()

			action := a.controller.ProcessFrame(det, time.Now())
			a.emit(action)
		}
	}
}

// emit fans one frame's action out to subscribers, and pushes mode
// transitions to sinks and the session log.
func (a *App) emit(action gesture.Action) {
	a.mu.Lock()
	a.frames++
	transition := action.Mode != a.lastMode
	a.lastMode = action.Mode
	callbacks := a.onAction
	sessionID := a.sessionID
	a.mu.Unlock()

	for _, fn := range callbacks {
		fn(action)
	}

	if !transition {
		return
	}

	a.forwarder.Send(sink.Event{At: time.Now(), Action: action})

	if sessionID != "" && a.config.Store != nil {
		err := a.config.Store.Sessions().RecordEvent(&store.ModeEvent{
			SessionID:        sessionID,
			Mode:             string(action.Mode),
			RotationVelocity: action.RotationVelocity,
			ZoomLevel:        action.ZoomLevel,
			FocusLocked:      action.FocusLocked,
		})
		if err != nil {
			log.Printf("Failed to record mode event: %v", err)
		}
	}
}
