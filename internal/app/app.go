// Package app wires the capture, detection and gesture layers into the
// tracking pipeline that drives the scene.
package app

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/sink"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while the scene is still.
	IdleFPS = 5
	// ActiveFPS is the frame rate while motion keeps tracking hot.
	ActiveFPS = 15
	// IdleTimeoutMs is how long after the last motion the pipeline drops
	// back to the idle rate.
	IdleTimeoutMs = 2000
)

// ActionFunc receives the action produced for one frame.
type ActionFunc func(gesture.Action)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	SinkDir      string
	CameraID     int
	MotionThresh float64
}

// App orchestrates the tracking pipeline: camera frames pass a motion
// gate, landmark detection and the gesture controller, and the resulting
// actions fan out to sinks, subscribers and the session log.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	controller *gesture.Controller
	sinkMgr    *sink.Manager
	forwarder  *sink.Forwarder

	enabled   bool
	mu        sync.RWMutex
	stopCh    chan struct{}
	onAction  []ActionFunc
	sessionID string
	frames    int64
	lastMode  gesture.Mode
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionCfg := capture.DefaultMotionConfig()
	if config.MotionThresh > 0 {
		motionCfg.Threshold = config.MotionThresh
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(motionCfg),
		controller: gesture.NewController(gesture.DefaultConfig()),
		sinkMgr:    sink.NewManager(config.SinkDir),
		forwarder:  sink.NewForwarder(),
		lastMode:   gesture.ModeNoHand,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables hand tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether hand tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// OnAction registers a callback invoked with the action of every frame.
// Callbacks must be registered before Start and must not block.
func (a *App) OnAction(fn ActionFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onAction = append(a.onAction, fn)
}

// LoadCalibration applies the active calibration profile from the
// database to the controller. Without an active profile the controller
// keeps its defaults.
func (a *App) LoadCalibration() error {
	if a.config.Store == nil {
		return nil
	}

	cal, err := a.config.Store.Calibrations().GetActive()
	if err != nil {
		if err == store.ErrNotFound {
			log.Println("No active calibration, using defaults")
			return nil
		}
		return err
	}

	a.controller.SetConfig(cal.Config)
	log.Printf("Loaded calibration %q", cal.Name)
	return nil
}

// SetCalibration applies tuning constants to the controller without
// touching gesture history.
func (a *App) SetCalibration(cfg gesture.Config) {
	a.controller.SetConfig(cfg)
}

// DiscoverSinks scans the sink directory and launches the discovered
// sink processes.
func (a *App) DiscoverSinks() error {
	if err := a.sinkMgr.Discover(); err != nil {
		return err
	}
	a.forwarder.StartAll(a.sinkMgr.List())
	return nil
}

// Start begins the tracking pipeline and opens a session in the store.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.frames = 0
	a.lastMode = gesture.ModeNoHand
	if a.config.Store != nil {
		a.sessionID = uuid.NewString()
		if err := a.config.Store.Sessions().Begin(&store.Session{ID: a.sessionID}); err != nil {
			log.Printf("Failed to open session: %v", err)
			a.sessionID = ""
		}
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the tracking pipeline, closes the session and releases
// resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.forwarder.Stop()

	if a.sessionID != "" && a.config.Store != nil {
		if err := a.config.Store.Sessions().End(a.sessionID, a.frames); err != nil {
			log.Printf("Failed to close session: %v", err)
		}
		a.sessionID = ""
	}

	log.Println("Tracking pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Controller returns the gesture controller.
func (a *App) Controller() *gesture.Controller {
	return a.controller
}

// SinkManager returns the sink manager.
func (a *App) SinkManager() *sink.Manager {
	return a.sinkMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
