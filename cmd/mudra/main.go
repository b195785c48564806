package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "HTTP listen address")
		cameraID = flag.Int("camera", 0, "camera device ID")
		noTray   = flag.Bool("no-tray", false, "run without the system tray")
	)
	flag.Parse()

	fmt.Println("Mudra - Bare-Hand Scene Control")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// An explicit -camera flag wins; otherwise reuse the last device.
	cameraSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "camera" {
			cameraSet = true
		}
	})
	if !cameraSet {
		if v, err := st.Settings().Get("camera_id"); err == nil {
			if id, err := strconv.Atoi(v); err == nil {
				*cameraID = id
			}
		}
	}
	if err := st.Settings().Set("camera_id", strconv.Itoa(*cameraID)); err != nil {
		log.Printf("Failed to save camera setting: %v", err)
	}

	a := app.New(app.Config{
		Store:    st,
		SinkDir:  filepath.Join(dataDir, "sinks"),
		CameraID: *cameraID,
	})

	if err := a.LoadCalibration(); err != nil {
		log.Printf("Failed to load calibration: %v", err)
	}
	if err := a.DiscoverSinks(); err != nil {
		log.Printf("Failed to discover sinks: %v", err)
	}

	hub := server.NewActionHub()
	a.OnAction(hub.Publish)

	webDir := findWebDir(homeDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		Applier:   a,
		Hub:       hub,
	})

	var t *tray.Tray
	if !*noTray {
		t = tray.New()
		t.OnToggle(a.SetEnabled)
		t.OnSettings(func() { openBrowser("http://localhost" + *addr) })
		t.OnQuit(a.Stop)
		a.OnAction(func(action gesture.Action) {
			t.SetStatus(action.Mode, action.FocusLocked)
		})
	}

	a.SetEnabled(true)
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		select {}
	}

	// systray.Run must own the main thread.
	t.Run()
}

// findWebDir searches for the web directory in common locations.
func findWebDir(homeDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL with the platform's default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
