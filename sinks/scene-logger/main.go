// Package main provides the scene-logger sink: it reads the action event
// stream from stdin and prints a human-readable line per mode transition.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

// Event mirrors one line of the sink stream.
type Event struct {
	At     time.Time `json:"at"`
	Action struct {
		Mode             string  `json:"mode"`
		RotationVelocity float64 `json:"rotation_velocity"`
		ZoomLevel        float64 `json:"zoom_level"`
		FocusLocked      bool    `json:"focus_locked"`
	} `json:"action"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			log.Printf("skipping malformed event: %v", err)
			continue
		}

		lock := ""
		if e.Action.FocusLocked {
			lock = " [locked]"
		}
		fmt.Printf("%s mode=%s rotation=%.4f zoom=%.2f%s\n",
			e.At.Format(time.RFC3339), e.Action.Mode,
			e.Action.RotationVelocity, e.Action.ZoomLevel, lock)
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("stream error: %v", err)
	}
}
