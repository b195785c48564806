// Package main provides the recorder sink: it appends the raw action
// event stream to actions.ndjson for later replay.
package main

import (
	"bufio"
	"log"
	"os"
)

func main() {
	out, err := os.OpenFile("actions.ndjson", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("failed to open recording file: %v", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	defer w.Flush()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		w.Write(scanner.Bytes())
		w.WriteByte('\n')
		// Flush per event so a crash loses at most one line.
		if err := w.Flush(); err != nil {
			log.Fatalf("failed to write recording: %v", err)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("stream error: %v", err)
	}
}
