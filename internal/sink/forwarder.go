package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
)

// Forwarder runs sink processes and streams events to their stdin.
// A sink whose pipe breaks is dropped from the stream; the remaining
// sinks keep receiving events.
type Forwarder struct {
	mu    sync.Mutex
	procs map[string]*sinkProc
}

type sinkProc struct {
	sink  *Sink
	cmd   *exec.Cmd
	stdin io.WriteCloser
	enc   *json.Encoder
}

// NewForwarder creates an empty Forwarder. Call Start for each sink
// that should receive the stream.
func NewForwarder() *Forwarder {
	return &Forwarder{
		procs: make(map[string]*sinkProc),
	}
}

// Start launches the sink executable with its stdin connected to the
// event stream. Starting an already-running sink is a no-op.
func (f *Forwarder) Start(s *Sink) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.procs[s.Manifest.Name]; ok {
		return nil
	}

	cmd := exec.Command(s.Executable)
	cmd.Dir = s.Path

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdin pipe for sink %s: %w", s.Manifest.Name, err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("failed to start sink %s: %w", s.Manifest.Name, err)
	}

	f.procs[s.Manifest.Name] = &sinkProc{
		sink:  s,
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
	}

	// Reap the process when it exits on its own.
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("Sink %s exited: %v", s.Manifest.Name, err)
		}
		f.remove(s.Manifest.Name)
	}()

	return nil
}

// StartAll launches every given sink, logging and skipping failures.
func (f *Forwarder) StartAll(sinks []*Sink) {
	for _, s := range sinks {
		if err := f.Start(s); err != nil {
			log.Printf("Skipping sink: %v", err)
		}
	}
}

// Send writes the event as one JSON line to every running sink whose
// mode filter accepts it.
func (f *Forwarder) Send(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for name, p := range f.procs {
		if !p.sink.Wants(e.Action.Mode) {
			continue
		}
		if err := p.enc.Encode(e); err != nil {
			log.Printf("Dropping sink %s after write error: %v", name, err)
			p.stdin.Close()
			delete(f.procs, name)
		}
	}
}

// Running returns the names of the sinks currently receiving the stream.
func (f *Forwarder) Running() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.procs))
	for name := range f.procs {
		names = append(names, name)
	}
	return names
}

// Stop closes every sink's stdin, which signals end of stream, and
// waits are handled by the per-process reaper goroutines.
func (f *Forwarder) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for name, p := range f.procs {
		p.stdin.Close()
		delete(f.procs, name)
	}
}

func (f *Forwarder) remove(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.procs[name]; ok {
		p.stdin.Close()
		delete(f.procs, name)
	}
}
