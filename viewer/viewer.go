// Package viewer mirrors the raw byte stream the driver reads from the
// child process to the host's own terminal, independently of the emulator
// (spec §4.5).
package viewer

import (
	"bufio"
	"os"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/kngwyu/curses-game-wrapper/proc"
)

// Viewer observes the raw proc.Event stream in parallel with the driver.
// Send must never block the driver for long; implementations that need to
// throttle do so on their own goroutine via Run.
type Viewer interface {
	// Run starts the viewer's background work (if any) and returns a done
	// channel that closes when that work ends: after an EventZero or
	// EventPanicked, or once Stop is called. Events still queued when Stop
	// is called are not guaranteed to be processed.
	Run() (done <-chan struct{})
	// Send forwards one event to the viewer.
	Send(evt proc.Event)
	// Stop signals the viewer that no further events will be sent.
	Stop()
}

// EmptyViewer discards every event. It is the default (GameShowType::None
// in the original Rust source).
type EmptyViewer struct{}

func (EmptyViewer) Run() (done <-chan struct{}) {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (EmptyViewer) Send(proc.Event) {}
func (EmptyViewer) Stop()           {}

// TerminalViewer forwards EventValid payloads to stdout, best-effort
// UTF-8-validated, flushing and sleeping drawInterval between frames.
// Grounded on the Rust GameShowType::RealTime variant.
type TerminalViewer struct {
	drawInterval time.Duration
	log          zerolog.Logger

	events chan proc.Event
	stop   chan struct{}
}

// eventQueueCap bounds the driver->viewer channel. Spec §4.5's viewer
// observes the same unbounded, back-pressure-free stream §4.4 describes for
// the reader->driver channel; this is a generous finite approximation, not a
// deliberate throttle.
const eventQueueCap = 4096

// NewTerminalViewer creates a viewer that redraws at most once per
// drawInterval.
func NewTerminalViewer(drawInterval time.Duration, log zerolog.Logger) *TerminalViewer {
	return &TerminalViewer{
		drawInterval: drawInterval,
		log:          log,
		events:       make(chan proc.Event, eventQueueCap),
		stop:         make(chan struct{}),
	}
}

func (v *TerminalViewer) Send(evt proc.Event) {
	select {
	case v.events <- evt:
	case <-v.stop:
	}
}

func (v *TerminalViewer) Stop() {
	close(v.stop)
}

// Run starts the viewer's draw loop. It forwards EventValid bytes to
// stdout, terminates cleanly on EventZero, and aborts on EventPanicked.
func (v *TerminalViewer) Run() (done <-chan struct{}) {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		w := bufio.NewWriter(os.Stdout)
		for {
			select {
			case evt := <-v.events:
				switch e := evt.(type) {
				case proc.EventValid:
					writeUTF8BestEffort(w, e.Bytes)
					w.Flush()
					time.Sleep(v.drawInterval)
				case proc.EventZero:
					v.log.Debug().Msg("viewer: stream ended")
					return
				case proc.EventPanicked:
					v.log.Debug().Err(e.Err).Msg("viewer: aborting on reader panic")
					return
				}
			case <-v.stop:
				return
			}
		}
	}()
	return finished
}

// writeUTF8BestEffort writes b to w, replacing invalid UTF-8 sequences with
// utf8.RuneError's encoding rather than failing the whole frame.
func writeUTF8BestEffort(w *bufio.Writer, b []byte) {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			w.WriteRune(utf8.RuneError)
			b = b[1:]
			continue
		}
		w.Write(b[:size])
		b = b[size:]
	}
}
