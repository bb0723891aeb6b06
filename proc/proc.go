package proc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"

	"github.com/creack/pty"
	"github.com/rs/zerolog"
)

// BufSize is the reader's chunk size (spec §4.4's BUF=4096). A read that
// fills the buffer exactly is treated as a chunk-boundary hazard rather than
// a normal read, since the parser must never be fed a truncated boundary
// that hides subsequent bytes.
const BufSize = 4096

// eventQueueCap bounds the reader->driver channel. Spec §4.4 describes this
// channel as unbounded with no back-pressure; Go channels have no unbounded
// variant, so this is a generous finite approximation (at BufSize bytes per
// EventValid, enough to absorb minutes of unread output at typical turn
// cadence) rather than a deliberate flow-control limit.
const eventQueueCap = 4096

// EnvVar is a single child-environment assignment.
type EnvVar struct {
	Name, Value string
}

// Settings configures Spawn.
type Settings struct {
	Cmdname string
	Args    []string
	Envs    []EnvVar
	Lines   int
	Columns int
	Log     zerolog.Logger
}

// Handler owns a spawned child attached to a pty, and the reader goroutine
// that streams its output onto Events(). Grounded on the Rust ProcHandler
// (original_source/src/lib.rs), upgraded from bare pipes to a pty so curses
// programs that probe window size behave correctly.
type Handler struct {
	cmd    *exec.Cmd
	pty    *os.File
	events chan Event
	killed atomic.Bool
	log    zerolog.Logger
}

// Spawn launches the child with argv = [cmdname] + args, environment
// extended with LINES/COLUMNS/TERM=vt100 then the user-supplied variables
// (which may override TERM), stdin/stdout/stderr all attached to one pty
// sized to lines x columns. The reader goroutine starts immediately.
func Spawn(s Settings) (*Handler, error) {
	cmd := exec.Command(s.Cmdname, s.Args...)

	env := os.Environ()
	env = append(env,
		fmt.Sprintf("LINES=%d", s.Lines),
		fmt.Sprintf("COLUMNS=%d", s.Columns),
		"TERM=vt100",
	)
	for _, e := range s.Envs {
		env = append(env, fmt.Sprintf("%s=%s", e.Name, e.Value))
	}
	cmd.Env = env

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(s.Lines),
		Cols: uint16(s.Columns),
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't spawn %s: %w", s.Cmdname, err)
	}

	h := &Handler{
		cmd:    cmd,
		pty:    ptmx,
		events: make(chan Event, eventQueueCap),
		log:    s.Log,
	}
	go h.run()
	return h, nil
}

// Events returns the channel the reader goroutine publishes on.
func (h *Handler) Events() <-chan Event { return h.events }

func (h *Handler) run() {
	buf := make([]byte, BufSize)
	for {
		n, err := h.pty.Read(buf)
		if err != nil {
			// A Linux pty master reports EIO, not EOF, once the child has
			// exited and closed its side.
			if errors.Is(err, io.EOF) || errors.Is(err, syscall.EIO) {
				h.events <- EventZero{}
				return
			}
			if h.killed.Load() {
				// the pty was closed out from under us by Kill; this is an
				// expected shutdown, not a reader panic.
				return
			}
			h.events <- EventPanicked{Err: err}
			return
		}
		switch {
		case n == 0:
			h.events <- EventZero{}
			return
		case n == BufSize:
			h.events <- EventPanicked{Err: fmt.Errorf("proc: read filled the %d-byte buffer", BufSize)}
			return
		default:
			out := make([]byte, n)
			copy(out, buf[:n])
			h.events <- EventValid{Bytes: out}
		}
	}
}

// Write sends AI input directly to the child's stdin (the pty's master
// side), flushed at OS buffering.
func (h *Handler) Write(b []byte) error {
	_, err := h.pty.Write(b)
	return err
}

// Kill sends SIGKILL to the child and sets the killed flag, tolerating an
// already-dead process. Safe to call more than once; only the first call
// has effect.
func (h *Handler) Kill() {
	if !h.killed.CompareAndSwap(false, true) {
		return
	}
	if h.cmd.Process != nil {
		if err := h.cmd.Process.Signal(syscall.SIGKILL); err != nil {
			h.log.Debug().Err(err).Msg("SIGKILL failed, process likely already dead")
		}
	}
	h.pty.Close()
	h.cmd.Wait()
}
