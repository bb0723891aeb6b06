// Package driver implements the per-turn state machine that couples
// subprocess I/O, the terminal emulator, and the AI reactor (spec §4.6).
package driver

import (
	"time"

	"github.com/cliofy/govte"
	"github.com/rs/zerolog"

	"github.com/kngwyu/curses-game-wrapper/ai"
	"github.com/kngwyu/curses-game-wrapper/config"
	"github.com/kngwyu/curses-game-wrapper/emulator"
	"github.com/kngwyu/curses-game-wrapper/proc"
	"github.com/kngwyu/curses-game-wrapper/viewer"
)

// child is the subset of *proc.Handler the driver needs, narrowed to an
// interface so tests can exercise the turn loop against a fake reader
// without spawning a real process.
type child interface {
	Events() <-chan proc.Event
	Write([]byte) error
	Kill()
}

// Driver owns the emulator and drives the turn loop on the caller's
// goroutine. The reader goroutine (owned by proc.Handler) and the viewer's
// goroutine (owned by viewer.Viewer) run independently; Driver is the only
// thing that ever touches the emulator.
type Driver struct {
	proc    child
	view    viewer.Viewer
	emu     *emulator.Emulator
	parser  *govte.Parser
	reactor ai.Reactor
	timeout time.Duration
	maxLoop int
	log     zerolog.Logger
}

// New spawns the child described by cfg and wires it to a fresh emulator,
// viewer, and parser. The returned Driver's Play method owns the child's
// entire lifetime.
func New(cfg *config.Config, reactor ai.Reactor) (*Driver, error) {
	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	envs := make([]proc.EnvVar, len(cfg.Envs))
	for i, e := range cfg.Envs {
		envs[i] = proc.EnvVar{Name: e.Name, Value: e.Value}
	}

	p, err := proc.Spawn(proc.Settings{
		Cmdname: cfg.Cmdname,
		Args:    cfg.Args,
		Envs:    envs,
		Lines:   cfg.Lines,
		Columns: cfg.Columns,
		Log:     log,
	})
	if err != nil {
		return nil, err
	}

	var v viewer.Viewer
	if cfg.Draw.Type == config.DrawTerminal {
		v = viewer.NewTerminalViewer(cfg.Draw.Interval, log)
	} else {
		v = viewer.EmptyViewer{}
	}

	return &Driver{
		proc:    p,
		view:    v,
		emu:     emulator.New(cfg.Columns, cfg.Lines, log),
		parser:  govte.NewParser(),
		reactor: reactor,
		timeout: cfg.Timeout,
		maxLoop: cfg.MaxLoop,
		log:     log,
	}, nil
}

// Play runs the turn loop to completion: on game exit, on reaching
// max_loop, or on forced kill after a fatal reader condition. It always
// returns with the child guaranteed dead.
func (d *Driver) Play() {
	viewerDone := d.view.Run()

	procDead := false
	var storedMap [][]byte
	turn := 0

loop:
	for ; turn < d.maxLoop; turn++ {
		if procDead {
			break
		}

		var evt ai.ActionResult
		select {
		case raw, ok := <-d.proc.Events():
			if !ok {
				d.log.Error().Msg("reader channel disconnected")
				break loop
			}
			switch e := raw.(type) {
			case proc.EventValid:
				d.view.Send(e)
				d.parser.Advance(d.emu, e.Bytes)
				storedMap = d.emu.Grid().Snapshot()
				d.log.Trace().Int("turn", turn).Msg("changed")
				continue
			case proc.EventZero:
				// A pending storedMap is intentionally not flushed as a
				// Changed call here; GameEnded is reported unconditionally
				// (DESIGN.md Open Question decision #4).
				d.view.Send(e)
				procDead = true
				evt = ai.GameEnded{}
			case proc.EventPanicked:
				d.view.Send(e)
				d.log.Error().Err(e.Err).Msg("reader panicked")
				break loop
			}
		case <-time.After(d.timeout):
			if storedMap != nil {
				evt = ai.Changed{Grid: storedMap}
				storedMap = nil
			} else {
				evt = ai.NotChanged{}
			}
		}

		if input := d.reactor.Action(evt, turn); input != nil {
			if err := d.proc.Write(input); err != nil {
				d.log.Warn().Err(err).Msg("write to child failed")
			}
		}
	}

	if !procDead {
		d.proc.Kill()
		d.view.Stop()
		d.reactor.Action(ai.GameEnded{}, d.maxLoop)
	}
	<-viewerDone
}
