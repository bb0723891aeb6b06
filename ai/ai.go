// Package ai defines the contract the driver invokes once per turn, and an
// example reactor (spec §4.7).
package ai

// ActionResult is the sum type the driver hands the reactor each turn:
// exactly one of Changed, NotChanged, or GameEnded.
type ActionResult interface {
	isActionResult()
}

// Changed carries the grid snapshot for a turn in which new bytes were
// coalesced into a redraw. Rows run top to bottom; each row is W ASCII
// bytes.
type Changed struct {
	Grid [][]byte
}

// NotChanged reports that the quiescent window elapsed with no new grid
// state to report, and there was no pending coalesced redraw either.
type NotChanged struct{}

// GameEnded reports that the child process has exited (or was forcibly
// killed at loop end).
type GameEnded struct{}

func (Changed) isActionResult()    {}
func (NotChanged) isActionResult() {}
func (GameEnded) isActionResult()  {}

// Reactor is the AI contract: given this turn's result and the turn index,
// optionally return input bytes to write to the child's stdin. A nil
// return means "no input this tick". Implementations must not retain
// Changed.Grid across calls — the driver may reuse or discard it.
type Reactor interface {
	Action(evt ActionResult, turn int) []byte
}

// ScriptedReactor walks hjkl in a fixed cycle, then at the very end sends
// a scripted quit sequence over its last three turns. Grounded on the
// EmptyAI example in original_source/examples/rogue.rs.
type ScriptedReactor struct {
	// LoopNum is the total number of turns this reactor expects to run
	// for; it shapes only the final three turns' scripted quit sequence.
	LoopNum int
}

// Action implements Reactor.
func (r *ScriptedReactor) Action(_ ActionResult, turn int) []byte {
	switch turn {
	case r.LoopNum - 1:
		return []byte{'\r'}
	case r.LoopNum - 2:
		return []byte{'y'}
	case r.LoopNum - 3:
		return []byte{'Q'}
	default:
		moves := []byte{'h', 'j', 'k', 'l'}
		return []byte{moves[turn%len(moves)]}
	}
}
