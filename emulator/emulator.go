// Package emulator implements the VT100-compatible terminal emulator core:
// a govte.Performer that mutates a Grid and Mode set in response to the
// parser's print/execute/CSI/ESC/OSC/DCS callbacks.
package emulator

import (
	"github.com/cliofy/govte"
	"github.com/rs/zerolog"
)

// Emulator implements govte.Performer against a Grid, maintaining the
// terminal modes described in spec §3/§4.2. It owns no I/O: the driver
// feeds it bytes through a govte.Parser and reads its Grid back out.
type Emulator struct {
	grid   *Grid
	mode   Mode
	log    zerolog.Logger
}

// New creates an Emulator over a width x height Grid with the default mode
// set (ShowCursor | LineWrap).
func New(width, height int, log zerolog.Logger) *Emulator {
	return &Emulator{
		grid: NewGrid(width, height),
		mode: DefaultModes,
		log:  log,
	}
}

// Grid returns the emulator's screen grid.
func (e *Emulator) Grid() *Grid { return e.grid }

// Mode returns the emulator's current mode set.
func (e *Emulator) Mode() Mode { return e.mode }

var _ govte.Performer = (*Emulator)(nil)

// Print draws a printable character. Non-ASCII runes are logged and stored
// as their truncated low byte (spec §4.3).
func (e *Emulator) Print(c rune) {
	if c > 0x7F {
		e.log.Warn().Int32("rune", int32(c)).Msg("non-ASCII input stored as low byte")
	}
	e.grid.Put(e.mode, byte(c))
}

// C0/C1 control codes recognised by Execute (spec §4.3). HT is not handled
// and is logged like any other unhandled byte.
const (
	ctrlBS  = 0x08
	ctrlHT  = 0x09
	ctrlLF  = 0x0A
	ctrlVT  = 0x0B
	ctrlFF  = 0x0C
	ctrlCR  = 0x0D
	ctrlNEL = 0x85
)

// Execute handles a C0/C1 control function.
func (e *Emulator) Execute(b byte) {
	switch b {
	case ctrlBS:
		e.grid.Backspace()
	case ctrlCR:
		e.grid.CarriageReturn()
	case ctrlLF, ctrlVT, ctrlFF:
		e.grid.LineFeed()
	case ctrlNEL:
		e.grid.NewLine(e.mode)
	default:
		e.log.Warn().Hex("byte", []byte{b}).Msg("unhandled execute byte")
	}
}

// arg returns the main value of the group-th parameter group, or def if
// absent or zero (CSI arguments default to 1 unless the final says otherwise;
// callers that need a true zero-default use argZeroDefault instead).
func arg(groups [][]uint16, group int, def uint16) uint16 {
	if group >= len(groups) || len(groups[group]) == 0 {
		return def
	}
	v := groups[group][0]
	if v == 0 {
		return def
	}
	return v
}

// argZeroDefault is like arg but treats an explicit 0 as significant
// (used for CSI J/K mode arguments, whose default is 0, not 1).
func argZeroDefault(groups [][]uint16, group int, def uint16) uint16 {
	if group >= len(groups) || len(groups[group]) == 0 {
		return def
	}
	return groups[group][0]
}

// clampUp bounds a relative up-movement to the rows actually available above
// the cursor, so a game's "cursor up" request near the top of the screen
// stops at row 0 instead of underflowing Grid's fatal assertion.
func (e *Emulator) clampUp(n int) int {
	_, y := e.grid.Cursor()
	if n > y {
		return y
	}
	return n
}

// clampDown bounds a relative down-movement to the rows actually available
// below the cursor, so a request past the last row stops there instead of
// overflowing Grid's fatal assertion.
func (e *Emulator) clampDown(n int) int {
	_, y := e.grid.Cursor()
	if max := e.grid.Height() - 1 - y; n > max {
		return max
	}
	return n
}

// clampLeft bounds a relative left-movement to the columns actually
// available to the left of the cursor.
func (e *Emulator) clampLeft(n int) int {
	x, _ := e.grid.Cursor()
	if n > x {
		return x
	}
	return n
}

// clampRow bounds an absolute row to [0, height).
func (e *Emulator) clampRow(y int) int {
	switch {
	case y < 0:
		return 0
	case y >= e.grid.Height():
		return e.grid.Height() - 1
	default:
		return y
	}
}

// clampCol bounds an absolute column to [0, width).
func (e *Emulator) clampCol(x int) int {
	switch {
	case x < 0:
		return 0
	case x >= e.grid.Width():
		return e.grid.Width() - 1
	default:
		return x
	}
}

// CsiDispatch handles a CSI final byte with its parameters and intermediates
// (spec §4.3's CSI table). Unknown finals are logged and ignored.
func (e *Emulator) CsiDispatch(params *govte.Params, intermediates []byte, ignore bool, action rune) {
	if ignore {
		return
	}
	groups := params.Iter()
	private := len(intermediates) > 0 && intermediates[0] == '?'

	e.log.Trace().Bool("private", private).Str("action", string(action)).Msg("CSI")

	switch action {
	case '@':
		e.grid.InsertBlankChars(int(arg(groups, 0, 1)))
	case 'A':
		e.grid.SubY(e.clampUp(int(arg(groups, 0, 1))))
	case 'B', 'e':
		e.grid.AddY(e.clampDown(int(arg(groups, 0, 1))))
	case 'C', 'a':
		e.grid.AddX(int(arg(groups, 0, 1)))
	case 'D':
		e.grid.SubX(e.clampLeft(int(arg(groups, 0, 1))))
	case 'E':
		e.grid.AddY(e.clampDown(int(arg(groups, 0, 1))))
		e.grid.CarriageReturn()
	case 'F':
		e.grid.SubY(e.clampUp(int(arg(groups, 0, 1))))
		e.grid.CarriageReturn()
	case 'G', '`':
		e.grid.GotoX(e.clampCol(int(arg(groups, 0, 1)) - 1))
	case 'H', 'f':
		row := arg(groups, 0, 1)
		col := arg(groups, 1, 1)
		e.grid.Goto(e.clampCol(int(col)-1), e.clampRow(int(row)-1))
	case 'J':
		mode, ok := csiClearMode(argZeroDefault(groups, 0, 0))
		if !ok {
			e.log.Warn().Msg("unhandled CSI J mode")
			return
		}
		e.grid.ClearScreen(mode)
	case 'K':
		mode, ok := csiLineClearMode(argZeroDefault(groups, 0, 0))
		if !ok {
			e.log.Warn().Msg("unhandled CSI K mode")
			return
		}
		e.grid.ClearLine(mode)
	case 'L':
		e.grid.InsertBlankLines(int(arg(groups, 0, 1)))
	case 'M':
		e.grid.DeleteLines(int(arg(groups, 0, 1)))
	case 'P':
		e.grid.DeleteChars(int(arg(groups, 0, 1)))
	case 'S':
		e.grid.ScrollUp(int(arg(groups, 0, 1)))
	case 'T':
		e.grid.ScrollDown(int(arg(groups, 0, 1)))
	case 'X':
		e.grid.EraseChars(int(arg(groups, 0, 1)))
	case 'b':
		c, ok := e.grid.Preceding()
		if !ok {
			e.log.Warn().Msg("CSI b with no preceding character")
			return
		}
		for i := 0; i < int(arg(groups, 0, 1)); i++ {
			e.grid.Put(e.mode, c)
		}
	case 'd':
		e.grid.GotoY(e.clampRow(int(arg(groups, 0, 1)) - 1))
	case 'h':
		e.applyModeChange(private, argZeroDefault(groups, 0, 0), true)
	case 'l':
		e.applyModeChange(private, argZeroDefault(groups, 0, 0), false)
	case 'r':
		top := arg(groups, 0, 1)
		bottom := argZeroDefault(groups, 1, uint16(e.grid.Height()))
		if bottom == 0 {
			bottom = uint16(e.grid.Height())
		}
		e.grid.SetScrollRegion(int(top)-1, int(bottom))
	case 's':
		e.grid.SaveCursor()
	case 'u':
		e.grid.RestoreCursor()
	default:
		e.log.Warn().Str("action", string(action)).Msg("unhandled CSI final")
	}
}

func csiClearMode(n uint16) (ClearMode, bool) {
	switch n {
	case 0:
		return ClearBelow, true
	case 1:
		return ClearAbove, true
	case 2:
		return ClearAll, true
	case 3:
		return ClearSaved, true
	default:
		return 0, false
	}
}

func csiLineClearMode(n uint16) (LineClearMode, bool) {
	switch n {
	case 0:
		return LineClearRight, true
	case 1:
		return LineClearLeft, true
	case 2:
		return LineClearAll, true
	default:
		return 0, false
	}
}

// applyModeChange implements CSI h / CSI l (set/unset mode), including the
// mode-1049 save/restore-cursor special case and the DECCOLM/blinking-cursor
// no-ops.
func (e *Emulator) applyModeChange(private bool, code uint16, set bool) {
	if private && isAltScreenMode(code) {
		if set {
			e.grid.SaveCursor()
		} else {
			e.grid.RestoreCursor()
		}
		return
	}
	if private && isNoopPrivateMode(code) {
		return
	}

	var flag Mode
	var ok bool
	if private {
		flag, ok = privateModeFlag(code)
	} else {
		flag, ok = publicModeFlag(code)
	}
	if !ok {
		e.log.Warn().Bool("private", private).Uint16("code", code).Msg("unhandled mode code")
		return
	}
	if set {
		e.mode.Set(flag)
	} else {
		e.mode.Unset(flag)
	}
}

// EscDispatch handles the final byte of an ESC sequence (spec §4.3's ESC
// table). Unknown finals are logged and ignored.
func (e *Emulator) EscDispatch(intermediates []byte, ignore bool, b byte) {
	if ignore {
		return
	}
	e.log.Trace().Str("byte", string(b)).Msg("ESC")
	switch b {
	case 'D':
		e.grid.LineFeed()
	case 'E':
		e.grid.LineFeed()
		e.grid.CarriageReturn()
	case 'M':
		e.grid.ReverseIndex()
	case '7':
		e.grid.SaveCursor()
	case '8':
		if len(intermediates) > 0 && intermediates[0] == '#' {
			e.log.Warn().Msg("DECALN unimplemented")
			return
		}
		e.grid.RestoreCursor()
	case '>':
		e.mode.Unset(AppKeypad)
	case '=':
		e.mode.Set(AppKeypad)
	case '\\':
		// string terminator, no-op outside a string sequence
	default:
		e.log.Warn().Str("byte", string(b)).Msg("unhandled ESC final")
	}
}

// Hook, Put, Unhook, and OscDispatch are logged and ignored: DCS and OSC
// sequences carry no grid-visible state in this emulator (spec §4.3).

func (e *Emulator) Hook(params *govte.Params, intermediates []byte, ignore bool, action rune) {
	e.log.Debug().Msg("ignored DCS hook")
}

func (e *Emulator) Put(b byte) {
	e.log.Debug().Msg("ignored DCS put")
}

func (e *Emulator) Unhook() {
	e.log.Debug().Msg("ignored DCS unhook")
}

func (e *Emulator) OscDispatch(params [][]byte, bellTerminated bool) {
	e.log.Debug().Msg("ignored OSC dispatch")
}
