package emulator

// Mode is a bitset over the terminal modes the emulator tracks. Colour and
// attribute modes are out of scope (see spec Non-goals); this covers only
// cursor, keypad, mouse-reporting, and line-discipline flags.
type Mode uint16

const (
	ShowCursor Mode = 1 << iota
	AppCursor
	AppKeypad
	MouseReportClick
	MouseMotion
	SGRMouse
	FocusInOut
	BracketedPaste
	LineWrap
	LineFeedNewLine
	Origin
	Insert
)

// DefaultModes is the mode set a freshly constructed emulator starts with.
const DefaultModes = ShowCursor | LineWrap

// Set adds flags to the mode set.
func (m *Mode) Set(flags Mode) { *m |= flags }

// Unset removes flags from the mode set.
func (m *Mode) Unset(flags Mode) { *m &^= flags }

// Has reports whether all of flags are currently set.
func (m Mode) Has(flags Mode) bool { return m&flags == flags }

// privateModeFlag maps a DEC private mode number (the numeric argument of
// `CSI ? n h` / `CSI ? n l`) to the flag it controls. ok is false for
// numbers with no tracked flag (unknown private modes, or modes that are
// handled specially by the caller, such as 1049 and the DECCOLM no-op).
func privateModeFlag(n uint16) (flag Mode, ok bool) {
	switch n {
	case 1:
		return AppCursor, true
	case 6:
		return Origin, true
	case 7:
		return LineWrap, true
	case 25:
		return ShowCursor, true
	case 1000:
		return MouseReportClick, true
	case 1002:
		return MouseMotion, true
	case 1004:
		return FocusInOut, true
	case 1006:
		return SGRMouse, true
	case 2004:
		return BracketedPaste, true
	default:
		return 0, false
	}
}

// publicModeFlag maps a public (non-private) mode number to the flag it
// controls.
func publicModeFlag(n uint16) (flag Mode, ok bool) {
	switch n {
	case 4:
		return Insert, true
	case 20:
		return LineFeedNewLine, true
	default:
		return 0, false
	}
}

// isNoopPrivateMode reports whether n is a recognised but intentionally
// unimplemented private mode (DECCOLM 3, blinking cursor 12) — these are
// acknowledged rather than logged as unknown.
func isNoopPrivateMode(n uint16) bool {
	return n == 3 || n == 12
}

// isAltScreenMode reports whether n is the save/restore-cursor mode 1049.
// The emulator never implements an alternate screen buffer (spec Non-goal);
// entering/leaving this mode only saves/restores the cursor.
func isAltScreenMode(n uint16) bool {
	return n == 1049
}
