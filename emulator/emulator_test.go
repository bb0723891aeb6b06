package emulator

import (
	"testing"

	"github.com/cliofy/govte"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(e *Emulator, input string) {
	p := govte.NewParser()
	p.Advance(e, []byte(input))
}

func gridString(g *Grid) []string {
	snap := g.Snapshot()
	out := make([]string, len(snap))
	for i, row := range snap {
		out[i] = string(row)
	}
	return out
}

// End-to-end scenarios from spec §8, H=4 W=10, starting from default state.
func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		wantRows []string
		wantX    int
		wantY    int
	}{
		{
			name:  "simple print",
			input: "ABC",
			wantRows: []string{
				"ABC       ",
				"          ",
				"          ",
				"          ",
			},
			wantX: 3, wantY: 0,
		},
		{
			name:  "CRLF moves to next line",
			input: "ABC\r\nDE",
			wantRows: []string{
				"ABC       ",
				"DE        ",
				"          ",
				"          ",
			},
			wantX: 2, wantY: 1,
		},
		{
			name:  "CUP repositions cursor",
			input: "AB\x1b[2;1HZ",
			wantRows: []string{
				"AB        ",
				"Z         ",
				"          ",
				"          ",
			},
			wantX: 1, wantY: 1,
		},
		{
			name:  "line wrap",
			input: "HELLO WORLD",
			wantRows: []string{
				"HELLO_WORL",
				"D         ",
				"          ",
				"          ",
			},
			wantX: 1, wantY: 1,
		},
		{
			name:  "cursor back then erase to end of line",
			input: "abcde\x1b[3D\x1b[K",
			wantRows: []string{
				"ab        ",
				"          ",
				"          ",
				"          ",
			},
			wantX: 2, wantY: 0,
		},
		{
			name:  "clear screen then home",
			input: "X\nY\nZ\x1b[2J\x1b[H",
			wantRows: []string{
				"          ",
				"          ",
				"          ",
				"          ",
			},
			wantX: 0, wantY: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := tc.input
			// "HELLO_WORL" in the table stands for a literal space; undo
			// the underline substitution used for table readability.
			wantRows := make([]string, len(tc.wantRows))
			for i, r := range tc.wantRows {
				wantRows[i] = stringsReplaceUnderscoreWithSpace(r)
			}
			e := New(10, 4, zerolog.Nop())
			feed(e, input)

			assert.Equal(t, wantRows, gridString(e.Grid()))
			x, y := e.Grid().Cursor()
			assert.Equal(t, tc.wantX, x)
			assert.Equal(t, tc.wantY, y)
		})
	}
}

func stringsReplaceUnderscoreWithSpace(s string) string {
	out := []byte(s)
	for i, b := range out {
		if b == '_' {
			out[i] = ' '
		}
	}
	return string(out)
}

func TestPrintWarnsOnNonASCIIButStillStores(t *testing.T) {
	e := New(5, 1, zerolog.Nop())
	e.Print('é') // é, > 0x7F
	assert.Equal(t, byte('é'&0xFF), e.Grid().Snapshot()[0][0])
}

func TestExecuteControlCodes(t *testing.T) {
	e := New(5, 2, zerolog.Nop())
	feed(e, "ab\rcd")
	assert.Equal(t, "cd", string(e.Grid().Snapshot()[0][:2]))
}

func TestModeChangeSetAndUnset(t *testing.T) {
	e := New(5, 2, zerolog.Nop())
	require.True(t, e.Mode().Has(ShowCursor))
	feed(e, "\x1b[?25l")
	assert.False(t, e.Mode().Has(ShowCursor))
	feed(e, "\x1b[?25h")
	assert.True(t, e.Mode().Has(ShowCursor))
}

func TestMode1049SavesAndRestoresCursorOnly(t *testing.T) {
	e := New(5, 5, zerolog.Nop())
	e.Grid().Goto(2, 2)
	feed(e, "\x1b[?1049h")
	e.Grid().Goto(4, 4)
	feed(e, "\x1b[?1049l")
	x, y := e.Grid().Cursor()
	assert.Equal(t, 2, x)
	assert.Equal(t, 2, y)
}

func TestDECCOLMIsNoop(t *testing.T) {
	e := New(5, 5, zerolog.Nop())
	before := e.Mode()
	feed(e, "\x1b[?3h")
	assert.Equal(t, before, e.Mode())
}

func TestCursorMovementClampsInsteadOfPanicking(t *testing.T) {
	e := New(5, 5, zerolog.Nop())
	assert.NotPanics(t, func() {
		feed(e, "\x1b[100A") // cursor up 100 from row 0
	})
	x, y := e.Grid().Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	assert.NotPanics(t, func() {
		feed(e, "\x1b[100B") // cursor down 100 from row 0
	})
	_, y = e.Grid().Cursor()
	assert.Equal(t, 4, y)

	assert.NotPanics(t, func() {
		feed(e, "\x1b[999;999H") // absolute position far out of range
	})
	x, y = e.Grid().Cursor()
	assert.Equal(t, 4, x)
	assert.Equal(t, 4, y)
}

func TestEscIndexAndNextLineScrollAtBottom(t *testing.T) {
	e := New(5, 2, zerolog.Nop())
	e.Grid().Goto(0, 1)
	feed(e, "a")
	feed(e, "\x1bD") // ESC D at bottom row must scroll, not panic
	snap := e.Grid().Snapshot()
	assert.Equal(t, "a    ", string(snap[0]))

	feed(e, "b\x1bE") // ESC E at bottom row must scroll too, then CR
	snap = e.Grid().Snapshot()
	assert.Equal(t, " b   ", string(snap[0]))
	assert.Equal(t, "     ", string(snap[1]))
	x, y := e.Grid().Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 1, y)
}

func TestEscNextLineAlwaysCarriageReturns(t *testing.T) {
	e := New(5, 3, zerolog.Nop())
	feed(e, "abc\x1bE") // ESC E (NEL) must CR regardless of LineFeedNewLine mode
	x, y := e.Grid().Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 1, y)
}

func TestRepeatPrecedingChar(t *testing.T) {
	e := New(10, 1, zerolog.Nop())
	feed(e, "x\x1b[3b")
	assert.Equal(t, "xxxx      ", string(e.Grid().Snapshot()[0]))
}

func TestUnknownCSIAndESCAreIgnoredNotFatal(t *testing.T) {
	e := New(5, 2, zerolog.Nop())
	assert.NotPanics(t, func() {
		feed(e, "\x1b[5z")
		feed(e, "\x1bZ")
	})
}
