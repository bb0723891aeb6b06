package viewer

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/kngwyu/curses-game-wrapper/proc"
)

func TestEmptyViewerDiscardsEverything(t *testing.T) {
	v := EmptyViewer{}
	v.Send(proc.EventValid{Bytes: []byte("ignored")})
	v.Send(proc.EventZero{})
	v.Stop()

	select {
	case <-v.Run():
	case <-time.After(time.Second):
		t.Fatal("EmptyViewer.Run() never completed")
	}
}

func TestTerminalViewerStopsOnZero(t *testing.T) {
	v := NewTerminalViewer(time.Millisecond, zerolog.Nop())
	done := v.Run()

	v.Send(proc.EventValid{Bytes: []byte("hi")})
	v.Send(proc.EventZero{})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("TerminalViewer did not finish after EventZero")
	}
}

func TestTerminalViewerStopsOnPanicked(t *testing.T) {
	v := NewTerminalViewer(time.Millisecond, zerolog.Nop())
	done := v.Run()

	v.Send(proc.EventPanicked{Err: assert.AnError})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("TerminalViewer did not finish after EventPanicked")
	}
}

func TestTerminalViewerStopsExplicitly(t *testing.T) {
	v := NewTerminalViewer(time.Hour, zerolog.Nop())
	done := v.Run()

	v.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("TerminalViewer did not finish after Stop")
	}
}
