package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptedReactorCyclesMoves(t *testing.T) {
	r := &ScriptedReactor{LoopNum: 50}
	assert.Equal(t, []byte{'h'}, r.Action(NotChanged{}, 0))
	assert.Equal(t, []byte{'j'}, r.Action(NotChanged{}, 1))
	assert.Equal(t, []byte{'k'}, r.Action(NotChanged{}, 2))
	assert.Equal(t, []byte{'l'}, r.Action(NotChanged{}, 3))
	assert.Equal(t, []byte{'h'}, r.Action(NotChanged{}, 4))
}

func TestScriptedReactorQuitSequence(t *testing.T) {
	r := &ScriptedReactor{LoopNum: 50}
	assert.Equal(t, []byte{'Q'}, r.Action(GameEnded{}, 47))
	assert.Equal(t, []byte{'y'}, r.Action(GameEnded{}, 48))
	assert.Equal(t, []byte{'\r'}, r.Action(GameEnded{}, 49))
}
