package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	for a := ActionUp; a < actionCount; a++ {
		got, ok := ParseAction(a.String())
		assert.True(t, ok)
		assert.Equal(t, a, got)
	}
	_, ok := ParseAction("jump")
	assert.False(t, ok)
	_, ok = ParseAction("UP")
	assert.False(t, ok)
}

func TestGameStateJSON(t *testing.T) {
	b, err := json.Marshal(Outcome{State: StateWin, WinnerID: "computer-2", Reason: ReasonLastStanding})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"state":"WIN","winnerId":"computer-2","reason":"last-standing"}`, string(b))

	var out Outcome
	assert.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, StateWin, out.State)
	assert.Error(t, json.Unmarshal([]byte(`{"state":"LOST"}`), &out))
}
