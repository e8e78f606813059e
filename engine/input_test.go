package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
)

func TestKeyName(t *testing.T) {
	assert.Equal(t, "space", keyName("Space"))
	assert.Equal(t, "m", keyName("M"))
	assert.Equal(t, "return", keyName("Return"))
}

func TestInputTake(t *testing.T) {
	in := NewInput(nil, "q", 0, 0)
	in.presses = []response.KeyPress{{Name: "x"}, {Name: "m"}, {Name: "z"}}

	assert.Equal(t, []string{"m", "z"}, response.Names(in.take([]string{"m", "z"})))
	assert.Equal(t, []string{"x"}, response.Names(in.take(nil)))
	assert.Empty(t, in.take(nil))
}
