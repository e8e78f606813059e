package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})
	Logf("block %d", 3)
	assert.Equal(t, []string{"block 3"}, got)

	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("dropped %s", "message") })
	assert.Len(t, got, 1)
}
