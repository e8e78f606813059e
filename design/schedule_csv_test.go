package design

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadSchedule(t *testing.T) {
	blocks, err := Plan(4, 40, 80, NewRand(99))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "schedule.csv")
	require.NoError(t, SaveSchedule(path, blocks))

	loaded, err := LoadSchedule(path)
	require.NoError(t, err)
	if diff := cmp.Diff(blocks, loaded); diff != "" {
		t.Errorf("schedule mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSchedule_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"empty", "block,trial,target_location,rotation_direction,duration_ms,validity\n", "no trials"},
		{"bad location", "1,1,up,clockwise,500,valid\n", "unknown target location"},
		{"bad direction", "1,1,left,sideways,500,valid\n", "unknown rotation direction"},
		{"bad duration", "1,1,left,clockwise,soon,valid\n", "invalid duration"},
		{"bad validity", "1,1,left,clockwise,500,neutral\n", "validity"},
		{"skipped block", "1,1,left,clockwise,500,valid\n3,1,left,clockwise,500,valid\n", "out of order"},
		{"short row", "1,1,left\n", "expected 6 fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSchedule(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadSchedule_NoHeader(t *testing.T) {
	blocks, err := ReadSchedule(strings.NewReader("1,1,LEFT,Clockwise,500,valid\n1,2,right,anticlockwise,800,invalid\n2,1,left,clockwise,1100,valid\n"))
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, Block{
		{Left, Clockwise, 500, Valid},
		{Right, Anticlockwise, 800, Invalid},
	}, blocks[0])
}

func TestCheckSchedule(t *testing.T) {
	blocks, err := Plan(2, 40, 80, NewRand(3))
	require.NoError(t, err)
	require.NoError(t, CheckSchedule(blocks, 80))

	clone := func() []Block {
		out := make([]Block, len(blocks))
		for i, b := range blocks {
			out[i] = slices.Clone(b)
		}
		return out
	}

	tests := []struct {
		name           string
		edit           func([]Block) []Block
		predictability int
		want           string
	}{
		{"other predictability", func(b []Block) []Block { return b }, 50, "32 valid and 8 invalid"},
		{"uneven blocks", func(b []Block) []Block { b[1] = b[1][:20]; return b }, 80, "block 2 has 20 trials"},
		{"unknown duration", func(b []Block) []Block { b[0][5].DurationMS = 650; return b }, 80, "duration 650 ms"},
		{"ratio", func(b []Block) []Block {
			for i := range b[1] {
				b[1][i].Validity = Valid
			}
			return b
		}, 80, "block 2 has 40 valid and 0 invalid"},
		{"empty", func([]Block) []Block { return nil }, 80, "no blocks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSchedule(tt.edit(clone()), tt.predictability)
			require.ErrorIs(t, err, ErrSchedule)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
