// Package design generates the balanced trial schedule of the experiment:
// factorial trial pools, fixed-ratio blocks, per-trial stimulus
// characteristics and the trigger codes that mark trial events.
package design

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

type Location string

const (
	Left   Location = "left"
	Right  Location = "right"
	Middle Location = "middle"
)

type Direction string

const (
	Clockwise     Direction = "clockwise"
	Anticlockwise Direction = "anticlockwise"
)

type Validity string

const (
	Valid   Validity = "valid"
	Invalid Validity = "invalid"
)

// FactorialUnit is the smallest trial count for which locations, directions
// and the ten durations can all be crossed evenly.
const FactorialUnit = 40

// Durations is the cycle of cue-to-change intervals in milliseconds.
var Durations = []int{500, 800, 1100, 1400, 1700, 2000, 2300, 2600, 2900, 3200}

var (
	ErrTrialCount   = errors.New("number of trials must be divisible by 40")
	ErrValidity     = errors.New("validity must be either 'valid' or 'invalid'")
	ErrPoolSize     = errors.New("both trial pools must be divisible by 40")
	ErrPoolTooSmall = errors.New("trial pool too small for requested blocks")
)

// Trial is one cell of the factorial design.
type Trial struct {
	Location   Location
	Direction  Direction
	DurationMS int
	Validity   Validity
}

// Block is an ordered run of trials shown without a break.
type Block []Trial

// ParseValidity maps a label onto a Validity.
func ParseValidity(s string) (Validity, error) {
	switch Validity(s) {
	case Valid, Invalid:
		return Validity(s), nil
	}
	return "", fmt.Errorf("%w: got %q", ErrValidity, s)
}

// NewTrialList returns n trials carrying validity v, with locations,
// directions and durations fully crossed, in random order.
func NewTrialList(n int, v Validity, rng *rand.Rand) ([]Trial, error) {
	if n <= 0 || n%FactorialUnit != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrTrialCount, n)
	}
	if _, err := ParseValidity(string(v)); err != nil {
		return nil, err
	}

	trials := make([]Trial, n)
	quarter := n / 4
	for i := range trials {
		loc := Left
		if i >= n/2 {
			loc = Right
		}
		// Two runs of (clockwise, anticlockwise) quarters line up with the
		// two location halves.
		dir := Clockwise
		if (i/quarter)%2 == 1 {
			dir = Anticlockwise
		}
		trials[i] = Trial{
			Location:   loc,
			Direction:  dir,
			DurationMS: Durations[i%len(Durations)],
			Validity:   v,
		}
	}

	rng.Shuffle(len(trials), func(i, j int) {
		trials[i], trials[j] = trials[j], trials[i]
	})
	return trials, nil
}

// BlockCounts returns how many valid and invalid trials each block holds.
func BlockCounts(blockTrials, predictability int) (valid, invalid int) {
	valid = blockTrials * predictability / 100
	invalid = blockTrials * (100 - predictability) / 100
	return valid, invalid
}

// AssembleBlocks cuts both (already shuffled) pools into consecutive slices,
// one per block, and shuffles the order within each block.
func AssembleBlocks(valid, invalid []Trial, nBlocks, blockTrials, predictability int, rng *rand.Rand) ([]Block, error) {
	if len(valid)%FactorialUnit != 0 || len(invalid)%FactorialUnit != 0 {
		return nil, fmt.Errorf("%w: got %d valid and %d invalid", ErrPoolSize, len(valid), len(invalid))
	}
	if nBlocks <= 0 || blockTrials <= 0 {
		return nil, fmt.Errorf("blocks and trials per block must be positive, got %d and %d", nBlocks, blockTrials)
	}
	if predictability < 0 || predictability > 100 {
		return nil, fmt.Errorf("predictability must be between 0 and 100, got %d", predictability)
	}

	nValid, nInvalid := BlockCounts(blockTrials, predictability)
	if nBlocks*nValid > len(valid) {
		return nil, fmt.Errorf("%w: %d valid trials needed, %d available", ErrPoolTooSmall, nBlocks*nValid, len(valid))
	}
	if nBlocks*nInvalid > len(invalid) {
		return nil, fmt.Errorf("%w: %d invalid trials needed, %d available", ErrPoolTooSmall, nBlocks*nInvalid, len(invalid))
	}

	blocks := make([]Block, nBlocks)
	for b := range blocks {
		block := make(Block, 0, nValid+nInvalid)
		block = append(block, valid[b*nValid:(b+1)*nValid]...)
		block = append(block, invalid[b*nInvalid:(b+1)*nInvalid]...)
		rng.Shuffle(len(block), func(i, j int) {
			block[i], block[j] = block[j], block[i]
		})
		blocks[b] = block
	}
	return blocks, nil
}

// Plan generates both pools for the whole session and assembles them into
// nBlocks blocks of blockTrials trials.
func Plan(nBlocks, blockTrials, predictability int, rng *rand.Rand) ([]Block, error) {
	total := nBlocks * blockTrials
	nValid, nInvalid := BlockCounts(total, predictability)

	// Predictability of 0 or 100 leaves one pool empty.
	var validTrials, invalidTrials []Trial
	var err error
	if nValid > 0 {
		validTrials, err = NewTrialList(nValid, Valid, rng)
		if err != nil {
			return nil, fmt.Errorf("valid pool: %w", err)
		}
	}
	if nInvalid > 0 {
		invalidTrials, err = NewTrialList(nInvalid, Invalid, rng)
		if err != nil {
			return nil, fmt.Errorf("invalid pool: %w", err)
		}
	}

	return AssembleBlocks(validTrials, invalidTrials, nBlocks, blockTrials, predictability, rng)
}

// NewRand returns the seeded generator used for planning and trial
// characteristics, so a session can be regenerated from its seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
