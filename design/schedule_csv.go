package design

import (
	"encoding/csv"
	"errors"
	"fmt"
	"slices"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrSchedule marks a schedule that Plan could not have produced.
var ErrSchedule = errors.New("schedule does not match the design")

var scheduleHeader = []string{"block", "trial", "target_location", "rotation_direction", "duration_ms", "validity"}

// WriteSchedule writes blocks as CSV, one trial per row.
func WriteSchedule(w io.Writer, blocks []Block) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scheduleHeader); err != nil {
		return err
	}
	for b, block := range blocks {
		for i, t := range block {
			err := cw.Write([]string{
				strconv.Itoa(b + 1),
				strconv.Itoa(i + 1),
				string(t.Location),
				string(t.Direction),
				strconv.Itoa(t.DurationMS),
				string(t.Validity),
			})
			if err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveSchedule writes blocks to path.
func SaveSchedule(path string, blocks []Block) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSchedule(f, blocks); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadSchedule reads a schedule written by SaveSchedule. Rows must be grouped
// by block number, starting at 1.
func LoadSchedule(path string) ([]Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSchedule(f)
}

// ReadSchedule parses schedule CSV from r.
func ReadSchedule(r io.Reader) ([]Block, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}

	var blocks []Block
	for i, record := range records {
		if i == 0 && len(record) > 0 && record[0] == scheduleHeader[0] {
			continue
		}
		if len(record) < len(scheduleHeader) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", i+1, len(scheduleHeader), len(record))
		}

		block, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid block: %v", i+1, err)
		}
		switch {
		case block == len(blocks)+1:
			blocks = append(blocks, Block{})
		case block != len(blocks):
			return nil, fmt.Errorf("line %d: block %d out of order", i+1, block)
		}

		var t Trial
		switch loc := Location(strings.ToLower(record[2])); loc {
		case Left, Right:
			t.Location = loc
		default:
			return nil, fmt.Errorf("line %d: unknown target location: %s", i+1, record[2])
		}
		switch dir := Direction(strings.ToLower(record[3])); dir {
		case Clockwise, Anticlockwise:
			t.Direction = dir
		default:
			return nil, fmt.Errorf("line %d: unknown rotation direction: %s", i+1, record[3])
		}
		t.DurationMS, err = strconv.Atoi(record[4])
		if err != nil || t.DurationMS <= 0 {
			return nil, fmt.Errorf("line %d: invalid duration: %s", i+1, record[4])
		}
		t.Validity, err = ParseValidity(strings.ToLower(record[5]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		blocks[len(blocks)-1] = append(blocks[len(blocks)-1], t)
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("schedule has no trials")
	}
	return blocks, nil
}

// CheckSchedule reports whether blocks keep the guarantees of Plan: equally
// sized blocks, the valid/invalid split of predictability in every block, and
// durations from Durations only.
func CheckSchedule(blocks []Block, predictability int) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: no blocks", ErrSchedule)
	}
	size := len(blocks[0])
	wantValid, wantInvalid := BlockCounts(size, predictability)
	for b, block := range blocks {
		if len(block) != size {
			return fmt.Errorf("%w: block %d has %d trials, block 1 has %d", ErrSchedule, b+1, len(block), size)
		}
		var valid, invalid int
		for i, t := range block {
			if !slices.Contains(Durations, t.DurationMS) {
				return fmt.Errorf("%w: block %d trial %d: duration %d ms", ErrSchedule, b+1, i+1, t.DurationMS)
			}
			if t.Validity == Valid {
				valid++
			} else {
				invalid++
			}
		}
		if valid != wantValid || invalid != wantInvalid {
			return fmt.Errorf("%w: block %d has %d valid and %d invalid trials, want %d and %d at %d%% predictability",
				ErrSchedule, b+1, valid, invalid, wantValid, wantInvalid, predictability)
		}
	}
	return nil
}
