package results

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// BlockSummary aggregates the trials of one block.
type BlockSummary struct {
	Block          int
	Trials         int
	Correct        int
	Missed         int
	FixationBroken int
	Premature      int
	PercentCorrect float64 // of all trials in the block
	MeanRTMS       float64 // over answered trials, 0 when none
}

// Score returns the percentage of true entries rounded half to even, 0 for
// none.
func Score(correct []bool) int {
	if len(correct) == 0 {
		return 0
	}
	x := make([]float64, len(correct))
	for i, c := range correct {
		if c {
			x[i] = 1
		}
	}
	return int(math.RoundToEven(stat.Mean(x, nil) * 100))
}

// Summarize groups records by block, in order of first appearance.
func Summarize(records []Record) []BlockSummary {
	var (
		order   []int
		byBlock = map[int][]Record{}
	)
	for _, r := range records {
		if _, ok := byBlock[r.Block]; !ok {
			order = append(order, r.Block)
		}
		byBlock[r.Block] = append(byBlock[r.Block], r)
	}

	out := make([]BlockSummary, 0, len(order))
	for _, b := range order {
		recs := byBlock[b]
		s := BlockSummary{Block: b, Trials: len(recs)}

		correct := make([]bool, len(recs))
		var rts []float64
		for i, r := range recs {
			resp := r.Response
			correct[i] = resp.CorrectKey
			if resp.CorrectKey {
				s.Correct++
			}
			if resp.Missed {
				s.Missed++
			} else {
				rts = append(rts, resp.ResponseTimeMS)
			}
			if resp.FixationBroken {
				s.FixationBroken++
			}
			if resp.PrematurePressed {
				s.Premature++
			}
		}

		s.PercentCorrect = float64(Score(correct))
		if len(rts) > 0 {
			s.MeanRTMS = math.RoundToEven(stat.Mean(rts, nil)*100) / 100
		}
		out = append(out, s)
	}
	return out
}
