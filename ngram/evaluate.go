package ngram

import (
	"errors"
	"math"
)

const (
	// DefaultTopKLimit caps how many positions of each sequence the accuracy
	// evaluation scores.
	DefaultTopKLimit = 50

	probabilityFloor = 1e-10
)

var ErrNoHeldOutTokens = errors.New("no held-out tokens to score")

type Accuracy struct {
	Top1  float64 `json:"top1_accuracy"`
	Top3  float64 `json:"top3_accuracy"`
	Top5  float64 `json:"top5_accuracy"`
	Total int     `json:"total_predictions"`
}

type Report struct {
	Perplexity float64  `json:"perplexity"`
	Accuracy   Accuracy `json:"accuracy"`
	Sequences  int      `json:"sequences"`
}

// Perplexity is exp of the negative mean log probability the model assigns to
// every position of the padded held-out sequences. Zero probabilities are
// replaced by a small floor.
func Perplexity(m *Model, heldout [][]string) (float64, error) {
	var logSum float64
	var scored int
	for _, seq := range heldout {
		if len(seq) == 0 {
			continue
		}
		padded := m.Pad(seq)
		for i := m.n - 1; i < len(padded); i++ {
			p, err := m.Probability(padded[i-m.n+1:i], padded[i])
			if err != nil {
				return 0, err
			}
			if p == 0 {
				p = probabilityFloor
			}
			logSum += math.Log(p)
			scored++
		}
	}
	if scored == 0 {
		return 0, ErrNoHeldOutTokens
	}
	return math.Exp(-logSum / float64(scored)), nil
}

// TopKAccuracy reports how often the true next token is ranked first, within
// the first three, and within the first five. Only the first limitPerSequence
// positions of each sequence are scored, and positions whose context has no
// recorded continuation are not counted.
func TopKAccuracy(m *Model, heldout [][]string, limitPerSequence int) Accuracy {
	var top1, top3, top5, total int
	for _, seq := range heldout {
		if len(seq) == 0 {
			continue
		}
		padded := m.Pad(seq)
		end := min(len(padded), m.n-1+limitPerSequence)
		for i := m.n - 1; i < end; i++ {
			predictions := m.PredictNext(padded[i-m.n+1:i], DefaultTopK)
			if len(predictions) == 0 {
				continue
			}
			actual := padded[i]
			for rank, p := range predictions {
				if p.Token != actual {
					continue
				}
				if rank < 1 {
					top1++
				}
				if rank < 3 {
					top3++
				}
				top5++
				break
			}
			total++
		}
	}

	acc := Accuracy{Total: total}
	if total > 0 {
		acc.Top1 = float64(top1) / float64(total)
		acc.Top3 = float64(top3) / float64(total)
		acc.Top5 = float64(top5) / float64(total)
	}
	return acc
}

// Evaluate computes perplexity and top-k accuracy over the same sequences.
func Evaluate(m *Model, heldout [][]string, limitPerSequence int) (Report, error) {
	ppl, err := Perplexity(m, heldout)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		Perplexity: ppl,
		Accuracy:   TopKAccuracy(m, heldout, limitPerSequence),
	}
	for _, seq := range heldout {
		if len(seq) > 0 {
			report.Sequences++
		}
	}
	return report, nil
}
