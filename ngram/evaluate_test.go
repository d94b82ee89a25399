package ngram

import (
	"errors"
	"math"
	"testing"
)

func TestPerplexityPerfectModel(t *testing.T) {
	corpus := [][]string{{"a", "b"}}
	m := trainedModel(t, 2, SmoothingNone, 0, corpus)

	got, err := Perplexity(m, corpus)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("Perplexity() = %v, want 1", got)
	}
}

func TestPerplexityFloorsZeroProbabilities(t *testing.T) {
	m := trainedModel(t, 2, SmoothingNone, 0, [][]string{{"a", "b"}})

	got, err := Perplexity(m, [][]string{{"q"}})
	if err != nil {
		t.Fatal(err)
	}
	if want := 1e10; math.Abs(got-want)/want > 1e-6 {
		t.Errorf("Perplexity() = %v, want %v", got, want)
	}
}

func TestPerplexitySmoothedIsFinite(t *testing.T) {
	m := trainedModel(t, 3, SmoothingLaplace, 1, abCorpus)

	got, err := Perplexity(m, [][]string{{"a", "b", "e"}, {"z"}})
	if err != nil {
		t.Fatal(err)
	}
	if math.IsInf(got, 0) || math.IsNaN(got) || got < 1 {
		t.Errorf("Perplexity() = %v, want a finite value >= 1", got)
	}
}

func TestPerplexityEmpty(t *testing.T) {
	m := trainedModel(t, 3, SmoothingLaplace, 1, abCorpus)

	for _, heldout := range [][][]string{nil, {{}, {}}} {
		if _, err := Perplexity(m, heldout); !errors.Is(err, ErrNoHeldOutTokens) {
			t.Errorf("Perplexity(%v) error = %v, want ErrNoHeldOutTokens", heldout, err)
		}
	}
}

func TestTopKAccuracyOnTrainingData(t *testing.T) {
	corpus := [][]string{{"a", "b"}}
	m := trainedModel(t, 2, SmoothingLaplace, 1, corpus)

	got := TopKAccuracy(m, corpus, DefaultTopKLimit)
	want := Accuracy{Top1: 1, Top3: 1, Top5: 1, Total: 3}
	if got != want {
		t.Errorf("TopKAccuracy() = %+v, want %+v", got, want)
	}
}

func TestTopKAccuracyEmpty(t *testing.T) {
	m := trainedModel(t, 2, SmoothingLaplace, 1, nil)

	got := TopKAccuracy(m, [][]string{{"a", "b"}}, DefaultTopKLimit)
	if got != (Accuracy{}) {
		t.Errorf("TopKAccuracy() on untrained model = %+v, want zero", got)
	}
	if got := TopKAccuracy(m, nil, DefaultTopKLimit); got != (Accuracy{}) {
		t.Errorf("TopKAccuracy(nil) = %+v, want zero", got)
	}
}

func TestTopKAccuracyLimit(t *testing.T) {
	seq := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	m := trainedModel(t, 2, SmoothingNone, 0, [][]string{seq})

	tests := []struct {
		limit int
		want  int
	}{
		{0, 0},
		{3, 3},
		{50, 11},
	}
	for _, tt := range tests {
		if got := TopKAccuracy(m, [][]string{seq}, tt.limit); got.Total != tt.want {
			t.Errorf("limit %d: Total = %d, want %d", tt.limit, got.Total, tt.want)
		}
	}
}

func TestTopKAccuracyMonotonic(t *testing.T) {
	train := [][]string{
		{"for", "(", "int", "i", "=", "<NUM>", ";", "i", "<", "n", ";", "i", "++", ")", "{", "}"},
		{"if", "(", "x", "==", "null", ")", "{", "return", ";", "}"},
		{"int", "i", "=", "n", "+", "<NUM>", ";"},
		{"return", "x", "+", "y", ";"},
		{"x", "=", "y", ";", "y", "=", "z", ";", "z", "=", "x", ";"},
	}
	test := [][]string{
		{"for", "(", "int", "j", "=", "<NUM>", ";", "j", "<", "m", ";", "j", "++", ")", "{", "}"},
		{"if", "(", "y", "!=", "null", ")", "{", "return", "y", ";", "}"},
		{"x", "=", "z", ";"},
	}

	for n := 1; n <= 4; n++ {
		m := trainedModel(t, n, SmoothingAddK, 0.01, train)
		acc := TopKAccuracy(m, test, DefaultTopKLimit)
		if !(acc.Top1 <= acc.Top3 && acc.Top3 <= acc.Top5) {
			t.Errorf("n=%d: accuracy not monotonic: %+v", n, acc)
		}
		if acc.Top5 > 1 {
			t.Errorf("n=%d: Top5 = %v, want <= 1", n, acc.Top5)
		}
	}
}

func TestEvaluate(t *testing.T) {
	m := trainedModel(t, 3, SmoothingLaplace, 1, abCorpus)

	report, err := Evaluate(m, append(abCorpus, []string{}), DefaultTopKLimit)
	if err != nil {
		t.Fatal(err)
	}
	if report.Sequences != 2 {
		t.Errorf("Sequences = %d, want 2", report.Sequences)
	}
	if report.Perplexity <= 1 {
		t.Errorf("Perplexity = %v, want > 1 under Laplace smoothing", report.Perplexity)
	}
	if report.Accuracy.Total != 8 {
		t.Errorf("Accuracy.Total = %d, want 8", report.Accuracy.Total)
	}
}
