package ranking

import (
	"math"
	"strings"
	"testing"

	"github.com/rewired-gh/psceval/internal/models"
)

func ptr(v float64) *float64 { return &v }

func scenario(id string, npv, contractor float64, irr, payback *float64, capex, opex float64) models.ScenarioMetrics {
	return models.ScenarioMetrics{
		ScenarioID:           id,
		ScenarioName:         "S" + id,
		NPV:                  npv,
		TotalContractorShare: contractor,
		IRR:                  irr,
		PaybackYears:         payback,
		TotalCapex:           capex,
		TotalOpex:            opex,
		TotalRevenue:         capex * 4,
	}
}

func TestRankDominantScenario(t *testing.T) {
	ranked := Rank([]models.ScenarioMetrics{
		scenario("B", 0, 0, ptr(0.1), ptr(5), 20, 10),
		scenario("A", 100, 50, ptr(0.2), ptr(3), 10, 5),
	})

	if ranked[0].Metrics.ScenarioID != "A" || ranked[0].Rank != 1 {
		t.Errorf("first = %s rank %d, want A rank 1", ranked[0].Metrics.ScenarioID, ranked[0].Rank)
	}
	if math.Abs(ranked[0].TotalScore-100) > 1e-9 {
		t.Errorf("A score = %v, want 100", ranked[0].TotalScore)
	}
	if math.Abs(ranked[1].TotalScore) > 1e-9 || ranked[1].Rank != 2 {
		t.Errorf("B score = %v rank %d, want 0 rank 2", ranked[1].TotalScore, ranked[1].Rank)
	}
}

func TestRankWeights(t *testing.T) {
	// A wins only on NPV and contractor take: 100 × (0.30 + 0.25).
	ranked := Rank([]models.ScenarioMetrics{
		scenario("A", 100, 50, ptr(0.1), ptr(5), 20, 10),
		scenario("B", 0, 0, ptr(0.2), ptr(3), 10, 5),
	})
	scores := map[string]float64{}
	for _, r := range ranked {
		scores[r.Metrics.ScenarioID] = r.TotalScore
	}
	if math.Abs(scores["A"]-55) > 1e-9 {
		t.Errorf("A score = %v, want 55", scores["A"])
	}
	if math.Abs(scores["B"]-45) > 1e-9 {
		t.Errorf("B score = %v, want 45", scores["B"])
	}
	if ranked[0].Metrics.ScenarioID != "A" {
		t.Errorf("first = %s, want A", ranked[0].Metrics.ScenarioID)
	}
}

func TestRankAllTied(t *testing.T) {
	m := scenario("X", 10, 10, ptr(0.15), ptr(4), 10, 10)
	ranked := Rank([]models.ScenarioMetrics{m, m, m})
	for i, r := range ranked {
		if math.Abs(r.TotalScore-100) > 1e-9 {
			t.Errorf("entry %d score = %v, want 100", i, r.TotalScore)
		}
		if r.Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, r.Rank, i+1)
		}
	}
}

func TestRankIRRPreprocessing(t *testing.T) {
	ranked := Rank([]models.ScenarioMetrics{
		scenario("undefined", 0, 0, nil, ptr(1), 1, 1),
		scenario("huge", 0, 0, ptr(2.5), ptr(1), 1, 1),
		scenario("negative", 0, 0, ptr(-0.1), ptr(1), 1, 1),
		scenario("half", 0, 0, ptr(0.5), ptr(1), 1, 1),
	})
	want := map[string]float64{"undefined": 1, "huge": 1, "negative": 0, "half": 0.5}
	for _, r := range ranked {
		if got := r.Scores.IRR; math.Abs(got-want[r.Metrics.ScenarioID]) > 1e-9 {
			t.Errorf("%s IRR score = %v, want %v", r.Metrics.ScenarioID, got, want[r.Metrics.ScenarioID])
		}
	}
}

func TestRankPaybackFill(t *testing.T) {
	tests := []struct {
		name     string
		paybacks []*float64
		want     []float64
	}{
		{name: "missing filled with worst", paybacks: []*float64{nil, ptr(2), ptr(4)}, want: []float64{0, 1, 0}},
		{name: "all missing ties", paybacks: []*float64{nil, nil}, want: []float64{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var metrics []models.ScenarioMetrics
			for i, p := range tt.paybacks {
				metrics = append(metrics, scenario(string(rune('a'+i)), 0, 0, nil, p, 1, 1))
			}
			for _, r := range Rank(metrics) {
				idx := int(r.Metrics.ScenarioID[0] - 'a')
				if math.Abs(r.Scores.Payback-tt.want[idx]) > 1e-9 {
					t.Errorf("%s payback score = %v, want %v", r.Metrics.ScenarioID, r.Scores.Payback, tt.want[idx])
				}
			}
		})
	}
}

func TestRankDeterministicUnderReversal(t *testing.T) {
	input := []models.ScenarioMetrics{
		scenario("1", 120, 80, ptr(0.25), ptr(3.2), 150, 40),
		scenario("2", -30, 10, nil, nil, 5, 2),
		scenario("3", 60, 70, ptr(0.18), ptr(4.1), 90, 30),
		scenario("4", 10, 20, ptr(0.05), ptr(8.0), 40, 12),
	}
	reversed := make([]models.ScenarioMetrics, len(input))
	for i := range input {
		reversed[len(input)-1-i] = input[i]
	}

	first := Rank(input)
	again := Rank(input)
	other := Rank(reversed)
	for i := range first {
		if first[i].Metrics.ScenarioID != again[i].Metrics.ScenarioID {
			t.Errorf("rank %d differs between runs", i+1)
		}
		if first[i].Metrics.ScenarioID != other[i].Metrics.ScenarioID {
			t.Errorf("rank %d = %s forward, %s reversed", i+1, first[i].Metrics.ScenarioID, other[i].Metrics.ScenarioID)
		}
		if i > 0 && first[i].TotalScore > first[i-1].TotalScore {
			t.Errorf("ranking not descending at %d", i+1)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Errorf("Rank(nil) = %v, want empty", got)
	}
}

func TestTopK(t *testing.T) {
	ranked := Rank([]models.ScenarioMetrics{
		scenario("1", 1, 1, nil, nil, 1, 1),
		scenario("2", 2, 2, nil, nil, 1, 1),
		scenario("3", 3, 3, nil, nil, 1, 1),
	})
	tests := []struct {
		k    int
		want int
	}{{0, 0}, {2, 2}, {10, 3}}
	for _, tt := range tests {
		if got := TopK(ranked, tt.k); len(got) != tt.want {
			t.Errorf("TopK(%d) returned %d, want %d", tt.k, len(got), tt.want)
		}
	}
}

func TestRecommend(t *testing.T) {
	best := scenario("7", 5000000, 2000000, ptr(0.3), ptr(3), 1000000, 100000)
	best.TotalRevenue = 10000000
	ranked := Rank([]models.ScenarioMetrics{best, scenario("8", 0, 0, ptr(0.1), ptr(6), 2000000, 300000)})

	rec := Recommend(ranked, 0.13)
	if rec == nil {
		t.Fatal("Recommend() = nil")
	}
	if rec.ScenarioID != "7" {
		t.Errorf("ScenarioID = %s, want 7", rec.ScenarioID)
	}
	if len(rec.Reasons) != 4 {
		t.Fatalf("got %d reasons, want 4: %v", len(rec.Reasons), rec.Reasons)
	}
	checks := []string{"Positive NPV", "20.00% of total revenue", "capital-intensive", "Excellent revenue generation"}
	for i, c := range checks {
		if !strings.Contains(rec.Reasons[i], c) {
			t.Errorf("reason %d = %q, want it to mention %q", i, rec.Reasons[i], c)
		}
	}
	if !strings.Contains(rec.Summary, "S7") || !strings.Contains(rec.Summary, "100.00/100") {
		t.Errorf("Summary = %q", rec.Summary)
	}

	if Recommend(nil, 0.13) != nil {
		t.Error("Recommend(nil) should be nil")
	}
}

func TestRecommendNegativeNPV(t *testing.T) {
	m := scenario("9", -10, 0, nil, nil, 100, 50)
	rec := Recommend(Rank([]models.ScenarioMetrics{m}), 0.13)
	if !strings.HasPrefix(rec.Reasons[0], "Warning") {
		t.Errorf("first reason = %q, want warning", rec.Reasons[0])
	}
	if !strings.Contains(rec.Reasons[2], "balanced at 2.00x") {
		t.Errorf("ratio reason = %q", rec.Reasons[2])
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]models.ScenarioMetrics{
		scenario("1", 100, 0, nil, nil, 10, 0),
		scenario("2", -50, 0, nil, nil, 30, 0),
	})
	if stats.Count != 2 || stats.AvgNPV != 25 || stats.MaxNPV != 100 || stats.MinNPV != -50 {
		t.Errorf("Summarize() = %+v", stats)
	}
	if stats.AvgCapex != 20 || stats.AvgRevenue != 80 || stats.PositiveNPVs != 1 {
		t.Errorf("Summarize() = %+v", stats)
	}
	if empty := Summarize(nil); empty.Count != 0 {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}
