package risk_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/risk"
)

var testNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

// fakeHistory serves calculator queries from an in-memory transfer list.
type fakeHistory struct {
	transfers []risk.TransferStat // newest first
	daily     []int
	receivers map[string]bool
}

func (f *fakeHistory) CountSince(_ context.Context, _ string, since time.Time) (int, error) {
	n := 0
	for _, t := range f.transfers {
		if !t.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeHistory) RecentTransfers(_ context.Context, _ string, limit int) ([]risk.TransferStat, error) {
	if len(f.transfers) <= limit {
		return f.transfers, nil
	}
	return f.transfers[:limit], nil
}

func (f *fakeHistory) DailyCounts(_ context.Context, _ string, days int) ([]int, error) {
	if f.daily != nil {
		return f.daily, nil
	}
	return make([]int, days), nil
}

func (f *fakeHistory) HourlyCounts(_ context.Context, _ string) (map[int]int, error) {
	counts := make(map[int]int)
	for _, t := range f.transfers {
		counts[t.CreatedAt.Hour()]++
	}
	return counts, nil
}

func (f *fakeHistory) HasPriorTransfer(_ context.Context, _, receiverID string) (bool, error) {
	return f.receivers[receiverID], nil
}

// steadyTransfers returns n transfers spaced interval apart, newest first,
// starting age before testNow, with amounts alternating 95/105.
func steadyTransfers(n int, age, interval time.Duration) []risk.TransferStat {
	out := make([]risk.TransferStat, 0, n)
	for i := 0; i < n; i++ {
		amount := decimal.NewFromInt(95)
		if i%2 == 0 {
			amount = decimal.NewFromInt(105)
		}
		out = append(out, risk.TransferStat{
			Amount:    amount,
			CreatedAt: testNow.Add(-age - time.Duration(i)*interval),
		})
	}
	return out
}

func input(amount int64) risk.Input {
	return risk.Input{
		SenderID:   "acc-sender",
		ReceiverID: "acc-receiver",
		Amount:     decimal.NewFromInt(amount),
		Timestamp:  testNow,
	}
}

func TestVelocityEmptyHistoryScoresBaseline(t *testing.T) {
	// A brand-new sender has avg tx/hour 0, so the Poisson stddev is 0 and
	// the z-score collapses to 0 whatever the current window holds.
	calc := risk.NewVelocityCalculator(&fakeHistory{})

	res, err := calc.Evaluate(context.Background(), input(100))
	require.NoError(t, err)

	assert.InDelta(t, 50, res.SubScore, 1e-9)
	assert.Empty(t, res.Reasons)
	assert.Equal(t, 0, res.DataPoints)
}

func TestVelocitySubScoreRisesWithBurst(t *testing.T) {
	// Baseline: one transfer per hour for 100 hours. Each additional
	// transfer inside the current hour pushes the sub-score up.
	base := steadyTransfers(100, time.Hour+time.Minute, time.Hour)

	prev := -1.0
	crossed := false
	for burst := 0; burst <= 6; burst++ {
		transfers := steadyTransfers(burst, time.Minute, time.Second)
		transfers = append(transfers, base...)

		h := &fakeHistory{transfers: transfers}
		calc := risk.NewVelocityCalculator(h)

		res, err := calc.Evaluate(context.Background(), input(100))
		require.NoError(t, err)

		assert.Greater(t, res.SubScore, prev, "burst of %d", burst)
		prev = res.SubScore

		if res.SubScore > 70 {
			crossed = true
			require.NotEmpty(t, res.Reasons)
			assert.Contains(t, res.Reasons[0], "z-score")
		}
	}

	assert.True(t, crossed, "burst never crossed the reason threshold")
}

func TestAmountAnomaly(t *testing.T) {
	h := &fakeHistory{transfers: steadyTransfers(50, 2*time.Hour, time.Hour)}
	calc := risk.NewAmountCalculator(h)

	t.Run("typical amount stays quiet", func(t *testing.T) {
		res, err := calc.Evaluate(context.Background(), input(100))
		require.NoError(t, err)

		assert.Less(t, res.SubScore, 70.0)
		assert.Empty(t, res.Reasons)
		assert.Equal(t, 50, res.DataPoints)
	})

	t.Run("10x mean with low variance flags", func(t *testing.T) {
		res, err := calc.Evaluate(context.Background(), input(1000))
		require.NoError(t, err)

		assert.Greater(t, res.SubScore, 99.0)
		require.NotEmpty(t, res.Reasons)
		assert.Contains(t, res.Reasons[0], "amount anomaly")
	})

	t.Run("empty history pins z to zero", func(t *testing.T) {
		empty := risk.NewAmountCalculator(&fakeHistory{})

		res, err := empty.Evaluate(context.Background(), input(50000))
		require.NoError(t, err)

		assert.InDelta(t, 50, res.SubScore, 1e-9)
		assert.Empty(t, res.Reasons)
	})
}

func TestFrequency(t *testing.T) {
	t.Run("spike today flags", func(t *testing.T) {
		calc := risk.NewFrequencyCalculator(&fakeHistory{daily: []int{1, 1, 1, 1, 1, 1, 8}})

		res, err := calc.Evaluate(context.Background(), input(100))
		require.NoError(t, err)

		assert.Greater(t, res.SubScore, 90.0)
		require.NotEmpty(t, res.Reasons)
		assert.Contains(t, res.Reasons[0], "frequency")
	})

	t.Run("flat week stays quiet", func(t *testing.T) {
		calc := risk.NewFrequencyCalculator(&fakeHistory{daily: []int{2, 2, 2, 2, 2, 2, 2}})

		res, err := calc.Evaluate(context.Background(), input(100))
		require.NoError(t, err)

		assert.InDelta(t, 50, res.SubScore, 1e-9)
		assert.Empty(t, res.Reasons)
	})
}

func TestBehavior(t *testing.T) {
	known := map[string]bool{"acc-receiver": true}
	history := steadyTransfers(48, time.Minute, time.Hour)

	t.Run("known receiver at usual hour scores zero", func(t *testing.T) {
		calc := risk.NewBehaviorCalculator(&fakeHistory{transfers: history, receivers: known})

		res, err := calc.Evaluate(context.Background(), input(100))
		require.NoError(t, err)

		// Two full days of hourly transfers puts two in every bucket, so
		// no hour sits below half the average and the time signal is off.
		assert.Equal(t, 0.0, res.SubScore)
		assert.Empty(t, res.Reasons)
	})

	t.Run("new receiver always carries its reason", func(t *testing.T) {
		calc := risk.NewBehaviorCalculator(&fakeHistory{transfers: history})

		res, err := calc.Evaluate(context.Background(), input(100))
		require.NoError(t, err)

		assert.Equal(t, 50.0, res.SubScore)
		require.Len(t, res.Reasons, 1)
		assert.Contains(t, res.Reasons[0], "first transfer")
	})

	t.Run("new receiver at unusual hour adds generic reason", func(t *testing.T) {
		// All history at 03:00; a 14:00 transfer hits an empty bucket.
		night := make([]risk.TransferStat, 48)
		for i := range night {
			night[i] = risk.TransferStat{
				Amount:    decimal.NewFromInt(100),
				CreatedAt: time.Date(2025, 3, 10-i/10, 3, 0, 0, 0, time.UTC),
			}
		}

		calc := risk.NewBehaviorCalculator(&fakeHistory{transfers: night})

		res, err := calc.Evaluate(context.Background(), input(100))
		require.NoError(t, err)

		assert.Equal(t, 100.0, res.SubScore)
		require.Len(t, res.Reasons, 2)
		assert.Contains(t, res.Reasons[0], "first transfer")
		assert.Contains(t, res.Reasons[1], "behavioral anomaly")
	})
}

func TestAssessNewSenderNewReceiver(t *testing.T) {
	// Scenario: no prior history at all, transfer to an unseen receiver.
	// Every z-score collapses to 0 (sub-score 50) and behavior adds only
	// the new-receiver half, so the transfer lands at ALLOW.
	agg := risk.NewAggregator(&fakeHistory{daily: make([]int, 7)})

	assessment, err := agg.Assess(context.Background(), input(50000))
	require.NoError(t, err)

	assert.InDelta(t, 50, assessment.Score, 1e-9)
	assert.Equal(t, domain.DecisionAllow, assessment.Decision)
	assert.Equal(t, domain.RiskLevelMedium, assessment.Level)
	assert.InDelta(t, 0.5, assessment.Confidence, 1e-9)
	assert.Len(t, assessment.Factors, 4)

	require.NotEmpty(t, assessment.Reasons)
	assert.Contains(t, assessment.Reasons[0], "first transfer")
}

func TestAssessBurstAndAmountAnomalyBlocks(t *testing.T) {
	// Six transfers in the last five minutes on top of a steady history,
	// for an amount 10x the historical mean, to a new receiver.
	transfers := steadyTransfers(6, time.Minute, time.Second)
	transfers = append(transfers, steadyTransfers(48, time.Hour+time.Minute, 2*time.Hour)...)

	agg := risk.NewAggregator(&fakeHistory{
		transfers: transfers,
		daily:     []int{7, 7, 7, 7, 7, 7, 7},
	})

	assessment, err := agg.Assess(context.Background(), input(1000))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, assessment.Score, 80.0)
	assert.Equal(t, domain.DecisionBlock, assessment.Decision)
	assert.Equal(t, domain.RiskLevelCritical, assessment.Level)

	joined := strings.Join(assessment.Reasons, "; ")
	assert.Contains(t, joined, "amount anomaly")
	assert.Contains(t, joined, "velocity")
}

func TestAssessReasonsNeverEmpty(t *testing.T) {
	// All sub-scores at their quiet baseline still yield the default reason.
	agg := risk.NewAggregator(&fakeHistory{
		transfers: steadyTransfers(48, time.Hour, 2*time.Hour),
		daily:     []int{2, 2, 2, 2, 2, 2, 2},
		receivers: map[string]bool{"acc-receiver": true},
	})

	assessment, err := agg.Assess(context.Background(), input(100))
	require.NoError(t, err)

	require.Equal(t, []string{"no significant risk factors"}, assessment.Reasons)
	assert.Equal(t, domain.DecisionAllow, assessment.Decision)
}
