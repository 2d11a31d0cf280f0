package risk

import (
	"context"
	"fmt"
)

const frequencyWindowDays = 7

// FrequencyCalculator scores today's transfer count against the sender's
// daily-count distribution over the last week.
type FrequencyCalculator struct {
	history History
}

func NewFrequencyCalculator(history History) *FrequencyCalculator {
	return &FrequencyCalculator{history: history}
}

func (c *FrequencyCalculator) Name() string    { return "frequency" }
func (c *FrequencyCalculator) Weight() float64 { return WeightFrequency }

func (c *FrequencyCalculator) Evaluate(ctx context.Context, in Input) (Result, error) {
	counts, err := c.history.DailyCounts(ctx, in.SenderID, frequencyWindowDays)
	if err != nil {
		return Result{}, err
	}

	daily := make([]float64, len(counts))
	for i, n := range counts {
		daily[i] = float64(n)
	}

	var today float64
	if len(daily) > 0 {
		today = daily[len(daily)-1]
	}

	mean := Mean(daily)
	stddev := StdDev(daily, mean)
	z := ZScore(today, mean, stddev)
	subScore := Normalize(z) * 100

	result := Result{
		Name:     c.Name(),
		SubScore: subScore,
		Details: map[string]any{
			"today_count":  int(today),
			"daily_mean":   mean,
			"daily_stddev": stddev,
			"z_score":      z,
		},
	}

	if subScore > reasonThreshold {
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"unusual daily frequency: %d transfers today, z-score %.2f against the 7-day distribution",
			int(today), z))
	}

	return result, nil
}
