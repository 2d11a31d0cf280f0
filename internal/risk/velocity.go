package risk

import (
	"context"
	"fmt"
	"math"
	"time"
)

const velocityHistoryLimit = 100

// VelocityCalculator scores how fast the sender is issuing transfers
// relative to their historical rate. The expected spread is approximated
// Poisson-style as sqrt(mean rate).
type VelocityCalculator struct {
	history History
}

func NewVelocityCalculator(history History) *VelocityCalculator {
	return &VelocityCalculator{history: history}
}

func (c *VelocityCalculator) Name() string    { return "velocity" }
func (c *VelocityCalculator) Weight() float64 { return WeightVelocity }

func (c *VelocityCalculator) Evaluate(ctx context.Context, in Input) (Result, error) {
	count5m, err := c.history.CountSince(ctx, in.SenderID, in.Timestamp.Add(-5*time.Minute))
	if err != nil {
		return Result{}, err
	}

	count1h, err := c.history.CountSince(ctx, in.SenderID, in.Timestamp.Add(-time.Hour))
	if err != nil {
		return Result{}, err
	}

	count24h, err := c.history.CountSince(ctx, in.SenderID, in.Timestamp.Add(-24*time.Hour))
	if err != nil {
		return Result{}, err
	}

	recent, err := c.history.RecentTransfers(ctx, in.SenderID, velocityHistoryLimit)
	if err != nil {
		return Result{}, err
	}

	// Historical transfers-per-hour over the span of the recent window.
	var avgPerHour float64
	if len(recent) > 0 {
		oldest := recent[len(recent)-1].CreatedAt
		span := in.Timestamp.Sub(oldest).Hours()
		if span < 1 {
			span = 1
		}
		avgPerHour = float64(len(recent)) / span
	}

	// With no prior history avgPerHour is 0, which forces stddev to 0 and
	// the z-score to 0 regardless of the current burst. Carried over as
	// observed behavior pending a product decision.
	stddev := math.Sqrt(avgPerHour)
	z := ZScore(float64(count1h), avgPerHour, stddev)
	subScore := Normalize(z) * 100

	result := Result{
		Name:     c.Name(),
		SubScore: subScore,
		Details: map[string]any{
			"count_5m":     count5m,
			"count_1h":     count1h,
			"count_24h":    count24h,
			"avg_per_hour": avgPerHour,
			"z_score":      z,
		},
		DataPoints: len(recent),
	}

	if subScore > reasonThreshold {
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"unusual transfer velocity: %d transfers in the last hour, z-score %.2f against %.2f/hour average",
			count1h, z, avgPerHour))
	}

	return result, nil
}
