package risk

import (
	"context"
	"fmt"
)

const amountHistoryLimit = 50

// AmountCalculator scores how far the current amount deviates from the
// sender's recent transfer amounts.
type AmountCalculator struct {
	history History
}

func NewAmountCalculator(history History) *AmountCalculator {
	return &AmountCalculator{history: history}
}

func (c *AmountCalculator) Name() string    { return "amount" }
func (c *AmountCalculator) Weight() float64 { return WeightAmount }

func (c *AmountCalculator) Evaluate(ctx context.Context, in Input) (Result, error) {
	recent, err := c.history.RecentTransfers(ctx, in.SenderID, amountHistoryLimit)
	if err != nil {
		return Result{}, err
	}

	amounts := make([]float64, len(recent))
	for i, t := range recent {
		amounts[i] = t.Amount.InexactFloat64()
	}

	mean := Mean(amounts)
	stddev := StdDev(amounts, mean)
	// Empty or constant history gives stddev 0, which pins z to 0: a first
	// transfer can never trip the amount factor on its own.
	z := ZScore(in.Amount.InexactFloat64(), mean, stddev)
	subScore := Normalize(z) * 100

	result := Result{
		Name:     c.Name(),
		SubScore: subScore,
		Details: map[string]any{
			"amount":       in.Amount.InexactFloat64(),
			"mean_amount":  mean,
			"stddev":       stddev,
			"z_score":      z,
			"sample_count": len(amounts),
		},
		DataPoints: len(amounts),
	}

	if subScore > reasonThreshold {
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"amount anomaly: %s is %.2f standard deviations above the recent mean %.2f",
			in.Amount.String(), z, mean))
	}

	return result, nil
}
