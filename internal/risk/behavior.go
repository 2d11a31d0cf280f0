package risk

import "context"

// BehaviorCalculator is a binary composite: 50 points for a receiver the
// sender has never paid before, 50 points for a transfer at an hour of day
// the sender rarely uses.
type BehaviorCalculator struct {
	history History
}

func NewBehaviorCalculator(history History) *BehaviorCalculator {
	return &BehaviorCalculator{history: history}
}

func (c *BehaviorCalculator) Name() string    { return "behavior" }
func (c *BehaviorCalculator) Weight() float64 { return WeightBehavior }

func (c *BehaviorCalculator) Evaluate(ctx context.Context, in Input) (Result, error) {
	known, err := c.history.HasPriorTransfer(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return Result{}, err
	}

	hourly, err := c.history.HourlyCounts(ctx, in.SenderID)
	if err != nil {
		return Result{}, err
	}

	total := 0
	for _, n := range hourly {
		total += n
	}
	avgHourly := float64(total) / 24

	hour := in.Timestamp.Hour()
	hourCount := hourly[hour]
	unusualTime := total > 0 && float64(hourCount) < avgHourly/2

	var subScore float64
	result := Result{
		Name: c.Name(),
		Details: map[string]any{
			"new_receiver": !known,
			"unusual_time": unusualTime,
			"hour":         hour,
			"hour_count":   hourCount,
			"avg_hourly":   avgHourly,
		},
		DataPoints: total,
	}

	if !known {
		subScore += 50
		result.Reasons = append(result.Reasons, "first transfer to this receiver")
	}

	if unusualTime {
		subScore += 50
	}

	result.SubScore = subScore
	if subScore > reasonThreshold {
		result.Reasons = append(result.Reasons, "behavioral anomaly: transfer pattern deviates from sender's habits")
	}

	return result, nil
}
