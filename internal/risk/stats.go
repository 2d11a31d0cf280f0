package risk

import "math"

// Mean returns the arithmetic mean of values, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values around mean.
// Empty input yields 0.
func StdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(values)))
}

// ZScore returns how many standard deviations x lies from mean.
// A zero stddev is defined as z = 0, not an error.
func ZScore(x, mean, stddev float64) float64 {
	if stddev == 0 {
		return 0
	}

	return (x - mean) / stddev
}

// Normalize squashes any real z into (0, 1) with the logistic function.
// Callers multiply by 100 to express a percentage sub-score.
func Normalize(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
