package risk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Factor weights. They must sum to 1.0; amount carries the largest weight
// because amount deviation is the strongest deterministic signal.
const (
	WeightVelocity  = 0.35
	WeightAmount    = 0.40
	WeightFrequency = 0.15
	WeightBehavior  = 0.10
)

// reasonThreshold is the sub-score above which a factor attaches a reason.
const reasonThreshold = 70.0

// TransferStat is a single historical transfer as seen by the calculators.
type TransferStat struct {
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// History gives calculators read-only access to persisted transfer history.
// Implementations may run these queries concurrently with in-flight
// transfers; the queries never need to observe the transfer being scored.
type History interface {
	// CountSince counts transfers sent by senderID at or after since.
	CountSince(ctx context.Context, senderID string, since time.Time) (int, error)
	// RecentTransfers returns up to limit transfers sent by senderID,
	// newest first.
	RecentTransfers(ctx context.Context, senderID string, limit int) ([]TransferStat, error)
	// DailyCounts returns per-day sent counts for the last days days,
	// oldest first, with today as the final bucket.
	DailyCounts(ctx context.Context, senderID string, days int) ([]int, error)
	// HourlyCounts returns sent counts bucketed by hour of day (0-23).
	HourlyCounts(ctx context.Context, senderID string) (map[int]int, error)
	// HasPriorTransfer reports whether senderID has ever sent to receiverID.
	HasPriorTransfer(ctx context.Context, senderID, receiverID string) (bool, error)
}

// Input carries the transfer under evaluation.
type Input struct {
	SenderID   string
	ReceiverID string
	Amount     decimal.Decimal
	Timestamp  time.Time
}

// Result is a single factor's contribution to the assessment.
type Result struct {
	Name     string
	SubScore float64 // 0..100
	Reasons  []string
	Details  map[string]any
	// DataPoints is the number of history rows this factor consulted,
	// for factors that count toward the confidence estimate.
	DataPoints int
}

// Calculator computes one independent statistical risk factor.
type Calculator interface {
	Name() string
	Weight() float64
	Evaluate(ctx context.Context, in Input) (Result, error)
}
