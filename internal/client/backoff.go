package client

import (
	"math"
	"time"
)

type backoffCalculator func(baseDelay int64, attempt int) int64

const (
	BackoffTypeFixed       = "fixed"
	BackoffTypeLinear      = "linear"
	BackoffTypeExponential = "exponential"
)

var backoffCalculators = map[string]backoffCalculator{
	BackoffTypeFixed: func(base int64, _ int) int64 {
		return base
	},
	BackoffTypeLinear: func(base int64, attempt int) int64 {
		return base * int64(attempt+1)
	},
	BackoffTypeExponential: func(base int64, attempt int) int64 {
		multiplier := math.Pow(2, float64(attempt))
		return int64(float64(base) * multiplier)
	},
}

// RetryConfig bounds how transport failures are retried. Delays are in
// milliseconds
type RetryConfig struct {
	BackoffType string
	MaxRetries  int
	InitBackoff int64
	MaxBackoff  int64
}

// DefaultRetryConfig retries twice with exponential backoff from 200ms
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  2,
		InitBackoff: 200,
		MaxBackoff:  2000,
		BackoffType: BackoffTypeExponential,
	}
}

func (rc RetryConfig) delayFor(attempt int) time.Duration {
	calculator, ok := backoffCalculators[rc.BackoffType]
	if !ok {
		calculator = backoffCalculators[BackoffTypeFixed]
	}
	delay := min(calculator(rc.InitBackoff, attempt), rc.MaxBackoff)
	return time.Duration(delay) * time.Millisecond
}
