package monitor

import (
	stderrors "errors"
	"time"
)

// ErrDivisionUndefined is returned when a rate is requested over a non-positive window.
// Config validation rejects such intervals, so seeing it indicates a bug.
var ErrDivisionUndefined = stderrors.New("rate window must be longer than zero")

// ErrIndeterminate marks a rate that cannot be known because the counter went
// backwards (wrapped, or the source restarted).
var ErrIndeterminate = stderrors.New("counter decreased; rate indeterminate")

// ErrNoBaseline marks a rate whose earlier sample is missing.
var ErrNoBaseline = stderrors.New("no earlier sample to diff against")

// BitsPerByte scales byte rates to bit rates.
const BitsPerByte = 8

// Rate is the per-second change of a counter between two samples.
type Rate struct {
	PerSecond     float64
	Indeterminate bool
}

// Counter is the set of counter types the sampler accepts.
type Counter interface {
	~uint64 | ~float64
}

// ComputeRate returns (after-before)/elapsed. A decrease yields an
// Indeterminate rate instead of a negative or wrapped figure.
func ComputeRate[T Counter](before, after T, elapsed time.Duration) (Rate, error) {
	if elapsed <= 0 {
		return Rate{}, ErrDivisionUndefined
	}
	if after < before {
		return Rate{Indeterminate: true}, nil
	}
	return Rate{PerSecond: float64(after-before) / elapsed.Seconds()}, nil
}

// Bits converts a byte rate to bits per second.
func (r Rate) Bits() Rate {
	if r.Indeterminate {
		return r
	}
	return Rate{PerSecond: r.PerSecond * BitsPerByte}
}
