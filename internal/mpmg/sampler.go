// Package mpmg implements the Minimum Price Markov Game: a repeated
// procurement auction in which agents choose between a fair cost-based bid
// and a collusive inflated bid, with payoffs shaped by heterogeneous
// market power.
package mpmg

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
)

const (
	// maxSampleAttempts bounds the rejection loop. Exhausting it means the
	// requested spread is unattainable (or nearly so) for this agent count.
	maxSampleAttempts = 10000

	// stdTolerance is the accepted relative deviation between the realized
	// and requested standard deviation of a market-power draw.
	stdTolerance = 0.1

	// minConcentration keeps the Dirichlet concentration positive when the
	// requested spread approaches its theoretical maximum sqrt(n-1)/n.
	minConcentration = 1e-6
)

// BetaSampler draws market-power vectors from the probability simplex with a
// target dispersion. Each sampler owns its random source, so independent
// environments never share mutable random state.
type BetaSampler struct {
	src *rand.Rand
}

// NewBetaSampler returns a sampler backed by a generator seeded with seed.
func NewBetaSampler(seed uint64) *BetaSampler {
	return &BetaSampler{src: rand.New(rand.NewSource(seed))}
}

// SampleBeta draws n market-power values in (0,1) that sum to 1 and whose
// population standard deviation is within tolerance of sigma. A sigma of
// zero yields the uniform vector exactly. Draws come from a symmetric
// Dirichlet whose concentration is derived from sigma, rejection-resampled
// until the dispersion constraint holds.
func (s *BetaSampler) SampleBeta(n int, sigma float64) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: num agents %d, want at least 1", ErrConfig, n)
	}
	if sigma < 0 || sigma > 1 {
		return nil, fmt.Errorf("%w: sigma_beta %v outside [0,1]", ErrConfig, sigma)
	}

	beta := make([]float64, n)
	if sigma == 0 || n == 1 {
		for i := range beta {
			beta[i] = 1 / float64(n)
		}
		return beta, nil
	}

	dir := distmv.NewDirichlet(symmetricAlpha(n, concentration(n, sigma)), s.src)
	for attempt := 0; attempt < maxSampleAttempts; attempt++ {
		dir.Rand(beta)
		// Guard against components pinned to the boundary by underflow.
		floats.Scale(1/floats.Sum(beta), beta)
		if !openUnit(beta) {
			continue
		}
		if math.Abs(stat.PopStdDev(beta, nil)-sigma) <= stdTolerance*sigma {
			return beta, nil
		}
	}
	return nil, fmt.Errorf("%w: no market-power vector with std %v found for %d agents in %d attempts",
		ErrConfig, sigma, n, maxSampleAttempts)
}

// concentration inverts the symmetric-Dirichlet variance formula so that the
// expected population variance of a draw equals sigma^2:
//
//	Var(x_i) = (1/n)(1-1/n) / (a*n + 1)  =>  a = ((n-1)/(n^2 s^2) - 1) / n
//
// Near the theoretical maximum spread the formula turns non-positive; it is
// clamped and the rejection cap decides whether sigma is attainable.
func concentration(n int, sigma float64) float64 {
	nf := float64(n)
	a := ((nf-1)/(nf*nf*sigma*sigma) - 1) / nf
	if a < minConcentration {
		return minConcentration
	}
	return a
}

func symmetricAlpha(n int, a float64) []float64 {
	alpha := make([]float64, n)
	for i := range alpha {
		alpha[i] = a
	}
	return alpha
}

func openUnit(x []float64) bool {
	for _, v := range x {
		if v <= 0 || v >= 1 {
			return false
		}
	}
	return true
}
