package mpmg

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func TestSampleBetaUniformWhenSigmaZero(t *testing.T) {
	s := NewBetaSampler(1)
	for _, n := range []int{1, 2, 3, 7} {
		beta, err := s.SampleBeta(n, 0)
		if err != nil {
			t.Fatalf("SampleBeta(%d, 0): %v", n, err)
		}
		if len(beta) != n {
			t.Fatalf("len(beta) = %d, want %d", len(beta), n)
		}
		for i, b := range beta {
			if b != 1/float64(n) {
				t.Fatalf("beta[%d] = %v, want exactly %v", i, b, 1/float64(n))
			}
		}
	}
}

func TestSampleBetaHeterogeneous(t *testing.T) {
	s := NewBetaSampler(42)
	cases := []struct {
		n     int
		sigma float64
	}{
		{2, 0.1},
		{2, 0.2},
		{3, 0.15},
		{4, 0.1},
		{5, 0.05},
	}
	for _, tc := range cases {
		beta, err := s.SampleBeta(tc.n, tc.sigma)
		if err != nil {
			t.Fatalf("SampleBeta(%d, %v): %v", tc.n, tc.sigma, err)
		}
		if sum := floats.Sum(beta); math.Abs(sum-1) > 1e-6 {
			t.Fatalf("n=%d sigma=%v: sum = %v, want 1", tc.n, tc.sigma, sum)
		}
		for i, b := range beta {
			if b <= 0 || b >= 1 {
				t.Fatalf("n=%d sigma=%v: beta[%d] = %v outside (0,1)", tc.n, tc.sigma, i, b)
			}
		}
		got := stat.PopStdDev(beta, nil)
		if math.Abs(got-tc.sigma) > stdTolerance*tc.sigma {
			t.Fatalf("n=%d sigma=%v: realized std %v beyond tolerance", tc.n, tc.sigma, got)
		}
	}
}

func TestSampleBetaDeterministicPerSeed(t *testing.T) {
	a, err := NewBetaSampler(7).SampleBeta(3, 0.1)
	if err != nil {
		t.Fatalf("first sample: %v", err)
	}
	b, err := NewBetaSampler(7).SampleBeta(3, 0.1)
	if err != nil {
		t.Fatalf("second sample: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSampleBetaRejectsBadInputs(t *testing.T) {
	s := NewBetaSampler(1)
	if _, err := s.SampleBeta(0, 0); !errors.Is(err, ErrConfig) {
		t.Fatalf("n=0: err = %v, want ErrConfig", err)
	}
	if _, err := s.SampleBeta(2, -0.1); !errors.Is(err, ErrConfig) {
		t.Fatalf("sigma=-0.1: err = %v, want ErrConfig", err)
	}
	if _, err := s.SampleBeta(2, 1.5); !errors.Is(err, ErrConfig) {
		t.Fatalf("sigma=1.5: err = %v, want ErrConfig", err)
	}
}

func TestSampleBetaUnattainableSigmaExhaustsRetries(t *testing.T) {
	// For two agents the population std cannot exceed 0.5, so 0.9 is a
	// legal input with no admissible vector.
	s := NewBetaSampler(1)
	if _, err := s.SampleBeta(2, 0.9); !errors.Is(err, ErrConfig) {
		t.Fatalf("sigma=0.9: err = %v, want ErrConfig", err)
	}
}
