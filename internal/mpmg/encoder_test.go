package mpmg

import (
	"math"
	"testing"
)

func TestProfileIndexAgentZeroMostSignificant(t *testing.T) {
	cases := []struct {
		profile []int
		want    int
	}{
		{[]int{FairPrice, FairPrice}, 0},
		{[]int{FairPrice, CollusivePrice}, 1},
		{[]int{CollusivePrice, FairPrice}, 2},
		{[]int{CollusivePrice, CollusivePrice}, 3},
		{[]int{CollusivePrice, FairPrice, CollusivePrice}, 5},
	}
	for _, tc := range cases {
		if got := ProfileIndex(tc.profile); got != tc.want {
			t.Fatalf("ProfileIndex(%v) = %d, want %d", tc.profile, got, tc.want)
		}
	}
}

func TestEncoderFrequencies(t *testing.T) {
	e := NewStateEncoder(2)
	beta := []float64{0.5, 0.5}

	obs := e.Encode(beta)
	if len(obs) != 2+4+2 {
		t.Fatalf("observation length = %d, want 8", len(obs))
	}
	for i := 0; i < 6; i++ {
		if obs[i] != 0 {
			t.Fatalf("fresh encoder obs[%d] = %v, want 0", i, obs[i])
		}
	}
	if obs[6] != 0.5 || obs[7] != 0.5 {
		t.Fatalf("beta tail = %v, want [0.5 0.5]", obs[6:])
	}

	// Agent 0 colludes twice out of four rounds, agent 1 once.
	e.Update([]int{CollusivePrice, CollusivePrice}) // index 3
	e.Update([]int{CollusivePrice, FairPrice})      // index 2
	e.Update([]int{FairPrice, FairPrice})           // index 0
	e.Update([]int{FairPrice, FairPrice})           // index 0

	obs = e.Encode(beta)
	if obs[0] != 0.5 || obs[1] != 0.25 {
		t.Fatalf("action frequencies = %v, want [0.5 0.25]", obs[:2])
	}
	wantJoint := []float64{0.5, 0, 0.25, 0.25}
	for j, want := range wantJoint {
		if obs[2+j] != want {
			t.Fatalf("joint frequency[%d] = %v, want %v", j, obs[2+j], want)
		}
	}
	sum := 0.0
	for _, f := range obs[2:6] {
		sum += f
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("joint frequencies sum to %v, want 1", sum)
	}
}

func TestEncoderResetZeroesStatistics(t *testing.T) {
	e := NewStateEncoder(2)
	e.Update([]int{CollusivePrice, CollusivePrice})
	e.Update([]int{CollusivePrice, CollusivePrice})
	e.Reset()
	if e.Steps() != 0 {
		t.Fatalf("Steps after Reset = %d, want 0", e.Steps())
	}
	obs := e.Encode([]float64{0.5, 0.5})
	for i := 0; i < 6; i++ {
		if obs[i] != 0 {
			t.Fatalf("obs[%d] after Reset = %v, want 0", i, obs[i])
		}
	}
}
