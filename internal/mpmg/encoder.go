package mpmg

// StateEncoder tracks running action statistics over an episode and encodes
// them, together with the market-power vector, into the fixed-length
// observation handed back to callers.
type StateEncoder struct {
	numAgents   int
	steps       int
	cpCounts    []int // rounds each agent played CollusivePrice
	jointCounts []int // rounds each joint profile occurred, by ProfileIndex
}

// NewStateEncoder returns an encoder for n agents with zeroed statistics.
func NewStateEncoder(n int) *StateEncoder {
	return &StateEncoder{
		numAgents:   n,
		cpCounts:    make([]int, n),
		jointCounts: make([]int, 1<<n),
	}
}

// Reset zeroes all running statistics.
func (e *StateEncoder) Reset() {
	e.steps = 0
	for i := range e.cpCounts {
		e.cpCounts[i] = 0
	}
	for i := range e.jointCounts {
		e.jointCounts[i] = 0
	}
}

// Update folds one joint action profile into the running statistics. The
// profile must already be validated.
func (e *StateEncoder) Update(profile []int) {
	e.steps++
	for i, s := range profile {
		if s == CollusivePrice {
			e.cpCounts[i]++
		}
	}
	e.jointCounts[ProfileIndex(profile)]++
}

// Steps reports how many profiles have been folded in since the last Reset.
func (e *StateEncoder) Steps() int {
	return e.steps
}

// Encode returns the observation vector: per-agent collusive-play
// frequencies, joint-profile frequencies, then beta. Frequencies are zero
// before the first Update of an episode.
func (e *StateEncoder) Encode(beta []float64) []float64 {
	n := e.numAgents
	obs := make([]float64, n+len(e.jointCounts)+n)
	if e.steps > 0 {
		total := float64(e.steps)
		for i, c := range e.cpCounts {
			obs[i] = float64(c) / total
		}
		for j, c := range e.jointCounts {
			obs[n+j] = float64(c) / total
		}
	}
	copy(obs[n+len(e.jointCounts):], beta)
	return obs
}

// ProfileIndex maps a joint strategy profile to its index in the
// joint-profile frequency vector, reading the profile as a base-2 number
// with agent 0 as the most significant bit. (FP,CP) for two agents is 0b01.
func ProfileIndex(profile []int) int {
	idx := 0
	for _, s := range profile {
		idx = idx<<1 | s
	}
	return idx
}
