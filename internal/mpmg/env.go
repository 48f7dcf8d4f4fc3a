package mpmg

import (
	"fmt"

	"github.com/talgya/mpmg/internal/entropy"
)

const (
	// maxAlpha is the realism cap on the collusive markup: inflating a bid
	// beyond twice the fair price is rejected as a configuration error.
	maxAlpha = 2.0

	// maxAgents bounds n because the observation carries one frequency per
	// joint profile, which is exponential in the agent count.
	maxAgents = 16
)

// Config holds the fixed parameters of an environment instance.
type Config struct {
	NumAgents     int     // agents in the game, at least 1
	SigmaBeta     float64 // target market-power heterogeneity in [0,1]
	Alpha         float64 // collusive multiplier, in (1, maxAlpha]
	ContractValue float64 // value of the procurement contract, > 0
	EpisodeLength int     // steps before done is reported; 0 means never
	Seed          uint64  // random seed; 0 draws a fresh seed from entropy
}

// DefaultConfig returns the two-agent homogeneous game with a 30% collusive
// markup on a unit contract.
func DefaultConfig() Config {
	return Config{
		NumAgents:     2,
		SigmaBeta:     0,
		Alpha:         1.3,
		ContractValue: 1,
	}
}

// Environment is the Minimum Price Markov Game. It is synchronous and
// single-threaded; concurrent use requires fully independent instances.
type Environment struct {
	cfg     Config
	seed    uint64
	sampler *BetaSampler
	encoder *StateEncoder
	beta    []float64
	ready   bool
}

// New validates cfg and returns an environment in the unreset state. Reset
// must be called before the first Step.
func New(cfg Config) (*Environment, error) {
	if cfg.NumAgents < 1 || cfg.NumAgents > maxAgents {
		return nil, fmt.Errorf("%w: num agents %d, want 1..%d", ErrConfig, cfg.NumAgents, maxAgents)
	}
	if cfg.SigmaBeta < 0 || cfg.SigmaBeta > 1 {
		return nil, fmt.Errorf("%w: sigma_beta %v outside [0,1]", ErrConfig, cfg.SigmaBeta)
	}
	if cfg.Alpha <= 1 || cfg.Alpha > maxAlpha {
		return nil, fmt.Errorf("%w: alpha %v, want in (1, %v]", ErrConfig, cfg.Alpha, maxAlpha)
	}
	if cfg.ContractValue <= 0 {
		return nil, fmt.Errorf("%w: contract value %v, want > 0", ErrConfig, cfg.ContractValue)
	}
	if cfg.EpisodeLength < 0 {
		return nil, fmt.Errorf("%w: episode length %d, want >= 0", ErrConfig, cfg.EpisodeLength)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.Seed()
	}
	return &Environment{
		cfg:     cfg,
		seed:    seed,
		sampler: NewBetaSampler(seed),
		encoder: NewStateEncoder(cfg.NumAgents),
	}, nil
}

// Reset begins a fresh episode: it samples a new market-power vector, zeroes
// the running statistics, and returns the initial observation.
func (env *Environment) Reset() ([]float64, error) {
	beta, err := env.sampler.SampleBeta(env.cfg.NumAgents, env.cfg.SigmaBeta)
	if err != nil {
		return nil, err
	}
	env.beta = beta
	env.encoder.Reset()
	env.ready = true
	return env.encoder.Encode(env.beta), nil
}

// Step plays one round. It computes each agent's reward for the given joint
// action profile, folds the profile into the running statistics, and returns
// the rewards, the next observation, and whether the configured episode
// length has been reached. On error no state is mutated.
func (env *Environment) Step(actions []int) ([]float64, []float64, bool, error) {
	if !env.ready {
		return nil, nil, false, fmt.Errorf("%w: Step called before Reset", ErrUsage)
	}
	rewards, err := Payoff(actions, env.beta, env.cfg.ContractValue, env.cfg.Alpha)
	if err != nil {
		return nil, nil, false, err
	}
	env.encoder.Update(actions)
	done := env.cfg.EpisodeLength > 0 && env.encoder.Steps() >= env.cfg.EpisodeLength
	return rewards, env.encoder.Encode(env.beta), done, nil
}

// NumAgents returns the configured agent count.
func (env *Environment) NumAgents() int { return env.cfg.NumAgents }

// SigmaBeta returns the configured market-power heterogeneity.
func (env *Environment) SigmaBeta() float64 { return env.cfg.SigmaBeta }

// Alpha returns the collusive multiplier.
func (env *Environment) Alpha() float64 { return env.cfg.Alpha }

// ContractValue returns the contract value.
func (env *Environment) ContractValue() float64 { return env.cfg.ContractValue }

// Seed returns the seed actually in use, whether configured or drawn.
func (env *Environment) Seed() uint64 { return env.seed }

// ActionSize is the number of strategies available to each agent.
func (env *Environment) ActionSize() int { return 2 }

// JointActionSize is the number of distinct joint strategy profiles.
func (env *Environment) JointActionSize() int { return 1 << env.cfg.NumAgents }

// BetaSize is the length of the market-power vector.
func (env *Environment) BetaSize() int { return env.cfg.NumAgents }

// StateSize is the observation length: action frequencies, joint-profile
// frequencies, and the market-power vector.
func (env *Environment) StateSize() int {
	return env.cfg.NumAgents + env.JointActionSize() + env.cfg.NumAgents
}

// Beta returns a copy of the current market-power vector, or nil before the
// first Reset.
func (env *Environment) Beta() []float64 {
	if env.beta == nil {
		return nil
	}
	out := make([]float64, len(env.beta))
	copy(out, env.beta)
	return out
}
