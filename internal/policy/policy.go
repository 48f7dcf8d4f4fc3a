// Package policy provides baseline action-selection strategies for the
// minimum price game: fixed bidders, a random bidder, a sample-average
// bandit, and a tabular Q-learner conditioned on the previous joint profile.
package policy

import (
	"fmt"
	"math/rand"

	"github.com/talgya/mpmg/internal/mpmg"
)

// StateNone is the state presented before the first round of an episode,
// when no joint profile has been observed yet.
const StateNone = -1

// A Policy selects between the fair and collusive strategies each round.
// Policies are driven per agent: each sees only its own action and reward.
type Policy interface {
	Name() string

	// SelectAction picks a strategy given the index of the joint profile
	// played in the previous round (StateNone at the start of an episode).
	SelectAction(state int) int

	// Observe feeds back the outcome of one round so learning policies can
	// update their estimates.
	Observe(state, action int, reward float64, next int)

	// Reset clears per-episode bookkeeping. Learned values survive so a
	// policy can improve across episodes.
	Reset()
}

// Fixed always plays the same strategy.
type Fixed struct {
	name   string
	action int
}

// NewAlwaysFair returns a policy that always bids the fair price.
func NewAlwaysFair() *Fixed {
	return &Fixed{name: "always-fair", action: mpmg.FairPrice}
}

// NewAlwaysCollusive returns a policy that always bids the collusive price.
func NewAlwaysCollusive() *Fixed {
	return &Fixed{name: "always-collusive", action: mpmg.CollusivePrice}
}

func (f *Fixed) Name() string { return f.name }

func (f *Fixed) SelectAction(int) int { return f.action }

func (f *Fixed) Observe(state, action int, reward float64, next int) {}

func (f *Fixed) Reset() {}

// Random plays each strategy with equal probability.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a uniformly random policy with its own generator.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (p *Random) Name() string { return "random" }

func (p *Random) SelectAction(int) int {
	return p.rng.Intn(2)
}

func (p *Random) Observe(state, action int, reward float64, next int) {}

func (p *Random) Reset() {}

// EpsilonGreedy is a stateless sample-average bandit: it tracks the mean
// reward of each strategy and exploits the better one, exploring with
// probability epsilon.
type EpsilonGreedy struct {
	epsilon float64
	rng     *rand.Rand
	sums    [2]float64
	counts  [2]int
}

// NewEpsilonGreedy returns a bandit with the given exploration rate.
func NewEpsilonGreedy(epsilon float64, seed int64) *EpsilonGreedy {
	return &EpsilonGreedy{epsilon: epsilon, rng: rand.New(rand.NewSource(seed))}
}

func (p *EpsilonGreedy) Name() string {
	return fmt.Sprintf("epsilon-greedy-%g", p.epsilon)
}

func (p *EpsilonGreedy) SelectAction(int) int {
	if p.rng.Float64() < p.epsilon {
		return p.rng.Intn(2)
	}
	return argmax(p.estimate(mpmg.FairPrice), p.estimate(mpmg.CollusivePrice))
}

func (p *EpsilonGreedy) Observe(state, action int, reward float64, next int) {
	p.sums[action] += reward
	p.counts[action]++
}

func (p *EpsilonGreedy) Reset() {}

func (p *EpsilonGreedy) estimate(action int) float64 {
	if p.counts[action] == 0 {
		return 0
	}
	return p.sums[action] / float64(p.counts[action])
}

// QLearner is a tabular Q-learner whose state is the joint profile of the
// previous round, a Markov abstraction of the opponents' observable play.
type QLearner struct {
	learningRate float64
	discount     float64
	epsilon      float64
	rng          *rand.Rand
	q            map[int]*[2]float64
}

// NewQLearner returns a Q-learner with the given hyperparameters.
func NewQLearner(learningRate, discount, epsilon float64, seed int64) *QLearner {
	return &QLearner{
		learningRate: learningRate,
		discount:     discount,
		epsilon:      epsilon,
		rng:          rand.New(rand.NewSource(seed)),
		q:            make(map[int]*[2]float64),
	}
}

func (p *QLearner) Name() string { return "q-learning" }

func (p *QLearner) SelectAction(state int) int {
	if p.rng.Float64() < p.epsilon {
		return p.rng.Intn(2)
	}
	values := p.values(state)
	return argmax(values[mpmg.FairPrice], values[mpmg.CollusivePrice])
}

func (p *QLearner) Observe(state, action int, reward float64, next int) {
	values := p.values(state)
	nextValues := p.values(next)
	best := nextValues[0]
	if nextValues[1] > best {
		best = nextValues[1]
	}
	target := reward + p.discount*best
	values[action] += p.learningRate * (target - values[action])
}

func (p *QLearner) Reset() {}

// Q reports the learned value of playing action in state, for inspection.
func (p *QLearner) Q(state, action int) float64 {
	return p.values(state)[action]
}

func (p *QLearner) values(state int) *[2]float64 {
	v, ok := p.q[state]
	if !ok {
		v = &[2]float64{}
		p.q[state] = v
	}
	return v
}

func argmax(fair, collusive float64) int {
	if collusive > fair {
		return mpmg.CollusivePrice
	}
	return mpmg.FairPrice
}
