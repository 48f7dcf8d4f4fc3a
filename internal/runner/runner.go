// Package runner drives experiments against the minimum price game: it
// plays a fixed number of episodes with one policy per agent, aggregates
// per-episode statistics, and optionally records them.
package runner

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/mpmg/internal/mpmg"
	"github.com/talgya/mpmg/internal/persistence"
	"github.com/talgya/mpmg/internal/policy"
)

// Runner wires an environment to a set of policies.
type Runner struct {
	Env      *mpmg.Environment
	Policies []policy.Policy
	Episodes int
	Steps    int // rounds per episode

	DB       *persistence.DB // optional; nil disables recording
	LogEvery int             // episodes between progress lines; 0 disables
}

// EpisodeStats aggregates one episode.
type EpisodeStats struct {
	Episode       int
	CollusionRate float64 // fraction of rounds with the full collusive profile
	MeanRewards   []float64
	Beta          []float64
}

// Summary is the outcome of a full run.
type Summary struct {
	RunID      string
	Policies   []string
	Episodes   []EpisodeStats
	TotalSteps int
}

// Run plays all episodes and returns the summary. Each episode resamples the
// market-power vector; learned policy state carries across episodes.
func (r *Runner) Run() (*Summary, error) {
	n := r.Env.NumAgents()
	if len(r.Policies) != n {
		return nil, fmt.Errorf("runner: %d policies for %d agents", len(r.Policies), n)
	}
	if r.Episodes <= 0 || r.Steps <= 0 {
		return nil, fmt.Errorf("runner: episodes %d and steps %d must be positive", r.Episodes, r.Steps)
	}

	summary := &Summary{
		RunID:    uuid.NewString(),
		Policies: policyNames(r.Policies),
	}

	if r.DB != nil {
		err := r.DB.SaveRun(persistence.RunRecord{
			ID:            summary.RunID,
			NumAgents:     n,
			SigmaBeta:     r.Env.SigmaBeta(),
			Alpha:         r.Env.Alpha(),
			ContractValue: r.Env.ContractValue(),
			Seed:          r.Env.Seed(),
			Episodes:      r.Episodes,
			EpisodeLength: r.Steps,
			Policies:      summary.Policies,
		})
		if err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	allCollusive := r.Env.JointActionSize() - 1
	actions := make([]int, n)

	for ep := 0; ep < r.Episodes; ep++ {
		if _, err := r.Env.Reset(); err != nil {
			return nil, fmt.Errorf("episode %d reset: %w", ep, err)
		}
		for _, p := range r.Policies {
			p.Reset()
		}

		state := policy.StateNone
		rewardSums := make([]float64, n)
		collusiveRounds := 0
		steps := 0

		for step := 0; step < r.Steps; step++ {
			for i, p := range r.Policies {
				actions[i] = p.SelectAction(state)
			}
			rewards, _, done, err := r.Env.Step(actions)
			if err != nil {
				return nil, fmt.Errorf("episode %d step %d: %w", ep, step, err)
			}
			next := mpmg.ProfileIndex(actions)
			for i, p := range r.Policies {
				p.Observe(state, actions[i], rewards[i], next)
				rewardSums[i] += rewards[i]
			}
			if next == allCollusive {
				collusiveRounds++
			}
			state = next
			steps++
			if done {
				break
			}
		}

		stats := EpisodeStats{
			Episode:       ep,
			CollusionRate: float64(collusiveRounds) / float64(steps),
			MeanRewards:   rewardSums,
			Beta:          r.Env.Beta(),
		}
		for i := range stats.MeanRewards {
			stats.MeanRewards[i] /= float64(steps)
		}
		summary.Episodes = append(summary.Episodes, stats)
		summary.TotalSteps += steps

		if r.LogEvery > 0 && (ep+1)%r.LogEvery == 0 {
			slog.Info("episode batch",
				"episode", ep+1,
				"collusion_rate", stats.CollusionRate,
				"mean_rewards", stats.MeanRewards,
			)
		}
	}

	if r.DB != nil {
		records := make([]persistence.EpisodeRecord, len(summary.Episodes))
		for i, ep := range summary.Episodes {
			records[i] = persistence.EpisodeRecord{
				Episode:       ep.Episode,
				CollusionRate: ep.CollusionRate,
				MeanRewards:   ep.MeanRewards,
				Beta:          ep.Beta,
			}
		}
		if err := r.DB.SaveEpisodes(summary.RunID, records); err != nil {
			return nil, fmt.Errorf("save episodes: %w", err)
		}
	}

	return summary, nil
}

// FinalCollusionRate averages the collusion rate over the last tenth of the
// run, a rough measure of the behavior policies converged to.
func (s *Summary) FinalCollusionRate() float64 {
	if len(s.Episodes) == 0 {
		return 0
	}
	window := len(s.Episodes) / 10
	if window < 1 {
		window = 1
	}
	total := 0.0
	for _, ep := range s.Episodes[len(s.Episodes)-window:] {
		total += ep.CollusionRate
	}
	return total / float64(window)
}

func policyNames(policies []policy.Policy) []string {
	names := make([]string, len(policies))
	for i, p := range policies {
		names[i] = p.Name()
	}
	return names
}
