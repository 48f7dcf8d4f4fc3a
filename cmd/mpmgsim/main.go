// Command mpmgsim runs Minimum Price Markov Game experiments: learning
// agents repeatedly bid on a procurement contract and the run records how
// often they settle into collusion.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/profile"

	"github.com/talgya/mpmg/internal/config"
	"github.com/talgya/mpmg/internal/entropy"
	"github.com/talgya/mpmg/internal/mpmg"
	"github.com/talgya/mpmg/internal/persistence"
	"github.com/talgya/mpmg/internal/policy"
	"github.com/talgya/mpmg/internal/report"
	"github.com/talgya/mpmg/internal/runner"
)

func main() {
	profileCPU := flag.Bool("profile", false, "write a CPU profile to the working directory")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *profileCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// ── Environment ──────────────────────────────────────────────────
	env, err := mpmg.New(mpmg.Config{
		NumAgents:     cfg.NumAgents,
		SigmaBeta:     cfg.SigmaBeta,
		Alpha:         cfg.Alpha,
		ContractValue: cfg.ContractValue,
		EpisodeLength: cfg.EpisodeLength,
		Seed:          cfg.Seed,
	})
	if err != nil {
		slog.Error("failed to build environment", "error", err)
		os.Exit(1)
	}
	slog.Info("environment ready",
		"num_agents", env.NumAgents(),
		"sigma_beta", env.SigmaBeta(),
		"alpha", env.Alpha(),
		"contract_value", env.ContractValue(),
		"state_size", env.StateSize(),
		"seed", env.Seed(),
	)

	// ── Database ─────────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.DBPath != "" {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			os.MkdirAll(dir, 0755)
		}
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", cfg.DBPath)
	}

	// ── Run ──────────────────────────────────────────────────────────
	run := &runner.Runner{
		Env:      env,
		Policies: buildPolicies(cfg, env.NumAgents()),
		Episodes: cfg.Episodes,
		Steps:    cfg.EpisodeLength,
		DB:       db,
		LogEvery: cfg.LogEvery,
	}
	summary, err := run.Run()
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, summary); err != nil {
			slog.Error("failed to write report", "error", err)
			os.Exit(1)
		}
		slog.Info("report written", "path", cfg.ReportPath)
	}

	printSummary(summary)
}

// buildPolicies gives every agent the configured policy kind, each with its
// own derived seed so agents never share a generator.
func buildPolicies(cfg config.Config, n int) []policy.Policy {
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.Seed()
	}
	policies := make([]policy.Policy, n)
	for i := range policies {
		agentSeed := int64(seed) + int64(i) + 1
		switch cfg.Policy {
		case config.PolicyBandit:
			policies[i] = policy.NewEpsilonGreedy(cfg.Epsilon, agentSeed)
		case config.PolicyRandom:
			policies[i] = policy.NewRandom(agentSeed)
		case config.PolicyFair:
			policies[i] = policy.NewAlwaysFair()
		case config.PolicyCollusive:
			policies[i] = policy.NewAlwaysCollusive()
		default:
			policies[i] = policy.NewQLearner(cfg.LearningRate, cfg.Discount, cfg.Epsilon, agentSeed)
		}
	}
	return policies
}

func printSummary(summary *runner.Summary) {
	rate := summary.FinalCollusionRate()
	verdict := aurora.Green("competitive")
	if rate >= 0.5 {
		verdict = aurora.Red("collusive")
	}

	fmt.Println()
	fmt.Println(aurora.Bold("run"), summary.RunID)
	fmt.Printf("%s episodes, %s rounds played\n",
		humanize.Comma(int64(len(summary.Episodes))),
		humanize.Comma(int64(summary.TotalSteps)),
	)
	last := summary.Episodes[len(summary.Episodes)-1]
	for i, mean := range last.MeanRewards {
		fmt.Printf("agent %d (%s): final mean reward %.4f\n", i, summary.Policies[i], mean)
	}
	fmt.Printf("final collusion rate %.2f, market looks %s\n", rate, verdict)
}
