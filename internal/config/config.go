// Package config loads experiment configuration from environment variables,
// with an optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Policy kinds accepted by MPMG_POLICY.
const (
	PolicyQLearning = "qlearning"
	PolicyBandit    = "bandit"
	PolicyRandom    = "random"
	PolicyFair      = "fair"
	PolicyCollusive = "collusive"
)

// Config is the full experiment configuration.
type Config struct {
	NumAgents     int
	SigmaBeta     float64
	Alpha         float64
	ContractValue float64
	Seed          uint64 // 0 draws a fresh seed

	Episodes      int
	EpisodeLength int
	LogEvery      int

	Policy       string // one of the Policy* kinds, applied to every agent
	Epsilon      float64
	LearningRate float64
	Discount     float64

	DBPath     string // empty disables result recording
	ReportPath string // empty disables the HTML report
}

// Load reads the configuration, layering .env (if present) under the real
// environment, and validates the parts the runner needs before the
// environment's own checks run.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Config{
		NumAgents:     envInt("MPMG_NUM_AGENTS", 2),
		SigmaBeta:     envFloat("MPMG_SIGMA_BETA", 0),
		Alpha:         envFloat("MPMG_ALPHA", 1.3),
		ContractValue: envFloat("MPMG_CONTRACT_VALUE", 1),
		Seed:          envUint("MPMG_SEED", 0),
		Episodes:      envInt("MPMG_EPISODES", 500),
		EpisodeLength: envInt("MPMG_EPISODE_LENGTH", 100),
		LogEvery:      envInt("MPMG_LOG_EVERY", 50),
		Policy:        envString("MPMG_POLICY", PolicyQLearning),
		Epsilon:       envFloat("MPMG_EPSILON", 0.1),
		LearningRate:  envFloat("MPMG_LEARNING_RATE", 0.1),
		Discount:      envFloat("MPMG_DISCOUNT", 0.95),
		DBPath:        envString("MPMG_DB_PATH", "data/mpmg.db"),
		ReportPath:    envString("MPMG_REPORT_PATH", "data/report.html"),
	}

	switch cfg.Policy {
	case PolicyQLearning, PolicyBandit, PolicyRandom, PolicyFair, PolicyCollusive:
	default:
		return Config{}, fmt.Errorf("config: unknown policy %q", cfg.Policy)
	}
	if cfg.Episodes <= 0 {
		return Config{}, fmt.Errorf("config: episodes %d, want > 0", cfg.Episodes)
	}
	if cfg.EpisodeLength <= 0 {
		return Config{}, fmt.Errorf("config: episode length %d, want > 0", cfg.EpisodeLength)
	}
	if cfg.Epsilon < 0 || cfg.Epsilon > 1 {
		return Config{}, fmt.Errorf("config: epsilon %v outside [0,1]", cfg.Epsilon)
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envUint(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
