package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NumAgents != 2 {
		t.Fatalf("NumAgents = %d, want 2", cfg.NumAgents)
	}
	if cfg.Alpha != 1.3 {
		t.Fatalf("Alpha = %v, want 1.3", cfg.Alpha)
	}
	if cfg.Policy != PolicyQLearning {
		t.Fatalf("Policy = %q, want %q", cfg.Policy, PolicyQLearning)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MPMG_NUM_AGENTS", "4")
	t.Setenv("MPMG_SIGMA_BETA", "0.2")
	t.Setenv("MPMG_POLICY", "bandit")
	t.Setenv("MPMG_SEED", "77")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NumAgents != 4 {
		t.Fatalf("NumAgents = %d, want 4", cfg.NumAgents)
	}
	if cfg.SigmaBeta != 0.2 {
		t.Fatalf("SigmaBeta = %v, want 0.2", cfg.SigmaBeta)
	}
	if cfg.Policy != PolicyBandit {
		t.Fatalf("Policy = %q, want bandit", cfg.Policy)
	}
	if cfg.Seed != 77 {
		t.Fatalf("Seed = %d, want 77", cfg.Seed)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("MPMG_POLICY", "minimax")
	if _, err := Load(); err == nil {
		t.Fatal("unknown policy accepted")
	}
}
