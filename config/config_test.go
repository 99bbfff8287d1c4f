package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Solver.MaxIterations != 100 {
		t.Errorf("MaxIterations = %d, want 100", cfg.Solver.MaxIterations)
	}
	if cfg.Solver.Tolerance != 1e-6 {
		t.Errorf("Tolerance = %v, want 1e-6", cfg.Solver.Tolerance)
	}
	if cfg.Defaults.PumpEfficiency != 0.75 {
		t.Errorf("PumpEfficiency = %v, want 0.75", cfg.Defaults.PumpEfficiency)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Solver.MaxIterations != 100 {
		t.Errorf("MaxIterations = %d, want default 100", cfg.Solver.MaxIterations)
	}
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flowsheet.toml")
	content := "[solver]\nmax_iterations = 25\ntolerance = 1e-4\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Solver.MaxIterations != 25 {
		t.Errorf("MaxIterations = %d, want 25", cfg.Solver.MaxIterations)
	}
	if cfg.Solver.Tolerance != 1e-4 {
		t.Errorf("Tolerance = %v, want 1e-4", cfg.Solver.Tolerance)
	}
	if cfg.Defaults.PumpEfficiency != 0.75 {
		t.Errorf("PumpEfficiency = %v, want default 0.75 unchanged", cfg.Defaults.PumpEfficiency)
	}
}
