package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// parseServeFlags returns a serve command with the given flags parsed.
func parseServeFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := NewServeCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return cmd
}

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "serve" {
			t.Errorf("expected use 'serve', got %q", cmd.Use)
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has addr flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("addr")
		if flag == nil {
			t.Fatal("expected addr flag")
		}
		if flag.Shorthand != "a" {
			t.Errorf("expected shorthand 'a', got %q", flag.Shorthand)
		}
	})

	t.Run("has salt flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("salt")
		if flag == nil {
			t.Fatal("expected salt flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
		if flag.DefValue != "" {
			t.Errorf("expected empty default, got %q", flag.DefValue)
		}
	})

	t.Run("has graph shape flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"branching", "max-depth", "cycle-length"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has delay flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"delay-min", "delay-max", "delay-after-depth"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})
}

// TestBuildServeConfig tests config assembly from flags and files.
func TestBuildServeConfig(t *testing.T) {
	t.Parallel()

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()
		cmd := parseServeFlags(t,
			"--addr", ":9999",
			"--salt", "flag-salt",
			"--branching", "5",
			"--delay-max", "7s",
			"--rich",
			"--no-tracking",
		)

		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != ":9999" {
			t.Errorf("expected addr :9999, got %q", cfg.Addr)
		}
		if cfg.Salt != "flag-salt" {
			t.Errorf("expected salt from flag, got %q", cfg.Salt)
		}
		if cfg.Branching != 5 {
			t.Errorf("expected branching 5, got %d", cfg.Branching)
		}
		if cfg.DelayMax != 7*time.Second {
			t.Errorf("expected delay max 7s, got %v", cfg.DelayMax)
		}
		if !cfg.RichContent {
			t.Error("expected rich content")
		}
		if cfg.TrackingEnabled {
			t.Error("expected tracking disabled")
		}
	})

	t.Run("config file values apply", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".tsukuyomi")
		content := strings.Join([]string{
			`addr: ":7070"`,
			`salt: "file-salt"`,
			`branching_factor: 4`,
			`delay_min: "50ms"`,
		}, "\n")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := buildServeConfig(parseServeFlags(t, "-c", path))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != ":7070" {
			t.Errorf("expected addr from file, got %q", cfg.Addr)
		}
		if cfg.Salt != "file-salt" {
			t.Errorf("expected salt from file, got %q", cfg.Salt)
		}
		if cfg.Branching != 4 {
			t.Errorf("expected branching 4, got %d", cfg.Branching)
		}
		if cfg.DelayMin != 50*time.Millisecond {
			t.Errorf("expected delay min 50ms, got %v", cfg.DelayMin)
		}
	})

	t.Run("explicit flags win over the file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".tsukuyomi")
		if err := os.WriteFile(path, []byte("branching_factor: 4\nsalt: file-salt\n"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := buildServeConfig(parseServeFlags(t, "-c", path, "--branching", "12"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Branching != 12 {
			t.Errorf("expected flag to win with branching 12, got %d", cfg.Branching)
		}
		if cfg.Salt != "file-salt" {
			t.Errorf("expected untouched file salt, got %q", cfg.Salt)
		}
	})

	t.Run("missing explicit config file errors", func(t *testing.T) {
		t.Parallel()
		_, err := buildServeConfig(parseServeFlags(t, "-c", filepath.Join(t.TempDir(), "nope.yaml")))
		if err == nil {
			t.Fatal("expected an error for a missing explicit config file")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected a not-found error, got %v", err)
		}
	})
}

// TestEphemeralSalt tests the fallback salt generator.
func TestEphemeralSalt(t *testing.T) {
	t.Parallel()

	a, err := ephemeralSalt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ephemeralSalt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == "" || a == b {
		t.Errorf("expected two distinct non-empty salts, got %q and %q", a, b)
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(a))
	}
}
