package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func loadConfig(t *testing.T, script string) GameConfig {
	t.Helper()
	cfg, err := LoadGameConfig("level.yaml", script, quietLogger())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestNewGameRequiresSpecs(t *testing.T) {
	full := loadConfig(t, "")
	cases := []struct {
		name string
		edit func(c *GameConfig)
	}{
		{"no_level", func(c *GameConfig) { c.Level = nil }},
		{"no_runner", func(c *GameConfig) { c.Runner = nil }},
		{"no_pursuer", func(c *GameConfig) { c.Pursuer = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := full
			tc.edit(&cfg)
			if _, err := NewGame(cfg); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestChaseOnClearTrack(t *testing.T) {
	cfg := loadConfig(t, "straight")
	cfg.Level.SafeTiles = cfg.Level.TileCount

	game, err := NewGame(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer game.Close()

	s := game.Run(250)
	if s.Ticks != 250 {
		t.Fatalf("run stopped early after %d ticks", s.Ticks)
	}
	if !s.RunnerAlive {
		t.Fatal("runner should survive an empty track")
	}
	if s.RunnerDistance < 20 {
		t.Fatalf("runner barely moved: %v", s.RunnerDistance)
	}
	if s.PursuerDisabled || s.PursuerState != "following" {
		t.Fatalf("pursuer should be following, got %q disabled=%v", s.PursuerState, s.PursuerDisabled)
	}
	if s.Repaths < 2 {
		t.Fatalf("pursuer should keep repathing, got %d", s.Repaths)
	}
	if s.Jumps != 0 {
		t.Fatalf("nothing to jump on a clear track, got %d jumps", s.Jumps)
	}
	if s.MinGap < 0 || s.MinGap > s.Gap+1e-3 {
		t.Fatalf("min gap %v inconsistent with gap %v", s.MinGap, s.Gap)
	}
}

func TestChaseWithObstacles(t *testing.T) {
	game, err := NewGame(loadConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	defer game.Close()

	s := game.Run(1500)
	if s.Ticks == 0 {
		t.Fatal("no ticks ran")
	}
	if s.Landings > s.Jumps || s.Jumps-s.Landings > 1 {
		t.Fatalf("jumps %d and landings %d out of step", s.Jumps, s.Landings)
	}
	if s.PursuerDisabled {
		t.Fatal("pursuer should initialise against the stock specs")
	}
}

func TestGameIsDeterministic(t *testing.T) {
	run := func() Summary {
		game, err := NewGame(loadConfig(t, ""))
		if err != nil {
			t.Fatal(err)
		}
		defer game.Close()
		return game.Run(400)
	}
	a, b := run(), run()
	if a != b {
		t.Fatalf("same seed, different runs:\n%+v\n%+v", a, b)
	}
}

func TestAdvanceRunsFixedSteps(t *testing.T) {
	game, err := NewGame(loadConfig(t, "straight"))
	if err != nil {
		t.Fatal(err)
	}
	defer game.Close()

	cases := []struct {
		frame float32
		want  int
		total int
	}{
		{0.01, 0, 0},
		{0.01, 1, 1},
		{0.11, 5, 6},
		{2, 5, 11},
	}
	for _, tc := range cases {
		if got := game.Advance(tc.frame); got != tc.want {
			t.Fatalf("advance %v: %d steps, want %d", tc.frame, got, tc.want)
		}
		if s := game.Summary(); s.Ticks != tc.total {
			t.Fatalf("advance %v: %d ticks total, want %d", tc.frame, s.Ticks, tc.total)
		}
	}
}

func TestRunRealtimeStopsOnCancel(t *testing.T) {
	game, err := NewGame(loadConfig(t, "straight"))
	if err != nil {
		t.Fatal(err)
	}
	defer game.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if s := game.RunRealtime(ctx, 1000, time.Millisecond); s.Ticks >= 1000 {
		t.Fatalf("cancelled run should stop early, ran %d ticks", s.Ticks)
	}
}
