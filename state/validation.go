package state

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
)

func PathValidator(s string) error {
	_, err := os.Stat(path.Dir(s))
	if err != nil {
		return err
	}
	_, err = filepath.Abs(s)
	return err
}

func AlgorithmValidator(a Algorithm) error {
	switch a {
	case AlgoPathVector, AlgoLinkState:
		return nil
	}
	return fmt.Errorf("unknown algorithm %q, must be %s or %s", a, AlgoPathVector, AlgoLinkState)
}

func NodeIdValidator(id NodeId) error {
	if id < 0 {
		return fmt.Errorf("node id %d must not be negative", id)
	}
	return nil
}

func linkValidator(nodes []NodeId, a, b NodeId) error {
	if a == b {
		return fmt.Errorf("link %d-%d connects a node to itself", a, b)
	}
	for _, n := range []NodeId{a, b} {
		if !slices.Contains(nodes, n) {
			return fmt.Errorf("node %d not defined", n)
		}
	}
	return nil
}

// ScenarioValidator checks an expanded scenario
func ScenarioValidator(cfg *ScenarioCfg) error {
	if err := AlgorithmValidator(cfg.Algorithm); err != nil {
		return err
	}
	if len(cfg.Nodes) == 0 {
		return fmt.Errorf("scenario has no nodes")
	}
	seen := make(map[NodeId]struct{}, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		if err := NodeIdValidator(n); err != nil {
			return err
		}
		if _, ok := seen[n]; ok {
			return fmt.Errorf("duplicate node %d", n)
		}
		seen[n] = struct{}{}
	}

	links := make(map[Link]struct{}, len(cfg.Links))
	for _, l := range cfg.Links {
		if err := linkValidator(cfg.Nodes, l.A, l.B); err != nil {
			return err
		}
		if _, ok := links[l.Link()]; ok {
			return fmt.Errorf("duplicate link found: %v", l.Link())
		}
		links[l.Link()] = struct{}{}
		lat, err := ParseLatency(l.Latency)
		if err != nil {
			return fmt.Errorf("link %v: %w", l.Link(), err)
		}
		if lat.Down || lat.Metric == 0 {
			return fmt.Errorf("link %v: initial latency must be positive", l.Link())
		}
	}

	var last uint64
	for i, e := range cfg.Events {
		if err := linkValidator(cfg.Nodes, e.A, e.B); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		lat, err := ParseLatency(e.Latency)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if !lat.Down && lat.Metric == 0 {
			return fmt.Errorf("event %d: latency must be positive or -1", i)
		}
		if e.At < last {
			return fmt.Errorf("event %d: events must be ordered by time", i)
		}
		last = e.At
	}

	if cfg.Duplicate < 0 || cfg.Duplicate > 1 {
		return fmt.Errorf("duplicate probability %v must be within [0, 1]", cfg.Duplicate)
	}
	if cfg.MaxEvents < 0 {
		return fmt.Errorf("max_events must not be negative")
	}
	if cfg.LogPath != "" {
		if err := PathValidator(cfg.LogPath); err != nil {
			return fmt.Errorf("invalid log path: %w", err)
		}
	}
	return nil
}
