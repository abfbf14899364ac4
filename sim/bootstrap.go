package sim

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/encodeous/weft/state"
)

type BootstrapOptions struct {
	ConfigPath string
	LogPath    string          // overrides the scenario's log_path
	Algorithm  state.Algorithm // overrides the scenario's algorithm
	Verbose    bool
	Trace      bool
	Console    io.Writer
}

// Bootstrap reads a scenario from disk and builds its network. The caller owns the network
// and must Close it.
func Bootstrap(opt BootstrapOptions) (*Network, error) {
	cfg, err := state.ReadScenario(opt.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opt.Algorithm != "" {
		cfg.Algorithm = opt.Algorithm
	}
	if opt.LogPath != "" {
		cfg.LogPath = opt.LogPath
	}
	if cfg.LogPath != "" {
		if err := os.MkdirAll(path.Dir(cfg.LogPath), 0700); err != nil {
			return nil, err
		}
	}
	if err := state.ExpandScenario(cfg); err != nil {
		return nil, err
	}
	if err := state.ScenarioValidator(cfg); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", opt.ConfigPath, err)
	}

	level := slog.LevelInfo
	if opt.Verbose {
		level = slog.LevelDebug
	}

	var logFile *os.File
	if cfg.LogPath != "" {
		logFile, err = os.OpenFile(cfg.LogPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, err
		}
	}

	netOpt := Options{
		Console: opt.Console,
		Level:   level,
		Trace:   opt.Trace,
	}
	if logFile != nil {
		netOpt.LogFile = logFile
	}
	n, err := NewNetwork(*cfg, netOpt)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, err
	}
	if logFile != nil {
		n.closers = append(n.closers, logFile)
	}
	return n, nil
}
