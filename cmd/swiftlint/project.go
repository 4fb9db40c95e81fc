package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rbrovko/SwiftLint/internal/config"
	"github.com/rbrovko/SwiftLint/internal/driver"
	"github.com/rbrovko/SwiftLint/internal/lint"
	"github.com/rbrovko/SwiftLint/internal/rule"
	"github.com/rbrovko/SwiftLint/internal/rules"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/version"
)

// project is the resolved input of a lint or fix run.
type project struct {
	cfg    *config.Config
	reg    *rule.Registry
	engine *lint.Engine
	files  []string
	fs     *source.FileSet
	// salt identifies configuration and version in cache keys.
	salt string
}

func (a *app) loadProject(args []string) (*project, error) {
	cfg, err := a.loadConfig(args)
	if err != nil {
		return nil, err
	}
	reg, err := rules.NewRegistry()
	if err != nil {
		return nil, err
	}
	configs, err := cfg.Resolve(reg)
	if err != nil {
		return nil, err
	}
	maxDiagnostics := a.v.GetInt(maxDiagnosticsFlagName)
	if maxDiagnostics <= 0 {
		maxDiagnostics = cfg.MaxDiagnostics
	}

	files, err := driver.Discover(cfg, args)
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	fingerprint, err := cfg.Fingerprint()
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		a.logger.Info("configuration loaded", "path", cfg.Path)
	}
	a.logger.Debug("files discovered", "count", len(files), "root", cfg.Root)

	return &project{
		cfg:    cfg,
		reg:    reg,
		engine: lint.New(reg, lint.Options{Configs: configs, MaxDiagnostics: maxDiagnostics}),
		files:  files,
		fs:     source.NewFileSetWithBase(wd),
		salt:   fingerprint + "|" + version.Version,
	}, nil
}

// loadConfig honours --config, or discovers the nearest configuration above
// the first path argument.
func (a *app) loadConfig(args []string) (*config.Config, error) {
	if path := a.v.GetString(configFlagName); path != "" {
		return config.Load(path)
	}
	start := "."
	if len(args) > 0 {
		info, err := os.Stat(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", args[0], err)
		}
		start = args[0]
		if !info.IsDir() {
			start = filepath.Dir(args[0])
		}
	}
	return config.Discover(start)
}

func (p *project) driverOptions(a *app) driver.Options {
	return driver.Options{
		Engine: p.engine,
		Jobs:   a.v.GetInt(jobsFlagName),
		Logger: a.logger,
	}
}
