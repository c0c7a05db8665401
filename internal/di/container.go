// Package di wires everything one test needs into a Container. Every test
// builds its own, so nothing is shared between tests running in parallel.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap/zapcore"

	"ui-template/internal/adapter/component"
	"ui-template/internal/adapter/page"
	"ui-template/internal/application/port/input"
	"ui-template/internal/application/port/output"
	"ui-template/internal/infrastructure/artifacts"
	"ui-template/internal/infrastructure/browser/rod"
	"ui-template/internal/infrastructure/config"
	"ui-template/internal/infrastructure/logger"
	"ui-template/internal/usecase/check"
	"ui-template/internal/usecase/wait"
)

// SessionFactory opens the browser of one container.
type SessionFactory func(ctx context.Context, cfg *config.Config, log output.LoggerPort) (output.Session, error)

type Options struct {
	// Scope names the log files and the artifact directory, usually the test name.
	Scope string
	Now   func() time.Time
	// Fs stores artifacts. Defaults to the OS file system.
	Fs afero.Fs
	// Console receives the console log. Nil keeps the console quiet.
	Console    zapcore.WriteSyncer
	NewSession SessionFactory
}

type Container struct {
	Config    *config.Config
	RunDir    string
	Logger    output.LoggerPort
	Session   output.Session
	Waits     *wait.Factory
	Env       *component.Env
	Site      *page.Site
	Artifacts *artifacts.Store
	Checks    input.CheckRunner
}

func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.NewSession == nil {
		opts.NewSession = RodSession
	}
	if opts.Scope == "" {
		opts.Scope = "run"
	}

	runDir := logger.RunDir(cfg.Test.LogsPath, opts.Now())
	logDir := runDir
	if cfg.Test.LogsPath == "" {
		logDir = ""
	}
	log, err := logger.New(logger.Config{
		Dir:          logDir,
		Scope:        opts.Scope,
		FileLevels:   cfg.Log.FileLevels,
		Console:      opts.Console,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		MaxSizeMB:    cfg.Log.MaxSizeMB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	session, err := opts.NewSession(ctx, cfg, log)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to create browser session: %w", err)
	}

	waits := &wait.Factory{
		ElementTimeout:  cfg.Test.ElementTimeout,
		PageLoadTimeout: cfg.Test.PageLoadTimeout,
		Interval:        cfg.Test.PollInterval,
		Logger:          log,
	}
	env := &component.Env{Session: session, Logger: log, Waits: waits}
	site := page.NewSite(env, cfg.Web.BaseURL, cfg.Web.UserName, cfg.Web.UserPassword)

	return &Container{
		Config:    cfg,
		RunDir:    runDir,
		Logger:    log,
		Session:   session,
		Waits:     waits,
		Env:       env,
		Site:      site,
		Artifacts: artifacts.NewStore(opts.Fs, logger.ScopeDir(runDir, opts.Scope), log),
		Checks:    check.New(site),
	}, nil
}

// RodSession starts a local Chromium, or connects to test.remote_url when
// test.remote is set.
func RodSession(ctx context.Context, cfg *config.Config, log output.LoggerPort) (output.Session, error) {
	window, err := cfg.Test.Window()
	if err != nil {
		return nil, err
	}
	rc := rod.DefaultConfig()
	rc.Headless = cfg.Test.Headless
	rc.Bin = cfg.Test.BrowserBin
	rc.Window = window
	rc.Logger = log
	if cfg.Test.PageLoadTimeout > 0 {
		rc.Timeout = cfg.Test.PageLoadTimeout
	}
	if cfg.Test.Remote {
		rc.RemoteURL = cfg.Test.RemoteURL
	}
	s, err := rod.NewSession(ctx, rc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close quits the browser and then closes the log files.
func (c *Container) Close() error {
	c.Session.Close()
	c.Logger.Info("browser session closed")
	return c.Logger.Close()
}
