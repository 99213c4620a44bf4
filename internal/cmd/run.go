package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/driver"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/inject"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/log"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/source"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/telemetry"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
)

// errRestart signals that the session should be torn down and rebuilt.
var errRestart = errors.New("restart requested")

// Run maps a controller to synthetic input until interrupted.
type Run struct {
	Mode string `help:"Mapping mode" enum:"touch,mouse,keyboard" default:"touch" env:"SENTAKKI_MODE"`
	Rate int    `help:"Polling rate in Hz" default:"60" env:"SENTAKKI_RATE"`

	Source    source.Config    `embed:"" prefix:"pad."`
	Inject    inject.Config    `embed:"" prefix:"inject."`
	Telemetry telemetry.Config `embed:"" prefix:"telemetry."`
}

// Run is called by kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	restart := make(chan os.Signal, 1)
	signal.Notify(restart, syscall.SIGHUP)
	defer signal.Stop(restart)

	for {
		err := r.session(ctx, restart, logger, rawLogger)
		if errors.Is(err, errRestart) {
			logger.Info("rebuilding session")
			continue
		}
		return err
	}
}

// session builds the source, sink, mode and driver from scratch, runs the
// polling loop, and tears everything down again. A restart request lands
// here as errRestart after the teardown completed, so every session starts
// from released state.
func (r *Run) session(ctx context.Context, restart <-chan os.Signal, logger *slog.Logger, rawLogger log.RawLogger) error {
	src, err := source.New(r.Source, logger)
	if err != nil {
		return fmt.Errorf("controller source: %w", err)
	}
	defer func() { _ = src.Close() }()

	rawSink, err := inject.New(r.Inject, logger)
	if err != nil {
		return fmt.Errorf("injection sink: %w", err)
	}
	defer func() { _ = rawSink.Close() }()
	sink := inject.Observed(rawSink, logger, rawLogger, r.Inject.ErrorLogLimit)

	mode, err := pad.NewMode(r.Mode, sink, logger)
	if err != nil {
		return err
	}

	interval := driver.DefaultInterval
	if r.Rate > 0 {
		interval = time.Second / time.Duration(r.Rate)
	}
	d := driver.New(driver.Config{Interval: interval}, src, r.Mode, mode, logger)

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if r.Telemetry.Addr != "" {
		hub := telemetry.New(r.Telemetry, logger)
		d.Publish = hub.Publish
		go func() {
			if err := hub.Run(sessionCtx); err != nil {
				logger.Error("telemetry hub failed", "error", err)
			}
		}()
	}

	logger.Info("session starting", "mode", r.Mode, "rate", r.Rate)

	done := make(chan error, 1)
	go func() { done <- d.Run(sessionCtx) }()

	select {
	case <-restart:
		cancel()
		if err := <-done; err != nil {
			return err
		}
		return errRestart
	case err := <-done:
		return err
	}
}
