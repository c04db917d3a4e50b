package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/germanamz/pdfask/pkg/appdir"
	"github.com/germanamz/pdfask/pkg/assistant"
	"github.com/germanamz/pdfask/pkg/config"
	"github.com/germanamz/pdfask/pkg/conversation"
	"github.com/germanamz/pdfask/pkg/modeladapter"
	"github.com/germanamz/pdfask/pkg/ocr"
	"github.com/germanamz/pdfask/pkg/ocr/tesseract"
)

// logSinks selects where the process logs go. The terminal chat owns the
// screen, so it logs to the file only.
type logSinks int

const (
	logStderr logSinks = 1 << iota
	logFile
)

// requestPacing keeps bursts of selections from tripping provider limits.
var requestPacing = modeladapter.RateLimitOpts{
	RPM:        30,
	Burst:      3,
	MaxRetries: 3,
	BaseDelay:  time.Second,
}

// runtime is the set of process-wide services shared by every command.
type runtime struct {
	dir       appdir.Dir
	log       *slog.Logger
	config    *config.Store
	assistant *assistant.Assistant
	ocr       *ocr.Adapter
	store     *conversation.Store

	logFile   *os.File
	stopWatch context.CancelFunc
	watchWG   sync.WaitGroup
}

func newRuntime(ctx context.Context, configPath string, verbose bool, sinks logSinks) (*runtime, error) {
	dir, err := appdir.Default()
	if err != nil {
		return nil, err
	}
	if err := dir.EnsureStructure(); err != nil {
		return nil, err
	}

	rt := &runtime{dir: dir}

	var writers []io.Writer
	if sinks&logStderr != 0 {
		writers = append(writers, os.Stderr)
	}
	if sinks&logFile != 0 {
		f, err := os.OpenFile(dir.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		rt.logFile = f
		writers = append(writers, f)
	}
	rt.log = newLogger(io.MultiWriter(writers...), verbose)

	if configPath == "" {
		configPath = dir.ConfigPath()
	}
	rt.config, err = config.Load(configPath, config.WithLogger(rt.log), config.WithEnv(os.LookupEnv))
	if err != nil {
		rt.Close()
		return nil, err
	}

	watchCtx, stop := context.WithCancel(ctx)
	rt.stopWatch = stop
	rt.watchWG.Go(func() {
		if err := config.Watch(watchCtx, rt.config); err != nil {
			rt.log.Warn("config watch stopped", "error", err)
		}
	})

	rt.assistant = assistant.New(rt.config,
		assistant.WithLogger(rt.log),
		assistant.WithRateLimit(requestPacing),
	)
	rt.ocr = ocr.New(tesseract.New(), ocr.WithLogger(rt.log))
	rt.store = conversation.New(rt.assistant, conversation.WithLogger(rt.log))

	cfg := rt.config.Get()
	rt.log.Debug("runtime ready",
		"config", rt.config.Path(),
		"provider", cfg.AIProvider.Name,
		"model", cfg.AIProvider.Model,
		"hasAPIKey", cfg.AIProvider.HasAPIKey(),
	)

	return rt, nil
}

// Close stops the config watch and flushes the log file.
func (rt *runtime) Close() {
	if rt.stopWatch != nil {
		rt.stopWatch()
		rt.watchWG.Wait()
	}
	if rt.logFile != nil {
		_ = rt.logFile.Close()
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
