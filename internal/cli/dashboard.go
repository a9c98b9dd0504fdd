package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/pl247/aimon/internal/config"
	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/logger"
	"github.com/pl247/aimon/internal/monitor"
	"github.com/pl247/aimon/internal/sources"
)

// newEngine wires sources and the snapshot engine from cfg.
func newEngine(cfg *config.Config, log logger.Logger) (*monitor.Engine, error) {
	srcs, err := sources.New(sources.Options{
		Backend:    sources.Backend(cfg.Backend),
		Timeout:    cfg.SourceTimeout,
		APIURL:     cfg.APIURL,
		MetricName: cfg.Metric.Name,
		HTTPClient: &http.Client{Timeout: cfg.SourceTimeout},
		Log:        log,
	})
	if err != nil {
		return nil, err
	}

	return monitor.NewEngine(srcs, monitor.EngineConfig{
		Vendor:        cfg.Vendor,
		Exclude:       cfg.Exclude,
		RequireIPv4:   cfg.RequireIPv4,
		SourceTimeout: cfg.SourceTimeout,
		TokenKind:     monitor.TokenKind(cfg.Metric.Kind),
	}, log), nil
}

// setupLogging keeps log output off the dashboard. It returns a closer for
// the log file, if one was opened.
func setupLogging(cfg *config.Config) (func(), error) {
	if cfg.LogFile == "" {
		logger.Redirect(nil, term.IsTerminal(int(os.Stderr.Fd())))
		return func() {}, nil
	}

	f, err := tea.LogToFile(cfg.LogFile, "aimon")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log file "+cfg.LogFile,
			"Check the directory exists and is writable, or drop --log-file.")
	}
	logger.Redirect(f, true)
	return func() { _ = f.Close() }, nil
}

// dashboardCommand runs the full-screen dashboard until the user quits or ctx
// is cancelled.
func dashboardCommand(ctx context.Context, cfg *config.Config, out io.Writer) error {
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.NewEnvLogger("[aimon]")
	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	log.Debug("starting dashboard: interval=%s backend=%s tokens=%t", cfg.Interval, cfg.Backend, engine.TokensEnabled())

	return runDashboard(ctx, engine, cfg.Interval, out)
}

// runDashboard drives the Bubble Tea program until it quits or ctx is
// cancelled. Extra options are appended after the defaults.
func runDashboard(ctx context.Context, engine *monitor.Engine, interval time.Duration, out io.Writer, opts ...tea.ProgramOption) error {
	model := monitor.NewModel(ctx, engine, interval)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(model, opts...).Run()

	// The terminal is restored once Run returns.
	if err != nil && !isCleanExit(ctx, err) {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Dashboard stopped unexpectedly",
			"Re-run with --log-file to capture details.")
	}
	fmt.Fprintln(out, "Exiting gracefully...")
	return nil
}

// isCleanExit reports whether err is an interrupt or cancellation rather
// than a failure.
func isCleanExit(ctx context.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case stderrors.Is(err, tea.ErrInterrupted), stderrors.Is(err, tea.ErrProgramKilled):
		return true
	case ctx != nil && ctx.Err() != nil:
		return true
	default:
		return false
	}
}
