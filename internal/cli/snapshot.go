package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/pl247/aimon/internal/config"
	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/logger"
	"github.com/pl247/aimon/internal/monitor"
	"github.com/pl247/aimon/internal/ui"
)

// Snapshot output formats
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

func newSnapshotCmd(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Sample once and print the dashboard without taking over the terminal",
		Long: `Take a baseline, wait one interval, sample again and print the result.

The text format is the same layout the dashboard draws. The yaml format is
meant for scripts; failed readings show up under "errors".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			cfg, err := config.Load(*configPath, cmd.Flags())
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg, logger.NewEnvLogger("[aimon]"))
			if err != nil {
				return err
			}
			return snapshotCommand(cmd.Context(), cfg, engine, format, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&format, "format", FormatText, "output format: text or yaml")
	return cmd
}

// snapshotCommand samples once and writes the result. Logs follow the same
// routing as the dashboard so they never interleave with the spinner.
func snapshotCommand(ctx context.Context, cfg *config.Config, engine *monitor.Engine, format string, stdout, stderr io.Writer) error {
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	spin := startProgress(stderr)
	snap, err := takeSnapshot(ctx, engine, cfg.Interval)
	stopProgress(spin, err)
	if err != nil {
		return err
	}
	return writeSnapshot(stdout, snap, format, terminalWidth(stdout))
}

func validateFormat(format string) error {
	switch format {
	case FormatText, FormatYAML:
		return nil
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown format %q", format),
			"Use --format text or --format yaml.")
	}
}

// takeSnapshot runs the same identity, baseline and sample sequence as the
// dashboard, once.
func takeSnapshot(ctx context.Context, engine *monitor.Engine, interval time.Duration) (monitor.Snapshot, error) {
	engine.Identity(ctx)
	engine.Baseline(ctx)

	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return monitor.Snapshot{}, errors.WrapWithCode(ctx.Err(), errors.ErrSource,
			"Interrupted before the second sample", "")
	case <-timer.C:
	}

	return engine.Sample(ctx), nil
}

func writeSnapshot(w io.Writer, snap monitor.Snapshot, format string, width int) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newSnapshotDocument(snap)); err != nil {
			return errors.WrapWithCode(err, errors.ErrRender, "Failed to encode snapshot", "")
		}
		return enc.Close()
	}

	frame := monitor.Render(snap, monitor.NewLayout(snap, monitor.DefaultWidths), width, 0)
	_, err := io.WriteString(w, strings.TrimRight(frame.String(), "\n")+"\n")
	return err
}

// startProgress shows a spinner on an interactive stderr while the sample
// window elapses. It returns nil when nothing was started.
func startProgress(stderr io.Writer) *ui.Spinner {
	if !isTerminal(stderr) {
		return nil
	}
	spin := ui.NewSpinner(stderr, "Sampling")
	spin.Start()
	return spin
}

func stopProgress(spin *ui.Spinner, err error) {
	switch {
	case spin == nil:
	case err != nil:
		spin.Fail()
	default:
		spin.Success()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth is the column count of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	if !isTerminal(w) {
		return 0
	}
	width, _, err := term.GetSize(int(w.(*os.File).Fd()))
	if err != nil {
		return 0
	}
	return width
}

type snapshotDocument struct {
	Taken      time.Time         `yaml:"taken"`
	Host       hostDocument      `yaml:"host"`
	CPUPercent *float64          `yaml:"cpu_utilization_pct,omitempty"`
	Memory     *memoryDocument   `yaml:"memory,omitempty"`
	GPUs       []gpuDocument     `yaml:"gpus"`
	NICs       []nicDocument     `yaml:"nics"`
	Tokens     *float64          `yaml:"tokens_per_second,omitempty"`
	Errors     map[string]string `yaml:"errors,omitempty"`
}

type hostDocument struct {
	Vendor         string `yaml:"vendor"`
	ServerType     string `yaml:"server_type"`
	Hostname       string `yaml:"hostname"`
	CPUModel       string `yaml:"cpu_model"`
	Sockets        string `yaml:"sockets"`
	CoresPerSocket string `yaml:"cores_per_socket"`
	GPUCount       int    `yaml:"gpu_count"`
	GPUName        string `yaml:"gpu_name,omitempty"`
}

type memoryDocument struct {
	Total     string `yaml:"total"`
	Used      string `yaml:"used"`
	Available string `yaml:"available"`
}

type gpuDocument struct {
	Index          int     `yaml:"index"`
	Name           string  `yaml:"name"`
	UtilizationPct int     `yaml:"utilization_pct"`
	MemoryUsedGiB  float64 `yaml:"memory_used_gib"`
	MemoryTotalGiB float64 `yaml:"memory_total_gib"`
}

type nicDocument struct {
	Name string `yaml:"name"`
	Sent string `yaml:"sent"`
	Recv string `yaml:"recv"`
}

func newSnapshotDocument(s monitor.Snapshot) snapshotDocument {
	id := s.Identity
	doc := snapshotDocument{
		Taken: s.Taken,
		Host: hostDocument{
			Vendor:         id.Vendor,
			ServerType:     id.ServerType,
			Hostname:       id.Hostname,
			CPUModel:       id.CPU.Model,
			Sockets:        id.CPU.Sockets,
			CoresPerSocket: id.CPU.CoresPerSocket,
			GPUCount:       id.GPUCount,
			GPUName:        id.GPUName,
		},
		GPUs:   []gpuDocument{},
		NICs:   []nicDocument{},
		Errors: map[string]string{},
	}

	if s.CPU.OK() {
		v := s.CPU.Value
		doc.CPUPercent = &v
	} else {
		doc.Errors["cpu"] = errors.OneLine(s.CPU.Err)
	}

	if s.Memory.OK() {
		m := s.Memory.Value
		doc.Memory = &memoryDocument{Total: m.Total, Used: m.Used, Available: m.Available}
	} else {
		doc.Errors["memory"] = errors.OneLine(s.Memory.Err)
	}

	if s.GPUs.OK() {
		for i, g := range s.GPUs.Value {
			doc.GPUs = append(doc.GPUs, gpuDocument{
				Index:          i,
				Name:           g.Name,
				UtilizationPct: g.UtilizationPct,
				MemoryUsedGiB:  g.MemoryUsedGiB(),
				MemoryTotalGiB: g.MemoryTotalGiB(),
			})
		}
	} else {
		doc.Errors["gpu"] = errors.OneLine(s.GPUs.Err)
	}

	if s.Network.OK() {
		for _, name := range monitor.SortedNames(s.Network.Value) {
			r := s.Network.Value[name]
			doc.NICs = append(doc.NICs, nicDocument{Name: name, Sent: r.Sent, Recv: r.Recv})
		}
	} else {
		doc.Errors["network"] = errors.OneLine(s.Network.Err)
	}

	if s.Tokens != nil {
		if s.Tokens.OK() {
			v := s.Tokens.Value
			doc.Tokens = &v
		} else {
			doc.Errors["tokens"] = errors.OneLine(s.Tokens.Err)
		}
	}

	if len(doc.Errors) == 0 {
		doc.Errors = nil
	}
	return doc
}
