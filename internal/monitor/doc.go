// Package monitor implements the terminal dashboard for local AI node telemetry.
//
// The dashboard shows CPU, memory, GPU, and per-NIC network throughput for the
// machine it runs on, plus an optional tokens/s row scraped from an inference
// server's Prometheus endpoint.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds loop state (identity, latest snapshot, terminal size)
//   - Update: Processes messages (keystrokes, tick events, new snapshots)
//   - View: Renders the current frame to a string for display
//
// # Key Components
//
//	Source[T]   - Narrow read interface every metric source implements
//	ComputeRate - Turns two counter readings into a per-second rate
//	Engine      - Reads all sources, diffs counters, assembles a Snapshot
//	Layout      - Maps logical rows to screen rows from the Snapshot's shape
//	Render      - Paints a Snapshot into a fixed-width Frame, clipping to the terminal
//
// # Message Flow
//
//  1. Init fetches host identity once and captures the counter baseline
//  2. tickMsg fires after the configured interval (default 1s)
//  3. collectCmd captures the "after" counters and reads every gauge
//  4. snapshotMsg arrives; the frame is rebuilt and the next tick is scheduled
//
// A failing source never stops the loop: its field renders as a placeholder
// and the failure is logged outside the terminal UI.
package monitor
