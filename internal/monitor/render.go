package monitor

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pl247/aimon/internal/errors"
)

// Line is one painted screen row.
type Line struct {
	Kind  RowKind
	Index int // device or interface number for repeated rows
	Text  string
}

// Frame is a fully painted screen: exactly one Line per screen row, each
// padded so that a redraw overwrites whatever the previous frame left there.
type Frame struct {
	Lines []Line

	// Overflow is set (coded errors.ErrRender) when rows or columns were clipped.
	Overflow error
}

// String joins the frame rows with newlines.
func (f Frame) String() string {
	texts := make([]string, len(f.Lines))
	for i, l := range f.Lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

// Render paints the Snapshot into a Frame using the Layout. width and height
// are the terminal dimensions; zero means unknown and disables clipping in
// that direction. Clipping never fails: excess columns are cut and excess
// rows are replaced by a single notice row.
func Render(s Snapshot, l Layout, width, height int) Frame {
	lines := make([]Line, l.Height)
	for i := range lines {
		lines[i] = Line{Kind: RowBlank}
	}
	for _, slot := range l.Slots {
		lines[slot.Row] = Line{Kind: slot.Kind, Index: slot.Index, Text: paintSlot(s, l.Widths, slot)}
	}

	var frame Frame
	if height > 0 && len(lines) > height {
		hidden := len(lines) - (height - 1)
		lines = lines[:height-1]
		lines = append(lines, Line{
			Kind: RowOverflow,
			Text: fmt.Sprintf("... %d more rows; enlarge the terminal", hidden),
		})
		frame.Overflow = errors.New(errors.ErrRender,
			fmt.Sprintf("layout needs %d rows, terminal has %d", l.Height, height),
			"Enlarge the terminal window.")
	}

	clippedCols := false
	for i := range lines {
		if width > 0 && runewidth.StringWidth(lines[i].Text) > width {
			lines[i].Text = runewidth.Truncate(lines[i].Text, width, "")
			clippedCols = true
		}
	}
	if clippedCols && frame.Overflow == nil {
		frame.Overflow = errors.New(errors.ErrRender,
			fmt.Sprintf("layout is wider than %d columns", width),
			"Widen the terminal window.")
	}

	frame.Lines = lines
	return frame
}

func paintSlot(s Snapshot, w Widths, slot Slot) string {
	id := s.Identity
	switch slot.Kind {
	case RowTitle:
		title := fmt.Sprintf("%s computing node (hostname: %s)", id.ServerType, id.Hostname)
		if id.Vendor != "" {
			title = id.Vendor + " " + title
		}
		return title

	case RowCPUIdentity:
		return fmt.Sprintf("CPU: %s x %s with %s cores each", id.CPU.Sockets, id.CPU.Model, id.CPU.CoresPerSocket)

	case RowGPUIdentity:
		if id.GPUCount == 0 {
			return "No GPU detected"
		}
		return fmt.Sprintf("GPU: %d x %s", id.GPUCount, id.GPUName)

	case RowHeader:
		return componentRow(w, "", "Use", "Memory Use")

	case RowCPU:
		use := Placeholder
		if s.CPU.OK() {
			use = FormatPercent(s.CPU.Value)
		}
		mem := placeholderFor(s.Memory.Err)
		if s.Memory.OK() {
			mem = s.Memory.Value.Used + "/" + s.Memory.Value.Total
		}
		return componentRow(w, "CPU", use, mem)

	case RowGPU:
		g := s.GPUs.Value[slot.Index]
		return componentRow(w,
			fmt.Sprintf("GPU%d", slot.Index+1),
			fmt.Sprintf("%d%%", g.UtilizationPct),
			fmt.Sprintf("%.2fGiB/%.2fGiB", g.MemoryUsedGiB(), g.MemoryTotalGiB()))

	case RowNoGPU:
		return " No GPU detected"

	case RowNIC:
		r := s.Network.Value[slot.Name]
		return nicRow(w,
			fmt.Sprintf("NIC%d", slot.Index+1),
			fmt.Sprintf("tx: %s, rx: %s", r.Sent, r.Recv),
			"("+slot.Name+")")

	case RowNICUnavailable:
		return nicRow(w, "NIC", placeholderFor(s.Network.Err), "")

	case RowTokens:
		return " LLM: " + tokensText(*s.Tokens)
	}
	return ""
}

// componentRow lays out " <component>  <use>  <memory>".
func componentRow(w Widths, component, use, memory string) string {
	return " " + fit(component, w.Component) + "  " + fit(use, w.Use) + "  " + fit(memory, w.Memory)
}

// nicRow lays out " <component> <rates> <name>".
func nicRow(w Widths, component, rates, name string) string {
	return " " + fit(component, w.Component) + " " + fit(rates, w.NICRate) + " " + fit(name, w.NICName)
}

// fit left-aligns s in exactly width display cells, truncating if needed.
func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

// tokensText is the LLM row value, including the API state marker.
func tokensText(r Reading[float64]) string {
	if r.OK() {
		return FormatTokens(r.Value) + " [API up]"
	}
	switch {
	case stderrors.Is(r.Err, ErrNoBaseline):
		return Placeholder + " [sampling]"
	case stderrors.Is(r.Err, ErrIndeterminate):
		return Placeholder + " [counter reset]"
	case errors.IsCode(r.Err, errors.ErrParse):
		return Placeholder + " [Metric not found]"
	default:
		return Placeholder + " [API Down]"
	}
}

// placeholderFor picks the placeholder text for a failed reading.
func placeholderFor(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrNoBaseline):
		return Placeholder + " [sampling]"
	case errors.IsCode(err, errors.ErrParse):
		return Placeholder + " [parse error]"
	default:
		return Placeholder
	}
}
