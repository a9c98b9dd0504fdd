package monitor

// RowKind identifies the logical content of a screen row.
type RowKind int

const (
	RowBlank RowKind = iota
	RowTitle
	RowCPUIdentity
	RowGPUIdentity
	RowHeader
	RowCPU
	RowGPU
	RowNoGPU
	RowNIC
	RowNICUnavailable
	RowTokens
	RowOverflow
)

// String returns a short name for the row kind.
func (k RowKind) String() string {
	switch k {
	case RowBlank:
		return "blank"
	case RowTitle:
		return "title"
	case RowCPUIdentity:
		return "cpu-identity"
	case RowGPUIdentity:
		return "gpu-identity"
	case RowHeader:
		return "header"
	case RowCPU:
		return "cpu"
	case RowGPU:
		return "gpu"
	case RowNoGPU:
		return "no-gpu"
	case RowNIC:
		return "nic"
	case RowNICUnavailable:
		return "nic-unavailable"
	case RowTokens:
		return "tokens"
	case RowOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Widths are the fixed column widths for the tabular rows.
type Widths struct {
	Component int // "CPU", "GPU1", "NIC1"
	Use       int // utilization column
	Memory    int // memory column
	NICRate   int // "tx: ..., rx: ..."
	NICName   int // "(eth0)"
}

// DefaultWidths fit "GPU10" labels and two Gbps figures on one NIC row.
var DefaultWidths = Widths{
	Component: 5,
	Use:       8,
	Memory:    22,
	NICRate:   36,
	NICName:   20,
}

// Fixed rows at the top of the screen.
const (
	rowTitle       = 0
	rowCPUIdentity = 2
	rowGPUIdentity = 3
	rowHeader      = 5
	rowCPU         = 7
	rowGPUStart    = 9
)

// Slot places one logical row on the screen. Index is the zero-based
// device or interface number for repeated rows.
type Slot struct {
	Kind  RowKind
	Row   int
	Index int
	Name  string // interface name for NIC rows
}

// Layout maps logical rows to screen rows for one Snapshot.
// It is recomputed every frame from the Snapshot's shape.
type Layout struct {
	Widths Widths
	Slots  []Slot
	Height int // number of screen rows needed
}

// NewLayout positions every row the Snapshot needs. GPU rows start at a fixed
// offset; NIC rows follow the GPU block after one blank row, and the optional
// LLM row follows the NIC block after one blank row.
func NewLayout(s Snapshot, w Widths) Layout {
	l := Layout{Widths: w}
	add := func(kind RowKind, row, index int, name string) {
		l.Slots = append(l.Slots, Slot{Kind: kind, Row: row, Index: index, Name: name})
	}

	add(RowTitle, rowTitle, 0, "")
	add(RowCPUIdentity, rowCPUIdentity, 0, "")
	add(RowGPUIdentity, rowGPUIdentity, 0, "")
	add(RowHeader, rowHeader, 0, "")
	add(RowCPU, rowCPU, 0, "")

	row := rowGPUStart
	if s.GPUs.OK() && len(s.GPUs.Value) > 0 {
		for i := range s.GPUs.Value {
			add(RowGPU, row, i, "")
			row++
		}
	} else {
		add(RowNoGPU, row, 0, "")
		row++
	}

	row++
	if s.Network.OK() {
		for i, name := range SortedNames(s.Network.Value) {
			add(RowNIC, row, i, name)
			row++
		}
	} else {
		add(RowNICUnavailable, row, 0, "")
		row++
	}

	if s.Tokens != nil {
		row++
		add(RowTokens, row, 0, "")
		row++
	}

	l.Height = row
	return l
}
