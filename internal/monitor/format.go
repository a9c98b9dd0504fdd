package monitor

import "fmt"

// Placeholder is shown for any value that could not be obtained.
const Placeholder = "N/A"

// Thresholds for bitrate unit selection. Ranges are inclusive below, exclusive above.
const (
	bitsMega = 1e6
	bitsGiga = 1e9
)

// FormatBitrate renders bits per second as Kbps, Mbps or Gbps with two decimals.
func FormatBitrate(bitsPerSecond float64) string {
	switch {
	case bitsPerSecond < bitsMega:
		return fmt.Sprintf("%.2f Kbps", bitsPerSecond/1e3)
	case bitsPerSecond < bitsGiga:
		return fmt.Sprintf("%.2f Mbps", bitsPerSecond/bitsMega)
	default:
		return fmt.Sprintf("%.2f Gbps", bitsPerSecond/bitsGiga)
	}
}

// FormatRate renders a bit rate, using the placeholder for indeterminate rates.
func FormatRate(r Rate) string {
	if r.Indeterminate {
		return Placeholder
	}
	return FormatBitrate(r.PerSecond)
}

// FormatPercent renders a busy percentage with two decimals.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatTokens renders token throughput for the LLM row.
func FormatTokens(perSecond float64) string {
	return fmt.Sprintf("%.2f tokens/s", perSecond)
}
