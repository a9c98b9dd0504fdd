package parsers

import (
	stderrors "errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"

	"github.com/pl247/aimon/internal/errors"
)

// ErrMetricNotFound is wrapped when the body parses but has no sample for the metric.
var ErrMetricNotFound = stderrors.New("metric not found")

// ParsePrometheusMetric returns the value of the first sample of the named
// metric in a Prometheus text exposition body. Counters, gauges and untyped
// samples are accepted.
//
// The body is parsed with expfmt; if the exposition is malformed elsewhere
// (servers occasionally emit lines expfmt rejects) a single-line
// `<name>{...} <value>` match is used instead.
func ParsePrometheusMetric(body, name string) (float64, error) {
	v, ok := parseFamilies(body, name)
	if !ok {
		v, ok = matchLine(body, name)
	}
	if !ok {
		return 0, errors.Parse("metrics endpoint", fmt.Errorf("%w: %s", ErrMetricNotFound, name))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Parse("metrics endpoint", fmt.Errorf("%w: %s has non-finite value %v", ErrMetricNotFound, name, v))
	}
	return v, nil
}

func parseFamilies(body, name string) (float64, bool) {
	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(strings.NewReader(body))
	if err != nil {
		return 0, false
	}

	family, ok := families[name]
	if !ok || len(family.GetMetric()) == 0 {
		return 0, false
	}
	return sampleValue(family.GetType(), family.GetMetric()[0])
}

func sampleValue(kind dto.MetricType, m *dto.Metric) (float64, bool) {
	switch kind {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue(), m.GetCounter() != nil
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue(), m.GetGauge() != nil
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue(), m.GetUntyped() != nil
	default:
		return 0, false
	}
}

// matchLine finds the first `<name>{labels} <value>` or `<name> <value>` line.
func matchLine(body, name string) (float64, bool) {
	pattern := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(name) + `(?:\{[^}]*\})?\s+([-+]?(?:[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?|Inf|NaN))`)
	match := pattern.FindStringSubmatch(body)
	if match == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
