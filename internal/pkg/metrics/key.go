package metrics

import "strings"

// LabelSeparator joins label values inside a series key
const LabelSeparator = "|"

// SeriesKey builds the lookup key for a metric name and its label values.
//
// Label order is part of the identity: ("GET", "/a") and ("/a", "GET")
// name two different series.
func SeriesKey(name string, labels ...string) string {
	if len(labels) == 0 {
		return name
	}

	var b strings.Builder
	b.Grow(len(name) + 2 + len(labels)*8)
	b.WriteString(name)
	b.WriteByte('{')
	for i, l := range labels {
		if i > 0 {
			b.WriteString(LabelSeparator)
		}
		b.WriteString(l)
	}
	b.WriteByte('}')
	return b.String()
}

// SeriesName returns the metric name part of a series key
func SeriesName(key string) string {
	if idx := strings.IndexByte(key, '{'); idx >= 0 {
		return key[:idx]
	}
	return key
}
