// Package stats computes aggregates over survey responses. The
// functions are pure and work on the decoded map form, so results are
// identical no matter which storage backend produced the records.
package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Distribution counts the occurrences of each non-empty value of key.
// Missing and empty values are excluded entirely, never counted as a
// category of their own.
func Distribution(responses []map[string]any, key string) map[string]int {
	counts := make(map[string]int)
	for _, response := range responses {
		value, ok := response[key]
		if !ok || value == nil {
			continue
		}
		label := fmt.Sprint(value)
		if label == "" {
			continue
		}
		counts[label]++
	}
	return counts
}

// Average returns the arithmetic mean of the values of key, rounded to
// 2 decimal places. Values that are empty or fail numeric conversion
// are skipped silently. Returns nil when no valid value was found.
func Average(responses []map[string]any, key string) *float64 {
	var sum float64
	var n int
	for _, response := range responses {
		value, ok := toFloat(response[key])
		if !ok {
			continue
		}
		sum += value
		n++
	}
	if n == 0 {
		return nil
	}

	avg := math.Round(sum/float64(n)*100) / 100
	return &avg
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
