// Package preview shortens report results for display, trimming long
// arrays and strings so a large report stays readable.
package preview

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Options controls how much of a result is kept.
type Options struct {
	MaxArrayItems int // keep the first N array items (0 = all)
	MaxStringLen  int // keep the first N runes of a string (0 = all)
	MaxDepth      int // replace values nested deeper than N (0 = unlimited)
}

// Default compaction settings.
const (
	DefaultMaxArrayItems = 5
	DefaultMaxStringLen  = 500
	DefaultMaxDepth      = 0
)

// DefaultOptions returns the default compaction settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxStringLen:  DefaultMaxStringLen,
		MaxDepth:      DefaultMaxDepth,
	}
}

// Stats describes what compaction removed.
type Stats struct {
	TrimmedArrays  int `json:"trimmed_arrays"`
	DroppedItems   int `json:"dropped_items"`
	TruncatedTexts int `json:"truncated_texts"`
}

// Trimmed reports whether anything was removed.
func (s Stats) Trimmed() bool {
	return s.TrimmedArrays > 0 || s.TruncatedTexts > 0
}

// Compact decodes a JSON payload and returns its compacted form.
// A nil opts uses DefaultOptions.
func Compact(data []byte, opts *Options) (any, Stats, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, Stats{}, fmt.Errorf("invalid JSON: %w", err)
	}
	out, stats := Value(v, opts)
	return out, stats, nil
}

// Value compacts an already decoded JSON value.
func Value(v any, opts *Options) (any, Stats) {
	if opts == nil {
		opts = DefaultOptions()
	}
	c := compactor{opts: opts}
	return c.walk(v, 0), c.stats
}

type compactor struct {
	opts  *Options
	stats Stats
}

func (c *compactor) walk(v any, depth int) any {
	if c.opts.MaxDepth > 0 && depth >= c.opts.MaxDepth {
		switch v.(type) {
		case []any, map[string]any:
			return "[max depth]"
		}
	}

	switch val := v.(type) {
	case []any:
		return c.array(val, depth)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = c.walk(item, depth+1)
		}
		return out
	case string:
		return c.text(val)
	default:
		return v
	}
}

func (c *compactor) array(arr []any, depth int) []any {
	keep := len(arr)
	if c.opts.MaxArrayItems > 0 && keep > c.opts.MaxArrayItems {
		keep = c.opts.MaxArrayItems
	}

	out := make([]any, 0, keep+1)
	for _, item := range arr[:keep] {
		out = append(out, c.walk(item, depth+1))
	}
	if dropped := len(arr) - keep; dropped > 0 {
		c.stats.TrimmedArrays++
		c.stats.DroppedItems += dropped
		out = append(out, fmt.Sprintf("... (%d more items)", dropped))
	}
	return out
}

func (c *compactor) text(s string) string {
	if c.opts.MaxStringLen <= 0 || utf8.RuneCountInString(s) <= c.opts.MaxStringLen {
		return s
	}
	c.stats.TruncatedTexts++
	runes := []rune(s)
	return string(runes[:c.opts.MaxStringLen]) + fmt.Sprintf("... (%d more chars)", len(runes)-c.opts.MaxStringLen)
}
