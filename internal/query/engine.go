// Package query runs jq expressions over report results.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Engine executes jq expressions against report results. Compiled
// expressions are kept in an LRU so repeated queries skip parsing.
type Engine struct {
	compiled   *lru.Cache[string, *gojq.Code]
	maxResults int
}

// NewEngine creates an engine caching up to cacheSize compiled expressions
// and returning at most maxResults values per query (0 = unlimited).
func NewEngine(cacheSize, maxResults int) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	c, err := lru.New[string, *gojq.Code](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating expression cache: %w", err)
	}
	return &Engine{compiled: c, maxResults: maxResults}, nil
}

// Options tunes a single query.
type Options struct {
	Deduplicate bool
	MaxResults  int // overrides the engine limit when > 0
}

// Result contains the values a query produced.
type Result struct {
	Values    []any    `json:"values"`
	Errors    []string `json:"errors,omitempty"`
	RawCount  int      `json:"raw_count"`
	Truncated bool     `json:"truncated,omitempty"`
}

// Query runs expression against the JSON payload data.
func (e *Engine) Query(ctx context.Context, data []byte, expression string, opts Options) (*Result, error) {
	code, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}

	limit := e.maxResults
	if opts.MaxResults > 0 {
		limit = opts.MaxResults
	}

	result := &Result{Values: make([]any, 0)}
	seen := make(map[string]bool)
	seenErrors := make(map[string]bool)

	iter := code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := v.(error); isErr {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			msg := formatJQError(err)
			if !seenErrors[msg] {
				seenErrors[msg] = true
				result.Errors = append(result.Errors, msg)
			}
			continue
		}
		if v == nil {
			continue
		}

		result.RawCount++
		if opts.Deduplicate {
			key := valueKey(v)
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		if limit > 0 && len(result.Values) >= limit {
			result.Truncated = true
			break
		}
		result.Values = append(result.Values, v)
	}

	return result, nil
}

// Validate checks that expression parses and compiles.
func (e *Engine) Validate(expression string) error {
	_, err := e.compile(expression)
	return err
}

// Cached returns the number of compiled expressions held.
func (e *Engine) Cached() int {
	return e.compiled.Len()
}

func (e *Engine) compile(expression string) (*gojq.Code, error) {
	if code, ok := e.compiled.Get(expression); ok {
		return code, nil
	}

	q, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	e.compiled.Add(expression, code)
	return code, nil
}

// formatJQError adds hints to common jq runtime errors. gojq reports these
// as plain errors, so the hints are chosen by message text.
func formatJQError(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return "query halted"
		}
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "cannot iterate over: null"):
		msg += " (the path may not exist in this report)"
	case strings.Contains(msg, "cannot index") && strings.Contains(msg, "with"):
		msg += " (field not found or wrong type)"
	case strings.Contains(msg, "object") && strings.Contains(msg, "cannot be iterated"):
		msg += " (expected array but got object, try removing '[]')"
	}
	return msg
}

func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64, int, bool:
		return fmt.Sprintf("%T:%v", val, val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}
