package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/invopop/jsonschema"
)

// Infer derives a JSON Schema from a report payload. Objects inside arrays
// are merged, and a property is required only when every object has it.
func Infer(data []byte) (*jsonschema.Schema, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	s := infer(v)
	s.Version = "https://json-schema.org/draft/2020-12/schema"
	return s, nil
}

func infer(v any) *jsonschema.Schema {
	switch val := v.(type) {
	case nil:
		return &jsonschema.Schema{Type: "null"}
	case bool:
		return &jsonschema.Schema{Type: "boolean"}
	case float64:
		if math.Trunc(val) == val && !math.IsInf(val, 0) {
			return &jsonschema.Schema{Type: "integer"}
		}
		return &jsonschema.Schema{Type: "number"}
	case string:
		return &jsonschema.Schema{Type: "string"}
	case []any:
		s := &jsonschema.Schema{Type: "array"}
		if len(val) > 0 {
			items := make([]*jsonschema.Schema, len(val))
			for i, item := range val {
				items[i] = infer(item)
			}
			s.Items = merge(items)
		}
		return s
	case map[string]any:
		s := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties()}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s.Properties.Set(k, infer(val[k]))
		}
		s.Required = keys
		return s
	default:
		return &jsonschema.Schema{}
	}
}

// merge combines the schemas of array items into one.
func merge(schemas []*jsonschema.Schema) *jsonschema.Schema {
	byType := make(map[string][]*jsonschema.Schema)
	var order []string
	for _, s := range schemas {
		if _, ok := byType[s.Type]; !ok {
			order = append(order, s.Type)
		}
		byType[s.Type] = append(byType[s.Type], s)
	}

	// integer widens to number
	if _, ok := byType["number"]; ok {
		if ints, ok := byType["integer"]; ok {
			byType["number"] = append(byType["number"], ints...)
			delete(byType, "integer")
			order = without(order, "integer")
		}
	}

	if len(order) == 1 {
		return mergeSameType(byType[order[0]])
	}

	sort.Strings(order)
	out := &jsonschema.Schema{}
	for _, t := range order {
		out.AnyOf = append(out.AnyOf, mergeSameType(byType[t]))
	}
	return out
}

func mergeSameType(schemas []*jsonschema.Schema) *jsonschema.Schema {
	first := schemas[0]
	switch first.Type {
	case "object":
		return mergeObjects(schemas)
	case "array":
		var items []*jsonschema.Schema
		for _, s := range schemas {
			if s.Items != nil {
				items = append(items, s.Items)
			}
		}
		out := &jsonschema.Schema{Type: "array"}
		if len(items) > 0 {
			out.Items = merge(items)
		}
		return out
	case "integer", "number":
		return &jsonschema.Schema{Type: first.Type}
	default:
		return first
	}
}

func mergeObjects(schemas []*jsonschema.Schema) *jsonschema.Schema {
	props := make(map[string][]*jsonschema.Schema)
	count := make(map[string]int)
	for _, s := range schemas {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			props[pair.Key] = append(props[pair.Key], pair.Value)
			count[pair.Key]++
		}
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties()}
	for _, k := range keys {
		out.Properties.Set(k, merge(props[k]))
		if count[k] == len(schemas) {
			out.Required = append(out.Required, k)
		}
	}
	return out
}

func without(list []string, drop string) []string {
	out := list[:0]
	for _, s := range list {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}
