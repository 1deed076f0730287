package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking that the zero value of its output
// type passes the schema the SDK infers for it. A mismatch panics at
// registration instead of failing the first call.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when T cannot be described by the schema the SDK
// infers from it. Two mistakes are caught:
//
//   - nil slices without omitempty/omitzero, which marshal to null where
//     the schema says "array";
//   - raw JSON byte types (json.RawMessage, akixi.Result), which marshal
//     as arbitrary JSON but are inferred as arrays of integers.
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := rawJSONFields(rt, nil, map[reflect.Type]bool{}); len(paths) > 0 {
		panic(fmt.Sprintf(
			"AddTool %q: output type %s holds raw JSON bytes at %s; use any and decode the payload first",
			toolName, rt, strings.Join(paths, ", "),
		))
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return // the SDK reports inference failures itself
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return
	}

	if err := resolved.Validate(&v); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: zero value of %s fails its schema: %v (JSON: %s); add omitzero to slice fields or initialize them",
			toolName, rt, err, data,
		))
	}
}

var marshalerType = reflect.TypeFor[json.Marshaler]()

// isRawJSON reports whether t is a byte slice that marshals itself, such as
// json.RawMessage.
func isRawJSON(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 &&
		(t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType))
}

func rawJSONFields(t reflect.Type, path []string, visiting map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if isRawJSON(t) {
		return []string{strings.Join(path, ".")}
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() {
				found = append(found, rawJSONFields(f.Type, append(path, f.Name), visiting)...)
			}
		}
	case reflect.Slice, reflect.Array:
		found = append(found, rawJSONFields(t.Elem(), append(path, "[]"), visiting)...)
	case reflect.Map:
		found = append(found, rawJSONFields(t.Elem(), append(path, "[value]"), visiting)...)
	}
	return found
}
