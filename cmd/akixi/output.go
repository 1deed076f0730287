package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// render writes v in the requested format. Commands without a tabular
// form pass a nil table and get JSON instead.
func render(w io.Writer, format string, v any, table func(*tablewriter.Table) error) error {
	switch {
	case format == formatYAML:
		return writeYAML(w, v)
	case format == formatTable && table != nil:
		t := tablewriter.NewWriter(w)
		if err := table(t); err != nil {
			return err
		}
		return t.Render()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// writeYAML goes through JSON so keys match the JSON field names and raw
// report payloads are emitted as structured YAML.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("decoding output: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("writing YAML: %w", err)
	}
	return enc.Close()
}
