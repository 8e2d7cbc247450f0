package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/refx/pkg/reference"
)

// CSVHeader is the header row of csv output.
var CSVHeader = []string{"name", "category", "example", "purpose", "tips", "docs"}

// tomlDocument wraps records because a TOML document must be a table.
type tomlDocument struct {
	Records []reference.Record `toml:"records"`
}

func nonNil(records []reference.Record) []reference.Record {
	if records == nil {
		return []reference.Record{}
	}
	return records
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []reference.Record) error {
	data, err := json.MarshalIndent(nonNil(records), "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML writes records as a YAML sequence.
func WriteYAML(w io.Writer, records []reference.Record) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(nonNil(records)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteTOML writes records as an array of [[records]] tables.
func WriteTOML(w io.Writer, records []reference.Record) error {
	data, err := toml.Marshal(tomlDocument{Records: nonNil(records)})
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteCSV writes a header row and one row per record.
func WriteCSV(w io.Writer, records []reference.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	for _, r := range records {
		row := []string{r.Name(), r.Category, r.Example, r.Purpose, r.Tips, r.Docs}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("encode csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}
