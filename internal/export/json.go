package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/beltsim/internal/sim"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ExportJSON writes the complete results document to path.
func ExportJSON(path string, res *sim.Results) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteJSON(file, res); err != nil {
		return err
	}
	return file.Close()
}

// ReadResults decodes a document written by WriteJSON.
func ReadResults(r io.Reader) (*sim.Results, error) {
	var res sim.Results
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	return &res, nil
}
