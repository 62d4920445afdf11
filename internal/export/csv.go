package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/beltsim/internal/chem"
	"github.com/san-kum/beltsim/internal/sim"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FlowHeader is the column layout of a flow table.
func FlowHeader(materials []string) []string {
	h := append([]string(nil), materials...)
	return append(h, "time", "total")
}

// WriteFlowCSV writes the flow table with full float precision so it reads
// back unchanged.
func WriteFlowCSV(w io.Writer, res *sim.Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FlowHeader(res.Parameters.Materials)); err != nil {
		return err
	}
	record := make([]string, len(res.Parameters.Materials)+2)
	for _, row := range res.Flow {
		for j, v := range row {
			record[j] = formatFloat(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadFlowCSV reads a table written by WriteFlowCSV.
func ReadFlowCSV(r io.Reader) ([]string, [][]float64, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading flow csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("reading flow csv: missing header")
	}
	header := records[0]
	flow := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("flow csv line %d column %s: %w", i+2, header[j], err)
			}
			row[j] = v
		}
		flow = append(flow, row)
	}
	return header, flow, nil
}

// WriteProportionsCSV writes time and each material's share in percent.
func WriteProportionsCSV(w io.Writer, res *sim.Results) error {
	cw := csv.NewWriter(w)
	header := []string{"time"}
	for _, m := range res.Parameters.Materials {
		header = append(header, m+" (%)")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	times := res.Times()
	for i, row := range res.Proportions {
		record := []string{strconv.FormatFloat(times[i], 'f', 3, 64)}
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'f', 4, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteChemistryCSV writes the blended chemistry trend.
func WriteChemistryCSV(w io.Writer, res *sim.Results) error {
	tr, err := res.Chemistry()
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	header := append([]string{"time"}, chem.ComponentNames[:]...)
	header = append(header, "B2", "B4")
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < tr.Len(); i++ {
		c := tr.At(i)
		record := []string{strconv.FormatFloat(tr.Time[i], 'f', 3, 64)}
		for _, v := range c.Vector() {
			record = append(record, strconv.FormatFloat(v, 'f', 3, 64))
		}
		record = append(record,
			strconv.FormatFloat(tr.B2[i], 'f', 3, 64),
			strconv.FormatFloat(tr.B4[i], 'f', 3, 64))
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
