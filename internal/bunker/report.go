package bunker

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

func num(v float64, prec int) string { return strconv.FormatFloat(v, 'f', prec, 64) }

// WriteReport writes the material flow report as CSV sections.
func (s *System) WriteReport(w io.Writer, generated time.Time) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"=== BLAST FURNACE MATERIAL FLOW REPORT ==="},
		{"Generated:", generated.Format("2006-01-02 15:04:05")},
		{},
		{"=== SYSTEM CONFIGURATION ==="},
		{"Component", "Parameter", "Value", "Unit"},
		{"Transfer Bin", "Capacity", num(s.Bin.Capacity, 1), "m³"},
		{"Transfer Bin", "Current Volume", num(s.Bin.Volume(), 1), "m³"},
		{"Transfer Bin", "Fill Level", num(s.Bin.FillFraction()*100, 1), "%"},
		{"Bunker", "Diameter", num(s.Bunker.Diameter, 1), "m"},
		{"Bunker", "Height", num(s.Bunker.Height, 1), "m"},
		{"Bunker", "Layer Count", strconv.Itoa(len(s.Bunker.layers)), "-"},
		{},
	}

	if s.source != nil {
		total := 0.0
		for _, v := range s.source.Discharged() {
			total += v
		}
		rows = append(rows,
			[]string{"=== CONVEYOR DISCHARGE SUMMARY ==="},
			[]string{"Total Mass Discharged", num(total, 1), "kg"},
			[]string{"Simulation Duration", num(s.source.Parameters.TotalTime, 1), "s"},
			[]string{},
		)
	}

	rows = append(rows,
		[]string{"=== TRANSFER BIN CONTENTS ==="},
		[]string{"Layer", "Material", "Volume (m³)", "Fe%", "SiO2%", "CaO%", "Timestamp"},
	)
	for i, l := range s.Bin.layers {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), l.Material, num(l.Volume, 2),
			num(l.Composition.Fe, 2), num(l.Composition.SiO2, 2), num(l.Composition.CaO, 2),
			num(l.Timestamp, 1),
		})
	}
	rows = append(rows,
		[]string{},
		[]string{"=== BUNKER CHARGING SEQUENCE ==="},
		[]string{"Charge", "Material", "Volume (m³)", "Fe%", "SiO2%", "CaO%", "B2", "Timestamp"},
	)
	for i, c := range s.ChargingSequence() {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), c.Material, num(c.Volume, 2),
			num(c.Chemistry.Fe, 2), num(c.Chemistry.SiO2, 2), num(c.Chemistry.CaO, 2),
			num(c.B2, 3), num(c.Timestamp, 1),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
