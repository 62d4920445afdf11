package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/beltsim/internal/analysis"
	"github.com/san-kum/beltsim/internal/export"
	"github.com/san-kum/beltsim/internal/sim"
	"github.com/san-kum/beltsim/internal/viz"
)

func plotRun(cmd *cobra.Command, args []string) error {
	_, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	opts := viz.PlotOptions{Height: plotHeight, Width: plotWidth}

	kinds := []string{plotKind}
	if plotKind == "all" {
		kinds = []string{"flow", "total", "proportions", "belt"}
		if res.Metadata.ChemistryTracked {
			kinds = append(kinds, "chemistry")
		}
	}
	for _, k := range kinds {
		out, err := plotOne(k, res, opts)
		if err != nil {
			return err
		}
		fmt.Println(out)
		fmt.Println()
	}
	return nil
}

func plotOne(kind string, res *sim.Results, opts viz.PlotOptions) (string, error) {
	switch kind {
	case "flow":
		return viz.FlowPlot(res, opts), nil
	case "total":
		return viz.TotalPlot(res, opts), nil
	case "proportions":
		return viz.ProportionPlot(res, opts), nil
	case "chemistry":
		return viz.ChemistryPlots(res, opts)
	case "belt":
		return viz.BeltProfile(res.FinalGrid, opts.Width, max(opts.Height/3, 1)), nil
	}
	return "", fmt.Errorf("unknown plot kind %q", kind)
}

type csvFile struct {
	name  string
	write func(io.Writer, *sim.Results) error
}

func exportCSV(cmd *cobra.Command, args []string) error {
	id, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if err := os.MkdirAll(csvOutDir, 0755); err != nil {
		return err
	}

	files := []csvFile{
		{"flow", export.WriteFlowCSV},
		{"proportions", export.WriteProportionsCSV},
	}
	if res.Metadata.ChemistryTracked {
		files = append(files, csvFile{"chemistry", export.WriteChemistryCSV})
	}

	for _, file := range files {
		path := filepath.Join(csvOutDir, fmt.Sprintf("%s_%s.csv", id[:8], file.name))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := file.write(f, res); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Println("wrote", path)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if jsonOutPath == "" {
		return export.WriteJSON(os.Stdout, res)
	}
	if err := export.ExportJSON(jsonOutPath, res); err != nil {
		return err
	}
	fmt.Println("wrote", jsonOutPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	id, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := svgOutPath
	if path == "" {
		path = id[:8] + ".svg"
	}
	if err := os.WriteFile(path, []byte(export.FlowToSVG(res, 900, 480)), 0644); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	id, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run %s\n\n", id)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tMATERIAL\tTRAVEL\tFIRST\tLAST\tARRIVES")
	for _, tr := range analysis.Transits(res.Parameters) {
		fmt.Fprintf(w, "%d\t%s\t%.2fs\t%.2fs\t%.2fs\t%v\n",
			tr.Source, tr.Material, tr.TravelTime, tr.FirstArrival, tr.LastArrival, tr.Arrives)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	spec := analysis.DischargeSpectrum(res.Totals(), res.Metadata.Dt)
	if len(spec.Amplitude) == 0 {
		fmt.Println("\ntoo few samples for a spectrum")
		return nil
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(spec.Amplitude,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("discharge amplitude spectrum"),
	))

	if period, ok := spec.DominantPeriod(); ok {
		fmt.Printf("\ndominant fluctuation period: %.3fs\n", period)
	} else {
		fmt.Println("\ndischarge is steady")
	}
	return nil
}
