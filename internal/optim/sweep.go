package optim

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/beltsim/internal/chem"
	"github.com/san-kum/beltsim/internal/metrics"
	"github.com/san-kum/beltsim/internal/sim"
)

// Row is the outcome of one grid point. Err is set when the point failed
// validation and was not run.
type Row struct {
	Values      map[string]float64 `json:"values"`
	Err         string             `json:"error,omitempty"`
	MassBalance metrics.Balance    `json:"mass_balance"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	Quality     *chem.Quality      `json:"quality,omitempty"`
}

func (r *Row) fill(res *sim.Results) {
	r.MassBalance = res.Metadata.MassBalance
	r.Metrics = res.Metadata.Metrics
	r.Quality = res.Quality
}

// Metric looks up a score by name: any run metric, "balance_error",
// "output", or with chemistry "fe_std" and "basicity_dev".
func (r Row) Metric(name string) (float64, bool) {
	if r.Err != "" {
		return 0, false
	}
	switch name {
	case "balance_error":
		return math.Abs(r.MassBalance.Error), true
	case "output":
		return r.MassBalance.TotalOutput, true
	case "fe_std":
		if r.Quality == nil {
			return 0, false
		}
		return r.Quality.FeStd, true
	case "basicity_dev":
		if r.Quality == nil {
			return 0, false
		}
		return math.Abs(r.Quality.AvgBasicity - r.Quality.BasicityTarget), true
	}
	v, ok := r.Metrics[name]
	return v, ok
}

type Sweep struct {
	Axes []string `json:"axes"`
	Rows []Row    `json:"rows"`
}

// Best returns the row with the lowest (or highest) value of metric among
// rows that ran and report it.
func (s *Sweep) Best(metric string, maximize bool) (Row, float64, error) {
	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}
	found := -1
	for i, r := range s.Rows {
		v, ok := r.Metric(metric)
		if !ok {
			continue
		}
		if (!maximize && v < best) || (maximize && v > best) {
			best, found = v, i
		}
	}
	if found < 0 {
		return Row{}, 0, fmt.Errorf("no row reports metric %q", metric)
	}
	return s.Rows[found], best, nil
}

// WriteTable prints one line per grid point with the chosen metric columns.
func (s *Sweep) WriteTable(w io.Writer, columns []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := append(append([]string{}, s.Axes...), columns...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range s.Rows {
		cells := make([]string, 0, len(header))
		for _, a := range s.Axes {
			cells = append(cells, strconv.FormatFloat(r.Values[a], 'g', -1, 64))
		}
		if r.Err != "" {
			cells = append(cells, "invalid: "+r.Err)
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
			continue
		}
		for _, c := range columns {
			if v, ok := r.Metric(c); ok {
				cells = append(cells, strconv.FormatFloat(v, 'f', 4, 64))
			} else {
				cells = append(cells, "-")
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// Spec is a sweep file: the axes to vary and how to pick the best point.
type Spec struct {
	Axes        []Axis   `yaml:"axes"`
	Objective   string   `yaml:"objective"`
	Maximize    bool     `yaml:"maximize,omitempty"`
	Columns     []string `yaml:"columns,omitempty"`
	Concurrency int      `yaml:"concurrency,omitempty"`
}

var defaultColumns = []string{"balance_error", "first_arrival", "peak_flow", "mean_flow"}

// LoadSpec reads a YAML sweep file. Unknown keys are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Spec
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing sweep: %w", err)
	}
	if s.Objective == "" {
		s.Objective = "balance_error"
	}
	if len(s.Columns) == 0 {
		s.Columns = defaultColumns
	}
	return &s, nil
}

// ParseValues reads a comma separated list of numbers.
func ParseValues(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func DefaultColumns() []string { return append([]string(nil), defaultColumns...) }
