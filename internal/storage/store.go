package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/beltsim/internal/export"
	"github.com/san-kum/beltsim/internal/metrics"
	"github.com/san-kum/beltsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	flowFile     = "flow.csv"
	resultsFile  = "results.json"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Timestamp    time.Time          `json:"timestamp"`
	TotalTime    float64            `json:"total_time"`
	BeltLength   float64            `json:"belt_length"`
	Resolution   float64            `json:"resolution"`
	BeltVelocity float64            `json:"belt_velocity"`
	Dt           float64            `json:"dt"`
	Steps        int                `json:"steps"`
	Materials    []string           `json:"materials"`
	Sources      int                `json:"sources"`
	Chemistry    bool               `json:"chemistry"`
	MassBalance  metrics.Balance    `json:"mass_balance"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes a run under a new ID: a metadata summary, the flow table as
// CSV and the full results document.
func (s *Store) Save(name string, res *sim.Results) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	p := res.Parameters
	meta := RunMetadata{
		ID:           runID,
		Name:         name,
		Timestamp:    s.now(),
		TotalTime:    p.TotalTime,
		BeltLength:   p.BeltLength,
		Resolution:   p.Resolution,
		BeltVelocity: p.BeltVelocity,
		Dt:           res.Metadata.Dt,
		Steps:        res.Metadata.Steps,
		Materials:    p.Materials,
		Sources:      len(p.Sources),
		Chemistry:    res.Metadata.ChemistryTracked,
		MassBalance:  res.Metadata.MassBalance,
		Metrics:      res.Metadata.Metrics,
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(f *os.File) error {
		return export.WriteJSON(f, meta)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, flowFile), func(f *os.File) error {
		return export.WriteFlowCSV(f, res)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, resultsFile), func(f *os.File) error {
		return export.WriteJSON(f, res)
	}); err != nil {
		return "", err
	}

	return runID, nil
}

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Resolve expands a unique ID prefix to the full run ID.
func (s *Store) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("empty run id")
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, prefix, metadataFile)); err == nil {
		return prefix, nil
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return "", err
	}
	var match string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("run id %q is ambiguous", prefix)
		}
		match = e.Name()
	}
	if match == "" {
		return "", fmt.Errorf("run %q: %w", prefix, os.ErrNotExist)
	}
	return match, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadResults reads the full results document of a run.
func (s *Store) LoadResults(runID string) (*sim.Results, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, resultsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return export.ReadResults(f)
}

// LoadFlow reads only the flow table of a run.
func (s *Store) LoadFlow(runID string) ([]string, [][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, flowFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return export.ReadFlowCSV(f)
}

// Delete removes a run directory. Only full run IDs are accepted.
func (s *Store) Delete(runID string) error {
	if _, err := uuid.Parse(runID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", runID, err)
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
