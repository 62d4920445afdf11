package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/beltsim/internal/belt"
	"github.com/san-kum/beltsim/internal/chem"
	"github.com/san-kum/beltsim/internal/sim"
)

func sampleResults(t *testing.T) *sim.Results {
	t.Helper()
	p := sim.Parameters{
		TotalTime:    12,
		BeltLength:   6,
		Resolution:   1,
		BeltVelocity: 1,
		Materials:    []string{"Pellets", "Dolomite"},
		Sources: []belt.Source{
			{Material: "Pellets", Capacity: 40, FlowRate: 4, BeltColumn: 0},
			{Material: "Dolomite", Capacity: 5, FlowRate: 1, MaterialRow: 1, BeltColumn: 2, StartTime: 3},
		},
		MaterialChemistry: chem.DefaultLibrary().MustSubset([]string{"Pellets", "Dolomite"}),
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	res, err := sim.New(sim.WithLogger(log)).Run(p)
	require.NoError(t, err)
	return res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	res := sampleResults(t)
	runID, err := st.Save("burden", res)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "burden", meta.Name)
	assert.Equal(t, res.Metadata.Steps, meta.Steps)
	assert.Equal(t, []string{"Pellets", "Dolomite"}, meta.Materials)
	assert.True(t, meta.Chemistry)
	assert.Equal(t, res.Metadata.Metrics, meta.Metrics)

	back, err := st.LoadResults(runID)
	require.NoError(t, err)
	assert.Equal(t, res, back)

	header, flow, err := st.LoadFlow(runID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pellets", "Dolomite", "time", "total"}, header)
	assert.Equal(t, res.Flow, flow)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runID, err := st.Save("x", sampleResults(t))
	require.NoError(t, err)

	for _, name := range []string{metadataFile, flowFile, resultsFile} {
		_, err := os.Stat(filepath.Join(dir, runID, name))
		assert.NoError(t, err, name)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs, "missing directory lists as empty")

	require.NoError(t, st.Init())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(-tick) * time.Hour)
	}

	res := sampleResults(t)
	first, err := st.Save("first", res)
	require.NoError(t, err)
	second, err := st.Save("second", res)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID, "older timestamp first")
	assert.Equal(t, first, runs[1].ID)
}

func TestStoreResolve(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save("x", sampleResults(t))
	require.NoError(t, err)

	got, err := st.Resolve(runID[:8])
	require.NoError(t, err)
	assert.Equal(t, runID, got)

	got, err = st.Resolve(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, got)

	_, err = st.Resolve("zzzz")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = st.Resolve("")
	assert.Error(t, err)
}

func TestStoreResolveAmbiguous(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())
	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "abc1"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "abc2"), 0755))

	_, err := st.Resolve("abc")
	assert.ErrorContains(t, err, "ambiguous")
}

func TestStoreDelete(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save("x", sampleResults(t))
	require.NoError(t, err)

	assert.Error(t, st.Delete(".."))
	require.NoError(t, st.Delete(runID))
	_, err = st.Load(runID)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
