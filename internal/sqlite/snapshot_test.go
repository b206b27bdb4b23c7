package sqlite

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	n := 0
	s := bufio.NewScanner(f)
	for s.Scan() {
		n++
	}
	require.NoError(t, s.Err())
	return n
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := setupBackend(t)
	plot := seedFarm(t, src)
	corn := seedCorn(t, src, plot)
	_, err := src.Plantings().ConfirmHarvest(corn.PlantingID, types.NewDate(2024, time.September, 10), 500, "kg")
	require.NoError(t, err)
	_, err = src.Certifications().SetCertified("P1", true)
	require.NoError(t, err)
	require.NoError(t, src.InputRecords().Create(&types.InputRecord{
		ProducerID: "P1", PlotID: plot.PlotID, AppliedOn: types.NewDate(2024, time.June, 3), InputType: "Esterco curtido",
	}))
	require.NoError(t, src.Demands().Create(&types.Demand{
		Crop: "Corn", Quantity: 300, Unit: "kg", NeededBy: types.NewDate(2024, time.October, 1),
		RegisteredAt: time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC),
	}))

	dir := t.TempDir()
	counts, err := src.ExportSnapshot(dir)
	require.NoError(t, err)
	assert.Equal(t, SnapshotCounts{
		tableProducers: 1, tablePlots: 1, tablePlantings: 1,
		tableInputRecords: 1, tableCertifications: 1, tableDemands: 1,
	}, counts)
	for table, n := range counts {
		assert.Equal(t, n, countLines(t, filepath.Join(dir, table+".jsonl")), table)
	}

	dst := setupBackend(t)
	imported, err := dst.ImportSnapshot(dir)
	require.NoError(t, err)
	assert.Equal(t, counts, imported)

	got, err := dst.Plantings().Get(corn.PlantingID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusAvailable, got.Status)
	assert.Equal(t, "10/09/2024", got.ActualHarvestDate.FormatBR())
	require.NotNil(t, got.HarvestedQuantity)
	assert.Equal(t, 500.0, *got.HarvestedQuantity)

	cert, err := dst.Certifications().Get("P1")
	require.NoError(t, err)
	assert.True(t, cert.Certified)

	t.Run("importing twice rolls back as a unit", func(t *testing.T) {
		_, err := dst.ImportSnapshot(dir)
		require.Error(t, err)
		plantings, err := dst.LoadPlantings()
		require.NoError(t, err)
		assert.Len(t, plantings, 1)
	})
}

func TestImportSnapshotRejectsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "producers.jsonl"), []byte("{\"producer_id\":\"P1\"\nnot json\n"), 0o644))

	b := setupBackend(t)
	_, err := b.ImportSnapshot(dir)
	assert.Error(t, err)
}

func TestImportSnapshotEmptyDirectory(t *testing.T) {
	b := setupBackend(t)
	counts, err := b.ImportSnapshot(t.TempDir())
	require.NoError(t, err)
	for _, n := range counts {
		assert.Zero(t, n)
	}
}

func TestImportSnapshotStampsMissingRegistration(t *testing.T) {
	dir := t.TempDir()
	line := `{"demand_id":"d1","crop":"Couve","quantity":30,"unit":"maços","needed_by":"2024-06-01"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demands.jsonl"), []byte(line), 0o644))

	clock := time.Date(2024, time.May, 2, 9, 15, 0, 0, time.UTC)
	b := NewBackend(WithClock(func() time.Time { return clock }))
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })

	_, err := b.ImportSnapshot(dir)
	require.NoError(t, err)
	got, err := b.Demands().Get("d1")
	require.NoError(t, err)
	assert.True(t, clock.Equal(got.RegisteredAt))
}
