package sqlite

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// setupBackend attaches a fresh SQLite backend in a temp directory and
// detaches it when the test ends.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

// attachDB attaches an already open connection, used with sqlmock.
func (b *Backend) attachDB(db *sql.DB, d dialect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attachDBLocked(db, d)
}

// seedFarm creates producer P1 with plot T01 and returns the plot.
func seedFarm(t *testing.T, b *Backend) types.Plot {
	t.Helper()
	require.NoError(t, b.Producers().Create(types.Producer{
		ProducerID: "P1",
		Name:       "Farm A",
		Location:   "Vale do Ribeira",
	}))
	plot := types.Plot{ProducerID: "P1", Code: "T01", AreaHa: 5.0}
	require.NoError(t, b.Plots().Create(&plot))
	return plot
}

// seedCorn plants Corn on the plot on 01/05/2024, harvest expected 01/09/2024.
func seedCorn(t *testing.T, b *Backend, plot types.Plot) types.Planting {
	t.Helper()
	p := types.Planting{
		ProducerID:          plot.ProducerID,
		PlotID:              plot.PlotID,
		Crop:                "Corn",
		PlantingDate:        types.NewDate(2024, time.May, 1),
		ExpectedHarvestDate: types.NewDate(2024, time.September, 1),
		PreviousCrop:        types.NoPreviousCrop,
	}
	require.NoError(t, b.Plantings().Create(&p))
	return p
}
