package farm

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/agrorganica/internal/logging"
	"github.com/mesh-intelligence/agrorganica/internal/prompt"
	"github.com/mesh-intelligence/agrorganica/internal/sqlite"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// fixedNow is 02/05/2024, so the planting window is 30/04 to 02/05/2024.
var fixedNow = time.Date(2024, time.May, 2, 10, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

type harness struct {
	s         *Session
	out       *bytes.Buffer
	errLog    *bytes.Buffer
	reportDir string
}

// session scripts the console with the given lines.
func session(t *testing.T, store *sqlite.Backend, lines ...string) *harness {
	t.Helper()
	h := &harness{out: &bytes.Buffer{}, errLog: &bytes.Buffer{}, reportDir: t.TempDir()}
	input := strings.Join(lines, "\n")
	if len(lines) > 0 {
		input += "\n"
	}
	in := prompt.New(strings.NewReader(input), h.out)
	h.s = NewSession(store, in, logging.NewErrorLog(h.errLog, h.out),
		WithClock(func() time.Time { return fixedNow }),
		WithReportDir(h.reportDir),
	)
	return h
}

var farmA = types.Producer{ProducerID: "P1", Name: "Farm A", Location: "Registro/SP"}

// seedFarm stores producer P1 with plot T01 of 5 ha.
func seedFarm(t *testing.T, store *sqlite.Backend) types.Plot {
	t.Helper()
	require.NoError(t, store.Producers().Create(farmA))
	plot := types.Plot{ProducerID: "P1", Code: "T01", AreaHa: 5.0}
	require.NoError(t, store.Plots().Create(&plot))
	return plot
}

// seedCorn plants Corn on 01/05/2024 with harvest expected 01/09/2024.
func seedCorn(t *testing.T, store *sqlite.Backend, plot types.Plot) types.Planting {
	t.Helper()
	p := types.Planting{
		ProducerID:          plot.ProducerID,
		PlotID:              plot.PlotID,
		Crop:                "Corn",
		PlantingDate:        types.NewDate(2024, time.May, 1),
		ExpectedHarvestDate: types.NewDate(2024, time.September, 1),
		PreviousCrop:        types.NoPreviousCrop,
	}
	require.NoError(t, store.Plantings().Create(&p))
	return p
}

// seedHarvested plants Corn and confirms 500 kg harvested on 10/09/2024.
func seedHarvested(t *testing.T, store *sqlite.Backend, plot types.Plot) types.Planting {
	t.Helper()
	p := seedCorn(t, store, plot)
	harvested, err := store.Plantings().ConfirmHarvest(p.PlantingID, types.NewDate(2024, time.September, 10), 500, "kg")
	require.NoError(t, err)
	return harvested
}
