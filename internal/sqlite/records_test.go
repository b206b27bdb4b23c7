package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

func TestCertifications(t *testing.T) {
	b := setupBackend(t)
	seedFarm(t, b)

	t.Run("toggling a stage leaves the rest alone", func(t *testing.T) {
		written, err := b.Certifications().ToggleStage("P1", types.StageInspection)
		require.NoError(t, err)
		assert.True(t, written.Inspection)
		assert.False(t, written.Documentation)
		assert.False(t, written.Certified)

		read, err := b.Certifications().Get("P1")
		require.NoError(t, err)
		assert.Equal(t, written, read)

		again, err := b.Certifications().ToggleStage("P1", types.StageInspection)
		require.NoError(t, err)
		assert.False(t, again.Inspection)
	})

	t.Run("certified flag is independent of the stages", func(t *testing.T) {
		written, err := b.Certifications().SetCertified("P1", true)
		require.NoError(t, err)
		assert.True(t, written.Certified)
		assert.False(t, written.Approval)

		all, err := b.LoadCertifications()
		require.NoError(t, err)
		assert.True(t, all["P1"].Certified)

		written, err = b.Certifications().SetCertified("P1", false)
		require.NoError(t, err)
		assert.False(t, written.Certified)
	})

	t.Run("unknown producer and stage", func(t *testing.T) {
		_, err := b.Certifications().SetCertified("NOPE", true)
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = b.Certifications().ToggleStage("P1", types.Stage(9))
		assert.ErrorIs(t, err, types.ErrInvalidData)
	})
}

func TestInputRecords(t *testing.T) {
	b := setupBackend(t)
	plot := seedFarm(t, b)

	days := []int{1, 5, 10, 20, 25, 28}
	for _, d := range days {
		r := types.InputRecord{
			ProducerID: "P1",
			PlotID:     plot.PlotID,
			AppliedOn:  types.NewDate(2024, time.June, d),
			InputType:  "Calda bordalesa",
		}
		require.NoError(t, b.InputRecords().Create(&r))
	}

	all, err := b.InputRecords().ListByProducer("P1")
	require.NoError(t, err)
	require.Len(t, all, len(days))
	assert.Equal(t, "28/06/2024", all[0].AppliedOn.FormatBR())

	upTo, err := b.InputRecords().ListByPlot(plot.PlotID, types.NewDate(2024, time.June, 20), 3)
	require.NoError(t, err)
	require.Len(t, upTo, 3)
	assert.Equal(t, "20/06/2024", upTo[0].AppliedOn.FormatBR())
	assert.Equal(t, "05/06/2024", upTo[2].AppliedOn.FormatBR())

	missingType := types.InputRecord{ProducerID: "P1", PlotID: plot.PlotID, AppliedOn: types.NewDate(2024, time.June, 1)}
	assert.ErrorIs(t, b.InputRecords().Create(&missingType), types.ErrInvalidData)

	require.NoError(t, b.InputRecords().Delete(all[0].RecordID))
	assert.ErrorIs(t, b.InputRecords().Delete(all[0].RecordID), types.ErrNotFound)
}

func TestDemands(t *testing.T) {
	b := setupBackend(t)
	registered := time.Date(2024, time.May, 2, 14, 30, 0, 0, time.UTC)

	later := types.Demand{Crop: "Alface", Quantity: 200, Unit: "maços", NeededBy: types.NewDate(2024, time.July, 1), RegisteredAt: registered}
	sooner := types.Demand{Crop: "Banana", Quantity: 1.5, Unit: "t", NeededBy: types.NewDate(2024, time.June, 1), Notes: "orgânica", RegisteredAt: registered}
	require.NoError(t, b.Demands().Create(&later))
	require.NoError(t, b.Demands().Create(&sooner))

	list, err := b.LoadDemands()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Banana", list[0].Crop)
	assert.Equal(t, "orgânica", list[0].Notes)
	assert.True(t, registered.Equal(list[0].RegisteredAt))

	got, err := b.Demands().Get(later.DemandID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, got.Quantity)

	require.NoError(t, b.Demands().Delete(later.DemandID))
	assert.ErrorIs(t, b.Demands().Delete(later.DemandID), types.ErrNotFound)

	assert.ErrorIs(t, b.Demands().Create(&types.Demand{Crop: "x", Unit: "kg"}), types.ErrInvalidData)
}

func TestDemandsRegisteredAtDefaultsToClock(t *testing.T) {
	clock := time.Date(2024, time.May, 2, 9, 15, 0, 0, time.UTC)
	b := NewBackend(WithClock(func() time.Time { return clock }))
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })

	d := types.Demand{Crop: "Couve", Quantity: 30, Unit: "maços", NeededBy: types.NewDate(2024, time.June, 1)}
	require.NoError(t, b.Demands().Create(&d))
	assert.True(t, clock.Equal(d.RegisteredAt))

	got, err := b.Demands().Get(d.DemandID)
	require.NoError(t, err)
	assert.True(t, clock.Equal(got.RegisteredAt))
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2024-05-02T14:30:00Z", "2024-05-02 14:30:00", "2024-05-02 14:30:00.123456-03"} {
		_, err := parseTimestamp(s)
		assert.NoError(t, err, s)
	}
	_, err := parseTimestamp("ontem")
	assert.Error(t, err)
}

func TestLoadProducerTrees(t *testing.T) {
	b := setupBackend(t)
	plot := seedFarm(t, b)
	extra := types.Plot{ProducerID: "P1", Code: "A00", AreaHa: 0.5}
	require.NoError(t, b.Plots().Create(&extra))
	require.NoError(t, b.Producers().Create(types.Producer{ProducerID: "P0", Name: "Chácara Bela", Location: "Eldorado"}))

	trees, err := b.LoadProducerTrees()
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, "Chácara Bela", trees[0].Name)
	assert.Empty(t, trees[0].Plots)
	require.Len(t, trees[1].Plots, 2)
	assert.Equal(t, "A00", trees[1].Plots[0].Code)
	assert.Equal(t, plot.PlotID, trees[1].Plots[1].PlotID)
}
