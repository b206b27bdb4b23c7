package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

func TestPlantingsCreate(t *testing.T) {
	b := setupBackend(t)
	plot := seedFarm(t, b)

	t.Run("stored as planned with the previous crop snapshot", func(t *testing.T) {
		p := seedCorn(t, b, plot)
		got, err := b.Plantings().Get(p.PlantingID)
		require.NoError(t, err)
		assert.Equal(t, types.StatusPlanned, got.Status)
		assert.Equal(t, types.NoPreviousCrop, got.PreviousCrop)
		assert.Equal(t, "01/05/2024", got.PlantingDate.FormatBR())
		assert.Equal(t, "01/09/2024", got.ExpectedHarvestDate.FormatBR())
		assert.True(t, got.ActualHarvestDate.IsZero())
		assert.Nil(t, got.HarvestedQuantity)
	})

	t.Run("date violations write nothing", func(t *testing.T) {
		before, err := b.LoadPlantings()
		require.NoError(t, err)

		bad := []types.Planting{
			{Crop: "Feijão", PlantingDate: types.NewDate(2024, time.May, 1), ExpectedHarvestDate: types.NewDate(2024, time.May, 1)},
			{Crop: "Feijão", PlantingDate: types.NewDate(2024, time.May, 1), ExpectedHarvestDate: types.NewDate(2024, time.April, 1)},
			{
				Crop:                "Feijão",
				PlantingDate:        types.NewDate(2024, time.May, 1),
				ExpectedHarvestDate: types.NewDate(2024, time.August, 1),
				ActualHarvestDate:   types.NewDate(2024, time.April, 30),
			},
		}
		for _, p := range bad {
			p.ProducerID, p.PlotID = "P1", plot.PlotID
			assert.Error(t, b.Plantings().Create(&p))
		}

		after, err := b.LoadPlantings()
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("plot of another producer is rejected", func(t *testing.T) {
		require.NoError(t, b.Producers().Create(types.Producer{ProducerID: "P2", Name: "Farm B", Location: "Iguape"}))
		p := types.Planting{
			ProducerID:          "P2",
			PlotID:              plot.PlotID,
			Crop:                "Milho",
			PlantingDate:        types.NewDate(2024, time.May, 1),
			ExpectedHarvestDate: types.NewDate(2024, time.June, 1),
		}
		assert.ErrorIs(t, b.Plantings().Create(&p), types.ErrNotFound)
	})
}

func TestPlantingsConfirmHarvest(t *testing.T) {
	b := setupBackend(t)
	plot := seedFarm(t, b)
	corn := seedCorn(t, b, plot)

	_, err := b.Plantings().ConfirmHarvest(corn.PlantingID, types.NewDate(2024, time.April, 1), 500, "kg")
	assert.ErrorIs(t, err, types.ErrHarvestBeforePlant)
	unchanged, err := b.Plantings().Get(corn.PlantingID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPlanned, unchanged.Status)
	assert.True(t, unchanged.ActualHarvestDate.IsZero())

	harvested, err := b.Plantings().ConfirmHarvest(corn.PlantingID, types.NewDate(2024, time.September, 10), 500, "kg")
	require.NoError(t, err)
	assert.Equal(t, types.StatusAvailable, harvested.Status)

	got, err := b.Plantings().Get(corn.PlantingID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusAvailable, got.Status)
	require.NotNil(t, got.HarvestedQuantity)
	assert.Equal(t, 500.0, *got.HarvestedQuantity)
	assert.Equal(t, "kg", got.Unit)
	assert.Equal(t, "10/09/2024", got.ActualHarvestDate.FormatBR())

	_, err = b.Plantings().ConfirmHarvest(corn.PlantingID, types.NewDate(2024, time.September, 11), 1, "kg")
	assert.ErrorIs(t, err, types.ErrInvalidTransition)
}

func TestPlantingsSetStatus(t *testing.T) {
	b := setupBackend(t)
	plot := seedFarm(t, b)
	corn := seedCorn(t, b, plot)

	_, err := b.Plantings().SetStatus(corn.PlantingID, types.StatusSold)
	assert.ErrorIs(t, err, types.ErrInvalidTransition, "planned cannot be sold")

	_, err = b.Plantings().ConfirmHarvest(corn.PlantingID, types.NewDate(2024, time.September, 10), 500, "kg")
	require.NoError(t, err)

	sold, err := b.Plantings().SetStatus(corn.PlantingID, types.StatusSold)
	require.NoError(t, err)
	assert.Equal(t, types.StatusSold, sold.Status)

	_, err = b.Plantings().SetStatus(corn.PlantingID, types.StatusCancelled)
	assert.ErrorIs(t, err, types.ErrInvalidTransition, "sold is terminal")
}

func TestPlantingsUpdate(t *testing.T) {
	b := setupBackend(t)
	plot := seedFarm(t, b)
	corn := seedCorn(t, b, plot)

	corn.ExpectedHarvestDate = corn.PlantingDate.AddDays(-1)
	assert.ErrorIs(t, b.Plantings().Update(corn), types.ErrInvalidDates)

	stored, err := b.Plantings().Get(corn.PlantingID)
	require.NoError(t, err)
	assert.Equal(t, "01/09/2024", stored.ExpectedHarvestDate.FormatBR())

	stored.Crop = "Milho verde"
	stored.Notes = "irrigação por gotejamento"
	require.NoError(t, b.Plantings().Update(stored))

	got, err := b.Plantings().Get(corn.PlantingID)
	require.NoError(t, err)
	assert.Equal(t, "Milho verde", got.Crop)
	assert.Equal(t, "irrigação por gotejamento", got.Notes)

	stored.PlantingID = "missing"
	assert.ErrorIs(t, b.Plantings().Update(stored), types.ErrNotFound)
}

func TestPlantingsLatestAndLists(t *testing.T) {
	b := setupBackend(t)
	plot := seedFarm(t, b)

	_, found, err := b.Plantings().LatestOnPlot(plot.PlotID)
	require.NoError(t, err)
	assert.False(t, found)

	corn := seedCorn(t, b, plot)
	beans := types.Planting{
		ProducerID:          "P1",
		PlotID:              plot.PlotID,
		Crop:                "Feijão",
		PlantingDate:        types.NewDate(2024, time.October, 2),
		ExpectedHarvestDate: types.NewDate(2025, time.January, 15),
		PreviousCrop:        "Corn",
	}
	require.NoError(t, b.Plantings().Create(&beans))

	latest, found, err := b.Plantings().LatestOnPlot(plot.PlotID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, beans.PlantingID, latest.PlantingID)

	onPlot, err := b.Plantings().ListByPlot(plot.PlotID)
	require.NoError(t, err)
	require.Len(t, onPlot, 2)
	assert.Equal(t, "Feijão", onPlot[0].Crop)

	_, err = b.Plantings().ConfirmHarvest(corn.PlantingID, types.NewDate(2024, time.September, 10), 500, "kg")
	require.NoError(t, err)

	planned, err := b.Plantings().ListByProducer("P1", types.StatusPlanned)
	require.NoError(t, err)
	require.Len(t, planned, 1)
	assert.Equal(t, beans.PlantingID, planned[0].PlantingID)

	all, err := b.Plantings().ListByProducer("P1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, b.Plantings().Delete(corn.PlantingID))
	assert.ErrorIs(t, b.Plantings().Delete(corn.PlantingID), types.ErrNotFound)
}

func TestPlantingsListsPutUndatedLast(t *testing.T) {
	b := setupBackend(t)
	plot := seedFarm(t, b)
	corn := seedCorn(t, b, plot)

	_, err := b.db.Exec(
		"INSERT INTO plantings (planting_id, producer_id, plot_id, crop, status) VALUES (?, ?, ?, ?, ?)",
		"undated", "P1", plot.PlotID, "Mandioca", string(types.StatusPlanned),
	)
	require.NoError(t, err)

	onPlot, err := b.Plantings().ListByPlot(plot.PlotID)
	require.NoError(t, err)
	require.Len(t, onPlot, 2)
	assert.Equal(t, corn.PlantingID, onPlot[0].PlantingID)
	assert.Equal(t, "undated", onPlot[1].PlantingID)

	byProducer, err := b.Plantings().ListByProducer("P1", types.StatusPlanned)
	require.NoError(t, err)
	require.Len(t, byProducer, 2)
	assert.Equal(t, "undated", byProducer[1].PlantingID)
}
