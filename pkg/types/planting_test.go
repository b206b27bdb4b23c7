package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPlanned, StatusAvailable, true},
		{StatusPlanned, StatusSold, false},
		{StatusPlanned, StatusCancelled, false},
		{StatusAvailable, StatusSold, true},
		{StatusAvailable, StatusCancelled, true},
		{StatusAvailable, StatusPlanned, false},
		{StatusSold, StatusCancelled, false},
		{StatusSold, StatusAvailable, false},
		{StatusCancelled, StatusAvailable, false},
		{StatusCancelled, StatusPlanned, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPlanned.Terminal())
	assert.False(t, StatusAvailable.Terminal())
	assert.True(t, StatusSold.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, Status("Colhido").Terminal())
}

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStatus("Planned")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPlantingValidateDates(t *testing.T) {
	planted := NewDate(2024, time.May, 1)

	tests := []struct {
		name     string
		planting Planting
		wantErr  error
	}{
		{
			name:     "expected after planting",
			planting: Planting{PlantingDate: planted, ExpectedHarvestDate: NewDate(2024, time.September, 1)},
		},
		{
			name:     "expected equal to planting",
			planting: Planting{PlantingDate: planted, ExpectedHarvestDate: planted},
			wantErr:  ErrInvalidDates,
		},
		{
			name:     "expected before planting",
			planting: Planting{PlantingDate: planted, ExpectedHarvestDate: planted.AddDays(-1)},
			wantErr:  ErrInvalidDates,
		},
		{
			name: "actual on planting day",
			planting: Planting{
				PlantingDate:        planted,
				ExpectedHarvestDate: planted.AddDays(90),
				ActualHarvestDate:   planted,
			},
		},
		{
			name: "actual before planting",
			planting: Planting{
				PlantingDate:        planted,
				ExpectedHarvestDate: planted.AddDays(90),
				ActualHarvestDate:   planted.AddDays(-30),
			},
			wantErr: ErrHarvestBeforePlant,
		},
		{
			name:     "missing planting date",
			planting: Planting{ExpectedHarvestDate: planted},
			wantErr:  ErrMissingPlantingDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.planting.ValidateDates()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPlantingConfirmHarvest(t *testing.T) {
	newPlanting := func() *Planting {
		return &Planting{
			Crop:                "Corn",
			PlantingDate:        NewDate(2024, time.May, 1),
			ExpectedHarvestDate: NewDate(2024, time.September, 1),
			Status:              StatusPlanned,
		}
	}

	t.Run("planned becomes available", func(t *testing.T) {
		p := newPlanting()
		require.NoError(t, p.ConfirmHarvest(NewDate(2024, time.September, 10), 500, "kg"))
		assert.Equal(t, StatusAvailable, p.Status)
		require.NotNil(t, p.HarvestedQuantity)
		assert.Equal(t, 500.0, *p.HarvestedQuantity)
		assert.Equal(t, "kg", p.Unit)
		assert.Equal(t, "10/09/2024", p.ReferenceDate().FormatBR())
	})

	t.Run("date before planting leaves planting untouched", func(t *testing.T) {
		p := newPlanting()
		err := p.ConfirmHarvest(NewDate(2024, time.April, 1), 500, "kg")
		assert.ErrorIs(t, err, ErrHarvestBeforePlant)
		assert.Equal(t, StatusPlanned, p.Status)
		assert.Nil(t, p.HarvestedQuantity)
		assert.True(t, p.ActualHarvestDate.IsZero())
	})

	t.Run("available cannot be harvested again", func(t *testing.T) {
		p := newPlanting()
		p.Status = StatusAvailable
		assert.ErrorIs(t, p.ConfirmHarvest(NewDate(2024, time.September, 10), 1, "kg"), ErrInvalidTransition)
	})

	t.Run("reference date of planned is expected date", func(t *testing.T) {
		assert.Equal(t, "01/09/2024", newPlanting().ReferenceDate().FormatBR())
	})
}

func TestPlantingTransition(t *testing.T) {
	p := &Planting{Status: StatusAvailable}
	require.NoError(t, p.Transition(StatusSold))
	assert.Equal(t, StatusSold, p.Status)
	assert.ErrorIs(t, p.Transition(StatusCancelled), ErrInvalidTransition)
}
