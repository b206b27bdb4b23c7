package farm

import (
	"github.com/mesh-intelligence/agrorganica/internal/prompt"
	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// PlantingWindowDays is how many days back a planting date may be entered.
const PlantingWindowDays = 2

// checkPlantingWindow accepts planting dates in [today-2, today].
func checkPlantingWindow(today types.Date) prompt.Check[types.Date] {
	return func(d types.Date) error {
		earliest := today.AddDays(-PlantingWindowDays)
		if d.Before(earliest) {
			return violate(types.ErrPlantingWindow, "A data de plantio não pode ser anterior a %s.", earliest.FormatBR())
		}
		if d.After(today) {
			return violate(types.ErrPlantingWindow, "A data de plantio não pode ser futura.")
		}
		return nil
	}
}

// checkAfter accepts dates strictly after ref.
func checkAfter(ref types.Date) prompt.Check[types.Date] {
	return func(d types.Date) error {
		if !d.After(ref) {
			return violate(types.ErrInvalidDates, "A data prevista deve ser posterior à data de plantio (%s).", ref.FormatBR())
		}
		return nil
	}
}

// checkNotPast accepts today and later.
func checkNotPast(today types.Date) prompt.Check[types.Date] {
	return func(d types.Date) error {
		if d.Before(today) {
			return violate(types.ErrNeededInPast, "A data de necessidade não pode ser uma data passada.")
		}
		return nil
	}
}

func checkNonNegative(f float64) error {
	if f < 0 {
		return violate(types.ErrInvalidData, "O valor não pode ser negativo.")
	}
	return nil
}

func checkPositive(f float64) error {
	if f <= 0 {
		return violate(types.ErrInvalidData, "O valor deve ser maior que zero.")
	}
	return nil
}
