package types

// Status is the lifecycle state of a planting. The string values are the
// ones persisted in the plantings.status column.
type Status string

// Planting states.
const (
	StatusPlanned   Status = "Planejado"
	StatusAvailable Status = "Disponível"
	StatusSold      Status = "Vendido"
	StatusCancelled Status = "Cancelado"
)

// NoPreviousCrop is the previous-crop label used when the plot has no
// earlier planting.
const NoPreviousCrop = "Nenhuma registrada"

// transitions lists the states reachable from each state. Sold and
// Cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPlanned:   {StatusAvailable},
	StatusAvailable: {StatusSold, StatusCancelled},
}

// AllStatuses returns every planting state in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusPlanned, StatusAvailable, StatusSold, StatusCancelled}
}

// ParseStatus returns the Status for a stored value.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusAvailable, StatusSold, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition reports whether a planting may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// Planting is one crop cycle on one plot.
type Planting struct {
	PlantingID          string   `json:"planting_id"`
	ProducerID          string   `json:"producer_id"`
	PlotID              string   `json:"plot_id"`
	Crop                string   `json:"crop"`
	PlantingDate        Date     `json:"planting_date"`
	ExpectedHarvestDate Date     `json:"expected_harvest_date"`
	ActualHarvestDate   Date     `json:"actual_harvest_date"`
	HarvestedQuantity   *float64 `json:"harvested_quantity"`
	Unit                string   `json:"unit,omitempty"`
	Status              Status   `json:"status"`
	Notes               string   `json:"notes,omitempty"`
	PreviousCrop        string   `json:"previous_crop,omitempty"`
}

// ValidateDates checks the cross-field date rules: the expected harvest
// date must be strictly after the planting date and the actual harvest
// date, when set, must not precede it.
func (p *Planting) ValidateDates() error {
	if p.PlantingDate.IsZero() {
		return ErrMissingPlantingDate
	}
	if !p.ExpectedHarvestDate.IsZero() && !p.ExpectedHarvestDate.After(p.PlantingDate) {
		return ErrInvalidDates
	}
	if !p.ActualHarvestDate.IsZero() && p.ActualHarvestDate.Before(p.PlantingDate) {
		return ErrHarvestBeforePlant
	}
	return nil
}

// ReferenceDate is the actual harvest date once the crop is available and
// the expected harvest date otherwise.
func (p *Planting) ReferenceDate() Date {
	if p.Status == StatusAvailable {
		return p.ActualHarvestDate
	}
	return p.ExpectedHarvestDate
}

// ConfirmHarvest stamps the harvest fields and moves the planting from
// Planned to Available. Returns ErrInvalidTransition for any other state
// and ErrHarvestBeforePlant when the date precedes the planting date.
func (p *Planting) ConfirmHarvest(on Date, quantity float64, unit string) error {
	if !p.Status.CanTransition(StatusAvailable) {
		return ErrInvalidTransition
	}
	if on.IsZero() || unit == "" {
		return ErrInvalidData
	}
	if !p.PlantingDate.IsZero() && on.Before(p.PlantingDate) {
		return ErrHarvestBeforePlant
	}
	p.ActualHarvestDate = on
	p.HarvestedQuantity = &quantity
	p.Unit = unit
	p.Status = StatusAvailable
	return nil
}

// Transition moves the planting to next if the state machine allows it.
func (p *Planting) Transition(next Status) error {
	if !p.Status.CanTransition(next) {
		return ErrInvalidTransition
	}
	p.Status = next
	return nil
}
