package types

import "errors"

// Storage lifecycle errors.
var (
	ErrAlreadyAttached = errors.New("backend already attached")
	ErrDetached        = errors.New("backend is detached")
)

// Record errors returned by the storage layer.
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidData = errors.New("invalid data")
	ErrDuplicateID = errors.New("identifier already in use")
)

// Date rule violations.
var (
	ErrInvalidDate         = errors.New("invalid date, use DD/MM/YYYY")
	ErrInvalidDates        = errors.New("expected harvest date must be after the planting date")
	ErrHarvestBeforePlant  = errors.New("harvest date precedes the planting date")
	ErrPlantingWindow      = errors.New("planting date outside the allowed window")
	ErrNeededInPast        = errors.New("date needed is in the past")
	ErrMissingPlantingDate = errors.New("planting date is required")
)

// Planting lifecycle errors.
var (
	ErrInvalidStatus     = errors.New("invalid planting status")
	ErrInvalidTransition = errors.New("invalid status transition")
)
