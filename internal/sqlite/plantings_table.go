package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

const plantingColumns = "planting_id, producer_id, plot_id, crop, planting_date, expected_harvest_date, " +
	"actual_harvest_date, harvested_quantity, unit, status, notes, previous_crop"

// PlantingsTable reads and writes plantings. Every write re-checks the date
// rules of types.Planting before touching the database.
type PlantingsTable struct {
	backend *Backend
}

// Create assigns an id and inserts the planting with status Planejado when
// no status is given.
func (pt *PlantingsTable) Create(p *types.Planting) error {
	p.Crop = strings.TrimSpace(p.Crop)
	if p.ProducerID == "" || p.PlotID == "" {
		return types.ErrInvalidID
	}
	if p.Crop == "" {
		return types.ErrInvalidData
	}
	if p.Status == "" {
		p.Status = types.StatusPlanned
	}
	if !p.Status.Valid() {
		return types.ErrInvalidStatus
	}
	if err := p.ValidateDates(); err != nil {
		return err
	}

	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	owned, err := rowExists(db,
		pt.backend.rebind("SELECT 1 FROM plots WHERE plot_id = ? AND producer_id = ?"),
		p.PlotID, p.ProducerID,
	)
	if err != nil {
		return fmt.Errorf("checking plot existence: %w", err)
	}
	if !owned {
		return types.ErrNotFound
	}

	id := newID()
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		pt.backend.rebind("INSERT INTO plantings ("+plantingColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		id, p.ProducerID, p.PlotID, p.Crop, p.PlantingDate, p.ExpectedHarvestDate,
		p.ActualHarvestDate, nullFloat(p.HarvestedQuantity), nullString(p.Unit), string(p.Status),
		nullString(p.Notes), nullString(p.PreviousCrop),
	)
	if err != nil {
		return fmt.Errorf("persisting planting: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing planting: %w", err)
	}
	p.PlantingID = id
	pt.backend.log.Debug("planting created", zap.String("planting_id", id), zap.String("crop", p.Crop))
	return nil
}

// Get returns the planting with the given id.
func (pt *PlantingsTable) Get(id string) (types.Planting, error) {
	if id == "" {
		return types.Planting{}, types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return types.Planting{}, err
	}
	row := db.QueryRow(pt.backend.rebind("SELECT "+plantingColumns+" FROM plantings WHERE planting_id = ?"), id)
	p, err := hydratePlanting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Planting{}, types.ErrNotFound
		}
		return types.Planting{}, fmt.Errorf("getting planting %s: %w", id, err)
	}
	return p, nil
}

// Update overwrites the editable fields of a planting. The date rules are
// checked first; a violation leaves the stored row untouched.
func (pt *PlantingsTable) Update(p types.Planting) error {
	p.Crop = strings.TrimSpace(p.Crop)
	if p.PlantingID == "" {
		return types.ErrInvalidID
	}
	if p.Crop == "" {
		return types.ErrInvalidData
	}
	if !p.Status.Valid() {
		return types.ErrInvalidStatus
	}
	if err := p.ValidateDates(); err != nil {
		return err
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.Exec(
		pt.backend.rebind(`UPDATE plantings SET crop = ?, planting_date = ?, expected_harvest_date = ?,
    actual_harvest_date = ?, harvested_quantity = ?, unit = ?, status = ?, notes = ?, previous_crop = ?
    WHERE planting_id = ?`),
		p.Crop, p.PlantingDate, p.ExpectedHarvestDate, p.ActualHarvestDate,
		nullFloat(p.HarvestedQuantity), nullString(p.Unit), string(p.Status),
		nullString(p.Notes), nullString(p.PreviousCrop), p.PlantingID,
	)
	if err != nil {
		return fmt.Errorf("updating planting: %w", err)
	}
	return requireAffected(res)
}

// ConfirmHarvest moves a Planejado planting to Disponível and stamps the
// harvest date, quantity and unit. Returns the updated planting.
func (pt *PlantingsTable) ConfirmHarvest(id string, on types.Date, quantity float64, unit string) (types.Planting, error) {
	p, err := pt.Get(id)
	if err != nil {
		return types.Planting{}, err
	}
	from := p.Status
	if err := p.ConfirmHarvest(on, quantity, unit); err != nil {
		return types.Planting{}, err
	}

	db, err := pt.backend.conn()
	if err != nil {
		return types.Planting{}, err
	}
	res, err := db.Exec(
		pt.backend.rebind(`UPDATE plantings SET actual_harvest_date = ?, harvested_quantity = ?, unit = ?, status = ?
    WHERE planting_id = ? AND status = ?`),
		p.ActualHarvestDate, quantity, unit, string(p.Status), id, string(from),
	)
	if err != nil {
		return types.Planting{}, fmt.Errorf("confirming harvest: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return types.Planting{}, err
	}
	pt.backend.log.Debug("harvest confirmed", zap.String("planting_id", id))
	return p, nil
}

// SetStatus moves a planting to next when the status machine allows it.
// Returns ErrInvalidTransition otherwise.
func (pt *PlantingsTable) SetStatus(id string, next types.Status) (types.Planting, error) {
	p, err := pt.Get(id)
	if err != nil {
		return types.Planting{}, err
	}
	from := p.Status
	if err := p.Transition(next); err != nil {
		return types.Planting{}, err
	}

	db, err := pt.backend.conn()
	if err != nil {
		return types.Planting{}, err
	}
	res, err := db.Exec(
		pt.backend.rebind("UPDATE plantings SET status = ? WHERE planting_id = ? AND status = ?"),
		string(next), id, string(from),
	)
	if err != nil {
		return types.Planting{}, fmt.Errorf("updating planting status: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return types.Planting{}, err
	}
	return p, nil
}

// Delete removes a planting.
func (pt *PlantingsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.Exec(pt.backend.rebind("DELETE FROM plantings WHERE planting_id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting planting: %w", err)
	}
	return requireAffected(res)
}

// LatestOnPlot returns the plot's planting with the most recent planting
// date. The boolean is false when the plot has none.
func (pt *PlantingsTable) LatestOnPlot(plotID string) (types.Planting, bool, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return types.Planting{}, false, err
	}
	row := db.QueryRow(
		pt.backend.rebind(`SELECT `+plantingColumns+` FROM plantings
    WHERE plot_id = ? AND planting_date IS NOT NULL
    ORDER BY planting_date DESC LIMIT 1`),
		plotID,
	)
	p, err := hydratePlanting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Planting{}, false, nil
	}
	if err != nil {
		return types.Planting{}, false, fmt.Errorf("finding latest planting: %w", err)
	}
	return p, true, nil
}

// ListByProducer returns the producer's plantings, optionally restricted
// to the given statuses, most recent planting date first and undated rows
// last.
func (pt *PlantingsTable) ListByProducer(producerID string, statuses ...types.Status) ([]types.Planting, error) {
	query := "SELECT " + plantingColumns + " FROM plantings WHERE producer_id = ?"
	args := []any{producerID}
	if len(statuses) > 0 {
		marks := make([]string, len(statuses))
		for i, s := range statuses {
			marks[i] = "?"
			args = append(args, string(s))
		}
		query += " AND status IN (" + strings.Join(marks, ", ") + ")"
	}
	query += " ORDER BY " + pt.backend.dialect.newestFirst("planting_date")
	return pt.list(query, args...)
}

// ListByPlot returns every planting on the plot, most recent planting
// date first and undated rows last.
func (pt *PlantingsTable) ListByPlot(plotID string) ([]types.Planting, error) {
	return pt.list("SELECT "+plantingColumns+" FROM plantings WHERE plot_id = ? ORDER BY "+
		pt.backend.dialect.newestFirst("planting_date"), plotID)
}

func (pt *PlantingsTable) list(query string, args ...any) ([]types.Planting, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(pt.backend.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying plantings: %w", err)
	}
	defer rows.Close()

	var out []types.Planting
	for rows.Next() {
		p, err := hydratePlanting(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating planting: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func hydratePlanting(row rowScanner) (types.Planting, error) {
	var (
		p        types.Planting
		quantity sql.NullFloat64
		unit     sql.NullString
		status   string
		notes    sql.NullString
		previous sql.NullString
	)
	err := row.Scan(
		&p.PlantingID, &p.ProducerID, &p.PlotID, &p.Crop,
		&p.PlantingDate, &p.ExpectedHarvestDate, &p.ActualHarvestDate,
		&quantity, &unit, &status, &notes, &previous,
	)
	if err != nil {
		return types.Planting{}, err
	}
	st, err := types.ParseStatus(status)
	if err != nil {
		return types.Planting{}, fmt.Errorf("planting %s: %w", p.PlantingID, err)
	}
	p.Status = st
	if quantity.Valid {
		q := quantity.Float64
		p.HarvestedQuantity = &q
	}
	p.Unit = unit.String
	p.Notes = notes.String
	p.PreviousCrop = previous.String
	return p, nil
}
