package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

const plotColumns = "plot_id, producer_id, code, area_ha, soil_type"

// PlotsTable reads and writes plots. Plot codes are unique per producer.
type PlotsTable struct {
	backend *Backend
}

// CodeExists reports whether the producer already has a plot with this
// code. excludePlotID, when set, ignores that plot so an edit can keep its
// own code.
func (pt *PlotsTable) CodeExists(producerID, code, excludePlotID string) (bool, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return false, err
	}
	return rowExists(db,
		pt.backend.rebind("SELECT 1 FROM plots WHERE producer_id = ? AND code = ? AND plot_id <> ?"),
		producerID, code, excludePlotID,
	)
}

// Create assigns an id and inserts the plot. Returns ErrDuplicateID when
// the producer already uses the code and ErrNotFound when the producer
// does not exist.
func (pt *PlotsTable) Create(p *types.Plot) error {
	p.Code = strings.TrimSpace(p.Code)
	if p.ProducerID == "" {
		return types.ErrInvalidID
	}
	if p.Code == "" || p.AreaHa < 0 {
		return types.ErrInvalidData
	}

	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	owner, err := rowExists(db, pt.backend.rebind("SELECT 1 FROM producers WHERE producer_id = ?"), p.ProducerID)
	if err != nil {
		return fmt.Errorf("checking producer existence: %w", err)
	}
	if !owner {
		return types.ErrNotFound
	}
	dup, err := pt.CodeExists(p.ProducerID, p.Code, "")
	if err != nil {
		return fmt.Errorf("checking plot code: %w", err)
	}
	if dup {
		return types.ErrDuplicateID
	}

	id := newID()
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		pt.backend.rebind("INSERT INTO plots ("+plotColumns+") VALUES (?, ?, ?, ?, ?)"),
		id, p.ProducerID, p.Code, p.AreaHa, nullString(p.SoilType),
	)
	if err != nil {
		return fmt.Errorf("persisting plot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing plot: %w", err)
	}
	p.PlotID = id
	pt.backend.log.Debug("plot created", zap.String("plot_id", id), zap.String("code", p.Code))
	return nil
}

// Get returns the plot with the given id.
func (pt *PlotsTable) Get(id string) (types.Plot, error) {
	if id == "" {
		return types.Plot{}, types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return types.Plot{}, err
	}
	row := db.QueryRow(pt.backend.rebind("SELECT "+plotColumns+" FROM plots WHERE plot_id = ?"), id)
	p, err := hydratePlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Plot{}, types.ErrNotFound
		}
		return types.Plot{}, fmt.Errorf("getting plot %s: %w", id, err)
	}
	return p, nil
}

// Update overwrites code, area and soil type. A code already used by
// another plot of the same producer is rejected with ErrDuplicateID.
func (pt *PlotsTable) Update(p types.Plot) error {
	p.Code = strings.TrimSpace(p.Code)
	if p.PlotID == "" {
		return types.ErrInvalidID
	}
	if p.Code == "" || p.AreaHa < 0 {
		return types.ErrInvalidData
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	dup, err := pt.CodeExists(p.ProducerID, p.Code, p.PlotID)
	if err != nil {
		return fmt.Errorf("checking plot code: %w", err)
	}
	if dup {
		return types.ErrDuplicateID
	}
	res, err := db.Exec(
		pt.backend.rebind("UPDATE plots SET code = ?, area_ha = ?, soil_type = ? WHERE plot_id = ?"),
		p.Code, p.AreaHa, nullString(p.SoilType), p.PlotID,
	)
	if err != nil {
		return fmt.Errorf("updating plot: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a plot with its input records and plantings.
func (pt *PlotsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	exists, err := rowExists(db, pt.backend.rebind("SELECT 1 FROM plots WHERE plot_id = ?"), id)
	if err != nil {
		return fmt.Errorf("checking plot existence: %w", err)
	}
	if !exists {
		return types.ErrNotFound
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(pt.backend.rebind("DELETE FROM input_records WHERE plot_id = ?"), id); err != nil {
		return fmt.Errorf("deleting input records: %w", err)
	}
	if _, err := tx.Exec(pt.backend.rebind("DELETE FROM plantings WHERE plot_id = ?"), id); err != nil {
		return fmt.Errorf("deleting plantings: %w", err)
	}
	if _, err := tx.Exec(pt.backend.rebind("DELETE FROM plots WHERE plot_id = ?"), id); err != nil {
		return fmt.Errorf("deleting plot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing plot deletion: %w", err)
	}
	pt.backend.log.Debug("plot deleted", zap.String("plot_id", id))
	return nil
}

// ListByProducer returns the producer's plots ordered by code.
func (pt *PlotsTable) ListByProducer(producerID string) ([]types.Plot, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		pt.backend.rebind("SELECT "+plotColumns+" FROM plots WHERE producer_id = ? ORDER BY code"),
		producerID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying plots: %w", err)
	}
	defer rows.Close()

	var out []types.Plot
	for rows.Next() {
		p, err := hydratePlot(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating plot: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func hydratePlot(row rowScanner) (types.Plot, error) {
	var (
		p    types.Plot
		soil sql.NullString
	)
	if err := row.Scan(&p.PlotID, &p.ProducerID, &p.Code, &p.AreaHa, &soil); err != nil {
		return types.Plot{}, err
	}
	p.SoilType = soil.String
	return p, nil
}
