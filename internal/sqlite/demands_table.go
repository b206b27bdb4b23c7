package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

const demandColumns = "demand_id, crop, quantity, unit, needed_by, notes, registered_at"

// DemandsTable reads and writes buyer demands. Demands have no edit
// operation.
type DemandsTable struct {
	backend *Backend
}

// Create assigns an id and inserts the demand. RegisteredAt defaults to
// the backend clock.
func (dt *DemandsTable) Create(d *types.Demand) error {
	d.Crop = strings.TrimSpace(d.Crop)
	if d.Crop == "" || d.Unit == "" || d.NeededBy.IsZero() || d.Quantity < 0 {
		return types.ErrInvalidData
	}
	if d.RegisteredAt.IsZero() {
		d.RegisteredAt = dt.backend.now()
	}
	db, err := dt.backend.conn()
	if err != nil {
		return err
	}

	id := newID()
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		dt.backend.rebind("INSERT INTO demands ("+demandColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
		id, d.Crop, d.Quantity, d.Unit, d.NeededBy, nullString(d.Notes), d.RegisteredAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("persisting demand: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing demand: %w", err)
	}
	d.DemandID = id
	return nil
}

// Get returns the demand with the given id.
func (dt *DemandsTable) Get(id string) (types.Demand, error) {
	if id == "" {
		return types.Demand{}, types.ErrInvalidID
	}
	db, err := dt.backend.conn()
	if err != nil {
		return types.Demand{}, err
	}
	row := db.QueryRow(dt.backend.rebind("SELECT "+demandColumns+" FROM demands WHERE demand_id = ?"), id)
	d, err := hydrateDemand(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Demand{}, types.ErrNotFound
		}
		return types.Demand{}, fmt.Errorf("getting demand %s: %w", id, err)
	}
	return d, nil
}

// Delete removes a demand.
func (dt *DemandsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := dt.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.Exec(dt.backend.rebind("DELETE FROM demands WHERE demand_id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting demand: %w", err)
	}
	return requireAffected(res)
}

// List returns every demand ordered by the date needed.
func (dt *DemandsTable) List() ([]types.Demand, error) {
	db, err := dt.backend.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query("SELECT " + demandColumns + " FROM demands ORDER BY needed_by, registered_at")
	if err != nil {
		return nil, fmt.Errorf("querying demands: %w", err)
	}
	defer rows.Close()

	var out []types.Demand
	for rows.Next() {
		d, err := hydrateDemand(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating demand: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func hydrateDemand(row rowScanner) (types.Demand, error) {
	var (
		d          types.Demand
		notes      sql.NullString
		registered string
	)
	if err := row.Scan(&d.DemandID, &d.Crop, &d.Quantity, &d.Unit, &d.NeededBy, &notes, &registered); err != nil {
		return types.Demand{}, err
	}
	d.Notes = notes.String
	at, err := parseTimestamp(registered)
	if err != nil {
		return types.Demand{}, fmt.Errorf("demand %s: %w", d.DemandID, err)
	}
	d.RegisteredAt = at
	return d, nil
}

// timestampLayouts covers RFC 3339 as written here and the CURRENT_TIMESTAMP
// column default of each database.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999-07:00",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing timestamp %q", s)
}
