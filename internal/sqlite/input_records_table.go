package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

const inputRecordColumns = "record_id, producer_id, plot_id, applied_on, input_type, quantity, notes"

// InputRecordsTable reads and writes input applications. Records are
// never edited, only created and deleted.
type InputRecordsTable struct {
	backend *Backend
}

// Create assigns an id and inserts the record.
func (it *InputRecordsTable) Create(r *types.InputRecord) error {
	r.InputType = strings.TrimSpace(r.InputType)
	if r.ProducerID == "" || r.PlotID == "" {
		return types.ErrInvalidID
	}
	if r.InputType == "" || r.AppliedOn.IsZero() {
		return types.ErrInvalidData
	}
	db, err := it.backend.conn()
	if err != nil {
		return err
	}
	owned, err := rowExists(db,
		it.backend.rebind("SELECT 1 FROM plots WHERE plot_id = ? AND producer_id = ?"),
		r.PlotID, r.ProducerID,
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
		it.backend.rebind("INSERT INTO input_records ("+inputRecordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
		id, r.ProducerID, r.PlotID, r.AppliedOn, r.InputType, nullString(r.Quantity), nullString(r.Notes),
	)
	if err != nil {
		return fmt.Errorf("persisting input record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing input record: %w", err)
	}
	r.RecordID = id
	return nil
}

// Get returns the record with the given id.
func (it *InputRecordsTable) Get(id string) (types.InputRecord, error) {
	if id == "" {
		return types.InputRecord{}, types.ErrInvalidID
	}
	db, err := it.backend.conn()
	if err != nil {
		return types.InputRecord{}, err
	}
	row := db.QueryRow(it.backend.rebind("SELECT "+inputRecordColumns+" FROM input_records WHERE record_id = ?"), id)
	r, err := hydrateInputRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.InputRecord{}, types.ErrNotFound
		}
		return types.InputRecord{}, fmt.Errorf("getting input record %s: %w", id, err)
	}
	return r, nil
}

// Delete removes a record.
func (it *InputRecordsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := it.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.Exec(it.backend.rebind("DELETE FROM input_records WHERE record_id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting input record: %w", err)
	}
	return requireAffected(res)
}

// ListByProducer returns the producer's records, most recent first.
func (it *InputRecordsTable) ListByProducer(producerID string) ([]types.InputRecord, error) {
	return it.list("SELECT "+inputRecordColumns+" FROM input_records WHERE producer_id = ? ORDER BY applied_on DESC", producerID)
}

// ListByPlot returns the plot's records applied on or before the given
// date, most recent first, at most limit rows (all when limit <= 0).
func (it *InputRecordsTable) ListByPlot(plotID string, onOrBefore types.Date, limit int) ([]types.InputRecord, error) {
	query := "SELECT " + inputRecordColumns + " FROM input_records WHERE plot_id = ?"
	args := []any{plotID}
	if !onOrBefore.IsZero() {
		query += " AND applied_on <= ?"
		args = append(args, onOrBefore)
	}
	query += " ORDER BY applied_on DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return it.list(query, args...)
}

func (it *InputRecordsTable) list(query string, args ...any) ([]types.InputRecord, error) {
	db, err := it.backend.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(it.backend.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying input records: %w", err)
	}
	defer rows.Close()

	var out []types.InputRecord
	for rows.Next() {
		r, err := hydrateInputRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating input record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func hydrateInputRecord(row rowScanner) (types.InputRecord, error) {
	var (
		r        types.InputRecord
		quantity sql.NullString
		notes    sql.NullString
	)
	if err := row.Scan(&r.RecordID, &r.ProducerID, &r.PlotID, &r.AppliedOn, &r.InputType, &quantity, &notes); err != nil {
		return types.InputRecord{}, err
	}
	r.Quantity = quantity.String
	r.Notes = notes.String
	return r, nil
}
