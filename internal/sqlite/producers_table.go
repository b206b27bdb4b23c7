package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

const producerColumns = "producer_id, name, location, contact, association"

// ProducersTable reads and writes producers. Creating a producer also
// creates its certification row; deleting one removes everything it owns.
type ProducersTable struct {
	backend *Backend
}

// Exists reports whether a producer with exactly this id is stored.
func (pt *ProducersTable) Exists(id string) (bool, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return false, err
	}
	return rowExists(db, pt.backend.rebind("SELECT 1 FROM producers WHERE producer_id = ?"), id)
}

// Create inserts the producer and a certification row with every flag
// cleared, in one transaction. Returns ErrDuplicateID when the id is taken.
func (pt *ProducersTable) Create(p types.Producer) error {
	p.ProducerID = strings.TrimSpace(p.ProducerID)
	if p.ProducerID == "" {
		return types.ErrInvalidID
	}
	if p.Name == "" || p.Location == "" {
		return types.ErrInvalidData
	}

	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	exists, err := rowExists(db, pt.backend.rebind("SELECT 1 FROM producers WHERE producer_id = ?"), p.ProducerID)
	if err != nil {
		return fmt.Errorf("checking producer existence: %w", err)
	}
	if exists {
		return types.ErrDuplicateID
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		pt.backend.rebind("INSERT INTO producers ("+producerColumns+") VALUES (?, ?, ?, ?, ?)"),
		p.ProducerID, p.Name, p.Location, nullString(p.Contact), nullString(p.Association),
	)
	if err != nil {
		return fmt.Errorf("persisting producer: %w", err)
	}
	_, err = tx.Exec(
		pt.backend.rebind("INSERT INTO certification_status (producer_id, certified, stage_documentation, stage_inspection, stage_approval) VALUES (?, 0, 0, 0, 0)"),
		p.ProducerID,
	)
	if err != nil {
		return fmt.Errorf("persisting certification status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing producer: %w", err)
	}
	pt.backend.log.Debug("producer created", zap.String("producer_id", p.ProducerID))
	return nil
}

// Get returns the producer with the given id.
func (pt *ProducersTable) Get(id string) (types.Producer, error) {
	if id == "" {
		return types.Producer{}, types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return types.Producer{}, err
	}
	row := db.QueryRow(pt.backend.rebind("SELECT "+producerColumns+" FROM producers WHERE producer_id = ?"), id)
	p, err := hydrateProducer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Producer{}, types.ErrNotFound
		}
		return types.Producer{}, fmt.Errorf("getting producer %s: %w", id, err)
	}
	return p, nil
}

// Update overwrites the mutable fields of a producer. The id never changes.
func (pt *ProducersTable) Update(p types.Producer) error {
	if p.ProducerID == "" {
		return types.ErrInvalidID
	}
	if p.Name == "" || p.Location == "" {
		return types.ErrInvalidData
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.Exec(
		pt.backend.rebind("UPDATE producers SET name = ?, location = ?, contact = ?, association = ? WHERE producer_id = ?"),
		p.Name, p.Location, nullString(p.Contact), nullString(p.Association), p.ProducerID,
	)
	if err != nil {
		return fmt.Errorf("updating producer: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a producer and, child first, its input records,
// plantings, plots and certification row.
func (pt *ProducersTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}
	exists, err := rowExists(db, pt.backend.rebind("SELECT 1 FROM producers WHERE producer_id = ?"), id)
	if err != nil {
		return fmt.Errorf("checking producer existence: %w", err)
	}
	if !exists {
		return types.ErrNotFound
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	cascade := []struct {
		what  string
		query string
	}{
		{"input records", "DELETE FROM input_records WHERE producer_id = ?"},
		{"plantings", "DELETE FROM plantings WHERE producer_id = ?"},
		{"plots", "DELETE FROM plots WHERE producer_id = ?"},
		{"certification status", "DELETE FROM certification_status WHERE producer_id = ?"},
		{"producer", "DELETE FROM producers WHERE producer_id = ?"},
	}
	for _, step := range cascade {
		if _, err := tx.Exec(pt.backend.rebind(step.query), id); err != nil {
			return fmt.Errorf("deleting %s: %w", step.what, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing producer deletion: %w", err)
	}
	pt.backend.log.Debug("producer deleted", zap.String("producer_id", id))
	return nil
}

// List returns every producer ordered by name.
func (pt *ProducersTable) List() ([]types.Producer, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query("SELECT " + producerColumns + " FROM producers ORDER BY name, producer_id")
	if err != nil {
		return nil, fmt.Errorf("querying producers: %w", err)
	}
	defer rows.Close()

	var out []types.Producer
	for rows.Next() {
		p, err := hydrateProducer(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating producer: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func hydrateProducer(row rowScanner) (types.Producer, error) {
	var (
		p           types.Producer
		contact     sql.NullString
		association sql.NullString
	)
	if err := row.Scan(&p.ProducerID, &p.Name, &p.Location, &contact, &association); err != nil {
		return types.Producer{}, err
	}
	p.Contact = contact.String
	p.Association = association.String
	return p, nil
}

// rowExists runs a SELECT 1 query and reports whether it returned a row.
func rowExists(db *sql.DB, query string, args ...any) (bool, error) {
	var one int
	err := db.QueryRow(query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// requireAffected maps an update or delete that touched no row to
// ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
