package sqlite

import (
	"fmt"

	"go.uber.org/zap"
)

// bootstrap creates every table in schemaDDL that does not exist yet,
// together with its indexes. Existing tables are never altered or dropped.
// Runs in a single transaction.
func (b *Backend) bootstrap() error {
	existing, err := b.existingTables()
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	created := 0
	for _, def := range schemaDDL {
		if existing[def.name] {
			continue
		}
		if _, err := tx.Exec(def.create); err != nil {
			return fmt.Errorf("creating table %s: %w", def.name, err)
		}
		for _, idx := range def.indexes {
			if _, err := tx.Exec(idx); err != nil {
				return fmt.Errorf("creating index on %s: %w", def.name, err)
			}
		}
		b.log.Debug("table created", zap.String("table", def.name))
		created++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	b.log.Debug("schema ready", zap.Int("created", created), zap.Int("existing", len(existing)))
	return nil
}

// existingTables returns the set of table names already in the database.
func (b *Backend) existingTables() (map[string]bool, error) {
	rows, err := b.db.Query(b.dialect.listTablesQuery())
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables: %w", err)
	}
	return names, nil
}
