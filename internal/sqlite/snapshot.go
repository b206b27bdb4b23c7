package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// SnapshotCounts reports how many records each table file holds.
type SnapshotCounts map[string]int

// snapshotFile names the JSONL file for a table.
func snapshotFile(dir, table string) string {
	return filepath.Join(dir, table+".jsonl")
}

// ExportSnapshot writes every table to <dir>/<table>.jsonl. Each file is
// replaced atomically.
func (b *Backend) ExportSnapshot(dir string) (SnapshotCounts, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	producers, err := b.producers.List()
	if err != nil {
		return nil, err
	}
	plots, err := b.LoadPlots()
	if err != nil {
		return nil, err
	}
	plantings, err := b.LoadPlantings()
	if err != nil {
		return nil, err
	}
	inputs, err := b.LoadInputRecords()
	if err != nil {
		return nil, err
	}
	certMap, err := b.LoadCertifications()
	if err != nil {
		return nil, err
	}
	certs := make([]types.Certification, 0, len(certMap))
	for _, c := range certMap {
		certs = append(certs, c)
	}
	sort.Slice(certs, func(i, j int) bool { return certs[i].ProducerID < certs[j].ProducerID })
	demands, err := b.LoadDemands()
	if err != nil {
		return nil, err
	}

	writes := []struct {
		table string
		write func(path string) error
		n     int
	}{
		{tableProducers, func(p string) error { return writeJSONL(p, producers) }, len(producers)},
		{tablePlots, func(p string) error { return writeJSONL(p, plots) }, len(plots)},
		{tablePlantings, func(p string) error { return writeJSONL(p, plantings) }, len(plantings)},
		{tableInputRecords, func(p string) error { return writeJSONL(p, inputs) }, len(inputs)},
		{tableCertifications, func(p string) error { return writeJSONL(p, certs) }, len(certs)},
		{tableDemands, func(p string) error { return writeJSONL(p, demands) }, len(demands)},
	}

	counts := make(SnapshotCounts, len(writes))
	for _, w := range writes {
		if err := w.write(snapshotFile(dir, w.table)); err != nil {
			return nil, fmt.Errorf("writing %s.jsonl: %w", w.table, err)
		}
		counts[w.table] = w.n
	}
	b.log.Info("snapshot exported", zap.String("dir", dir), zap.Any("counts", counts))
	return counts, nil
}

// ImportSnapshot loads the JSONL files written by ExportSnapshot into the
// database in one transaction. Missing files are treated as empty tables.
// Any conflict with existing rows rolls the whole import back.
func (b *Backend) ImportSnapshot(dir string) (SnapshotCounts, error) {
	producers, err := decodeJSONL[types.Producer](snapshotFile(dir, tableProducers))
	if err != nil {
		return nil, err
	}
	plots, err := decodeJSONL[types.Plot](snapshotFile(dir, tablePlots))
	if err != nil {
		return nil, err
	}
	plantings, err := decodeJSONL[types.Planting](snapshotFile(dir, tablePlantings))
	if err != nil {
		return nil, err
	}
	inputs, err := decodeJSONL[types.InputRecord](snapshotFile(dir, tableInputRecords))
	if err != nil {
		return nil, err
	}
	certs, err := decodeJSONL[types.Certification](snapshotFile(dir, tableCertifications))
	if err != nil {
		return nil, err
	}
	demands, err := decodeJSONL[types.Demand](snapshotFile(dir, tableDemands))
	if err != nil {
		return nil, err
	}

	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range producers {
		if err := b.execTx(tx, "INSERT INTO producers ("+producerColumns+") VALUES (?, ?, ?, ?, ?)",
			p.ProducerID, p.Name, p.Location, nullString(p.Contact), nullString(p.Association)); err != nil {
			return nil, fmt.Errorf("importing producer %s: %w", p.ProducerID, err)
		}
	}
	for _, p := range plots {
		if err := b.execTx(tx, "INSERT INTO plots ("+plotColumns+") VALUES (?, ?, ?, ?, ?)",
			p.PlotID, p.ProducerID, p.Code, p.AreaHa, nullString(p.SoilType)); err != nil {
			return nil, fmt.Errorf("importing plot %s: %w", p.PlotID, err)
		}
	}
	for _, p := range plantings {
		if !p.Status.Valid() {
			return nil, fmt.Errorf("importing planting %s: %w", p.PlantingID, types.ErrInvalidStatus)
		}
		if err := b.execTx(tx, "INSERT INTO plantings ("+plantingColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			p.PlantingID, p.ProducerID, p.PlotID, p.Crop, p.PlantingDate, p.ExpectedHarvestDate,
			p.ActualHarvestDate, nullFloat(p.HarvestedQuantity), nullString(p.Unit), string(p.Status),
			nullString(p.Notes), nullString(p.PreviousCrop)); err != nil {
			return nil, fmt.Errorf("importing planting %s: %w", p.PlantingID, err)
		}
	}
	for _, r := range inputs {
		if err := b.execTx(tx, "INSERT INTO input_records ("+inputRecordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			r.RecordID, r.ProducerID, r.PlotID, r.AppliedOn, r.InputType, nullString(r.Quantity), nullString(r.Notes)); err != nil {
			return nil, fmt.Errorf("importing input record %s: %w", r.RecordID, err)
		}
	}
	for _, c := range certs {
		if err := b.execTx(tx, "INSERT INTO certification_status ("+certificationColumns+") VALUES (?, ?, ?, ?, ?)",
			c.ProducerID, boolInt(c.Certified), boolInt(c.Documentation), boolInt(c.Inspection), boolInt(c.Approval)); err != nil {
			return nil, fmt.Errorf("importing certification %s: %w", c.ProducerID, err)
		}
	}
	for _, d := range demands {
		registered := d.RegisteredAt
		if registered.IsZero() {
			registered = b.now()
		}
		if err := b.execTx(tx, "INSERT INTO demands ("+demandColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			d.DemandID, d.Crop, d.Quantity, d.Unit, d.NeededBy, nullString(d.Notes), registered.Format(time.RFC3339)); err != nil {
			return nil, fmt.Errorf("importing demand %s: %w", d.DemandID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}
	counts := SnapshotCounts{
		tableProducers:      len(producers),
		tablePlots:          len(plots),
		tablePlantings:      len(plantings),
		tableInputRecords:   len(inputs),
		tableCertifications: len(certs),
		tableDemands:        len(demands),
	}
	b.log.Info("snapshot imported", zap.String("dir", dir), zap.Any("counts", counts))
	return counts, nil
}

func (b *Backend) execTx(tx *sql.Tx, query string, args ...any) error {
	_, err := tx.Exec(b.rebind(query), args...)
	return err
}
