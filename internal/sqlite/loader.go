package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// Bulk loaders read whole tables for the reports. They neither filter nor
// paginate.

// LoadProducerTrees returns every producer with its plots. Producers are
// ordered by name and plots by code.
func (b *Backend) LoadProducerTrees() ([]types.ProducerTree, error) {
	producers, err := b.producers.List()
	if err != nil {
		return nil, err
	}
	plots, err := b.LoadPlots()
	if err != nil {
		return nil, err
	}

	byProducer := make(map[string][]types.Plot)
	for _, p := range plots {
		byProducer[p.ProducerID] = append(byProducer[p.ProducerID], p)
	}
	trees := make([]types.ProducerTree, 0, len(producers))
	for _, p := range producers {
		trees = append(trees, types.ProducerTree{Producer: p, Plots: byProducer[p.ProducerID]})
	}
	return trees, nil
}

// LoadPlots returns every plot ordered by producer and code.
func (b *Backend) LoadPlots() ([]types.Plot, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query("SELECT " + plotColumns + " FROM plots ORDER BY producer_id, code")
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

// LoadPlantings returns every planting.
func (b *Backend) LoadPlantings() ([]types.Planting, error) {
	return b.plantings.list("SELECT " + plantingColumns + " FROM plantings ORDER BY planting_id")
}

// LoadInputRecords returns every input record.
func (b *Backend) LoadInputRecords() ([]types.InputRecord, error) {
	return b.inputs.list("SELECT " + inputRecordColumns + " FROM input_records ORDER BY applied_on DESC, record_id")
}

// LoadCertifications returns the certification rows keyed by producer id.
func (b *Backend) LoadCertifications() (map[string]types.Certification, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query("SELECT " + certificationColumns + " FROM certification_status")
	if err != nil {
		return nil, fmt.Errorf("querying certification status: %w", err)
	}
	defer rows.Close()

	out := make(map[string]types.Certification)
	for rows.Next() {
		c, err := hydrateCertification(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating certification: %w", err)
		}
		out[c.ProducerID] = c
	}
	return out, rows.Err()
}

// LoadDemands returns every demand ordered by the date needed.
func (b *Backend) LoadDemands() ([]types.Demand, error) {
	return b.demands.List()
}
