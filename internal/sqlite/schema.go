package sqlite

// Table names.
const (
	tableProducers      = "producers"
	tablePlots          = "plots"
	tablePlantings      = "plantings"
	tableInputRecords   = "input_records"
	tableCertifications = "certification_status"
	tableDemands        = "demands"
)

// Schema DDL. The column types are understood by both SQLite and
// PostgreSQL: dates are ISO text, flags are 0/1 integers.
const (
	createProducers = `CREATE TABLE producers (
    producer_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    location TEXT NOT NULL,
    contact TEXT,
    association TEXT
);`

	createPlots = `CREATE TABLE plots (
    plot_id TEXT PRIMARY KEY,
    producer_id TEXT NOT NULL,
    code TEXT NOT NULL,
    area_ha DOUBLE PRECISION NOT NULL,
    soil_type TEXT,
    UNIQUE (producer_id, code),
    FOREIGN KEY (producer_id) REFERENCES producers(producer_id) ON DELETE CASCADE
);`

	createPlantings = `CREATE TABLE plantings (
    planting_id TEXT PRIMARY KEY,
    producer_id TEXT NOT NULL,
    plot_id TEXT NOT NULL,
    crop TEXT NOT NULL,
    planting_date TEXT,
    expected_harvest_date TEXT,
    actual_harvest_date TEXT,
    harvested_quantity DOUBLE PRECISION,
    unit TEXT,
    status TEXT NOT NULL CHECK (status IN ('Planejado', 'Disponível', 'Vendido', 'Cancelado')),
    notes TEXT,
    previous_crop TEXT,
    FOREIGN KEY (producer_id) REFERENCES producers(producer_id) ON DELETE CASCADE,
    FOREIGN KEY (plot_id) REFERENCES plots(plot_id) ON DELETE CASCADE
);`

	createInputRecords = `CREATE TABLE input_records (
    record_id TEXT PRIMARY KEY,
    producer_id TEXT NOT NULL,
    plot_id TEXT NOT NULL,
    applied_on TEXT NOT NULL,
    input_type TEXT NOT NULL,
    quantity TEXT,
    notes TEXT,
    FOREIGN KEY (producer_id) REFERENCES producers(producer_id) ON DELETE CASCADE,
    FOREIGN KEY (plot_id) REFERENCES plots(plot_id) ON DELETE CASCADE
);`

	createCertifications = `CREATE TABLE certification_status (
    producer_id TEXT PRIMARY KEY,
    certified INTEGER NOT NULL DEFAULT 0 CHECK (certified IN (0, 1)),
    stage_documentation INTEGER NOT NULL DEFAULT 0 CHECK (stage_documentation IN (0, 1)),
    stage_inspection INTEGER NOT NULL DEFAULT 0 CHECK (stage_inspection IN (0, 1)),
    stage_approval INTEGER NOT NULL DEFAULT 0 CHECK (stage_approval IN (0, 1)),
    FOREIGN KEY (producer_id) REFERENCES producers(producer_id) ON DELETE CASCADE
);`

	createDemands = `CREATE TABLE demands (
    demand_id TEXT PRIMARY KEY,
    crop TEXT NOT NULL,
    quantity DOUBLE PRECISION NOT NULL,
    unit TEXT NOT NULL,
    needed_by TEXT NOT NULL,
    notes TEXT,
    registered_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
)

// Index DDL for the lookups the record operations perform.
const (
	idxPlotsProducer        = `CREATE INDEX IF NOT EXISTS idx_plots_producer ON plots(producer_id);`
	idxPlantingsProducer    = `CREATE INDEX IF NOT EXISTS idx_plantings_producer ON plantings(producer_id);`
	idxPlantingsPlot        = `CREATE INDEX IF NOT EXISTS idx_plantings_plot ON plantings(plot_id, planting_date);`
	idxPlantingsStatus      = `CREATE INDEX IF NOT EXISTS idx_plantings_status ON plantings(status);`
	idxInputRecordsProducer = `CREATE INDEX IF NOT EXISTS idx_input_records_producer ON input_records(producer_id);`
	idxInputRecordsPlot     = `CREATE INDEX IF NOT EXISTS idx_input_records_plot ON input_records(plot_id, applied_on);`
	idxDemandsNeededBy      = `CREATE INDEX IF NOT EXISTS idx_demands_needed_by ON demands(needed_by);`
)

// tableDef pairs a table with the statements that create it.
type tableDef struct {
	name    string
	create  string
	indexes []string
}

// schemaDDL lists every table in dependency order: referenced tables come
// before the tables that point at them.
var schemaDDL = []tableDef{
	{name: tableProducers, create: createProducers},
	{name: tablePlots, create: createPlots, indexes: []string{idxPlotsProducer}},
	{name: tablePlantings, create: createPlantings, indexes: []string{idxPlantingsProducer, idxPlantingsPlot, idxPlantingsStatus}},
	{name: tableInputRecords, create: createInputRecords, indexes: []string{idxInputRecordsProducer, idxInputRecordsPlot}},
	{name: tableCertifications, create: createCertifications},
	{name: tableDemands, create: createDemands, indexes: []string{idxDemandsNeededBy}},
}
