package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

const certificationColumns = "producer_id, certified, stage_documentation, stage_inspection, stage_approval"

// stageColumns maps checklist stages to their columns.
var stageColumns = map[types.Stage]string{
	types.StageDocumentation: "stage_documentation",
	types.StageInspection:    "stage_inspection",
	types.StageApproval:      "stage_approval",
}

// CertificationsTable reads and writes the per-producer certification
// rows. Each write is its own commit and returns the row as re-read from
// the database.
type CertificationsTable struct {
	backend *Backend
}

// Get returns the certification status of a producer.
func (ct *CertificationsTable) Get(producerID string) (types.Certification, error) {
	if producerID == "" {
		return types.Certification{}, types.ErrInvalidID
	}
	db, err := ct.backend.conn()
	if err != nil {
		return types.Certification{}, err
	}
	row := db.QueryRow(ct.backend.rebind("SELECT "+certificationColumns+" FROM certification_status WHERE producer_id = ?"), producerID)
	c, err := hydrateCertification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Certification{}, types.ErrNotFound
		}
		return types.Certification{}, fmt.Errorf("getting certification %s: %w", producerID, err)
	}
	return c, nil
}

// SetCertified sets the overall certified flag.
func (ct *CertificationsTable) SetCertified(producerID string, certified bool) (types.Certification, error) {
	db, err := ct.backend.conn()
	if err != nil {
		return types.Certification{}, err
	}
	res, err := db.Exec(
		ct.backend.rebind("UPDATE certification_status SET certified = ? WHERE producer_id = ?"),
		boolInt(certified), producerID,
	)
	if err != nil {
		return types.Certification{}, fmt.Errorf("updating certified flag: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return types.Certification{}, err
	}
	ct.backend.log.Debug("certified flag set", zap.String("producer_id", producerID), zap.Bool("certified", certified))
	return ct.Get(producerID)
}

// ToggleStage flips one checklist stage.
func (ct *CertificationsTable) ToggleStage(producerID string, stage types.Stage) (types.Certification, error) {
	col, ok := stageColumns[stage]
	if !ok {
		return types.Certification{}, types.ErrInvalidData
	}
	db, err := ct.backend.conn()
	if err != nil {
		return types.Certification{}, err
	}
	res, err := db.Exec(
		ct.backend.rebind("UPDATE certification_status SET "+col+" = 1 - "+col+" WHERE producer_id = ?"),
		producerID,
	)
	if err != nil {
		return types.Certification{}, fmt.Errorf("toggling %s: %w", col, err)
	}
	if err := requireAffected(res); err != nil {
		return types.Certification{}, err
	}
	ct.backend.log.Debug("certification stage toggled", zap.String("producer_id", producerID), zap.String("stage", col))
	return ct.Get(producerID)
}

func hydrateCertification(row rowScanner) (types.Certification, error) {
	var (
		c                              types.Certification
		certified, doc, insp, approval int64
	)
	if err := row.Scan(&c.ProducerID, &certified, &doc, &insp, &approval); err != nil {
		return types.Certification{}, err
	}
	c.Certified = certified != 0
	c.Documentation = doc != 0
	c.Inspection = insp != 0
	c.Approval = approval != 0
	return c, nil
}
