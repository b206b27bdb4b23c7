package types

// Stage is one item of the certification checklist.
type Stage int

// Checklist stages, in display order.
const (
	StageDocumentation Stage = iota + 1
	StageInspection
	StageApproval
)

// Stages returns the checklist stages in display order.
func Stages() []Stage {
	return []Stage{StageDocumentation, StageInspection, StageApproval}
}

// Label returns the display name of the stage.
func (s Stage) Label() string {
	switch s {
	case StageDocumentation:
		return "Documentação"
	case StageInspection:
		return "Inspeção"
	case StageApproval:
		return "Aprovação"
	}
	return "?"
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	return s >= StageDocumentation && s <= StageApproval
}

// Certification is the organic certification status of a producer. The
// stages are informational; Certified is set on its own.
type Certification struct {
	ProducerID    string `json:"producer_id"`
	Certified     bool   `json:"certified"`
	Documentation bool   `json:"stage_documentation"`
	Inspection    bool   `json:"stage_inspection"`
	Approval      bool   `json:"stage_approval"`
}

// StageDone reports whether the given stage is checked.
func (c Certification) StageDone(s Stage) bool {
	switch s {
	case StageDocumentation:
		return c.Documentation
	case StageInspection:
		return c.Inspection
	case StageApproval:
		return c.Approval
	}
	return false
}
