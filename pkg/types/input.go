package types

// InputRecord logs an application of an organic input to a plot.
// Quantity is free text ("2 t", "50 L/ha").
type InputRecord struct {
	RecordID   string `json:"record_id"`
	ProducerID string `json:"producer_id"`
	PlotID     string `json:"plot_id"`
	AppliedOn  Date   `json:"applied_on"`
	InputType  string `json:"input_type"`
	Quantity   string `json:"quantity,omitempty"`
	Notes      string `json:"notes,omitempty"`
}
