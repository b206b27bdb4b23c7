package types

// Producer is a farm or grower. The ID is chosen by the user.
type Producer struct {
	ProducerID  string `json:"producer_id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Contact     string `json:"contact,omitempty"`
	Association string `json:"association,omitempty"`
}

// Plot is a piece of land owned by one producer. Code is unique per
// producer; PlotID is generated.
type Plot struct {
	PlotID     string  `json:"plot_id"`
	ProducerID string  `json:"producer_id"`
	Code       string  `json:"code"`
	AreaHa     float64 `json:"area_ha"`
	SoilType   string  `json:"soil_type,omitempty"`
}

// ProducerTree is a producer together with its plots, as returned by the
// bulk loader.
type ProducerTree struct {
	Producer
	Plots []Plot `json:"plots"`
}
