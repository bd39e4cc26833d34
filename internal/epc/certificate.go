package epc

// Certificate is one energy certificate row keyed by postcode. Address is a
// single denormalized line; the matcher does all tokenization on its side.
type Certificate struct {
	ID            string  `json:"lmk_key"`
	Address       string  `json:"address"`
	Postcode      string  `json:"postcode"`
	LodgementDate string  `json:"lodgement_date"`
	Rating        string  `json:"current_energy_rating"`
	PropertyType  string  `json:"property_type"`
	FloorArea     float64 `json:"total_floor_area"`
	Authority     string  `json:"local_authority_label"`
}
