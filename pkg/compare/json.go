package compare

import "encoding/json"

// ToJSON returns the report as indented JSON. Positions, ratios, and raw
// paragraph text all survive the round trip.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
