package novelty

import "encoding/json"

// ResultsToJSON returns the classification results as indented JSON.
func ResultsToJSON(results []Result) ([]byte, error) {
	return json.MarshalIndent(results, "", "  ")
}
