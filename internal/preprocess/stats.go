package preprocess

import (
	"encoding/json"
	"fmt"
	"os"
)

// Stats holds per-feature mean and standard deviation of normalized poses,
// one entry per (point, dim) of a single person.
type Stats struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// LoadStats reads statistics from a JSON file of the form
// {"mean": [...], "std": [...]}.
func LoadStats(path string) (*Stats, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Stats
	if err := json.Unmarshal(buf, &s); err != nil {
		return nil, fmt.Errorf("parse stats %s: %w", path, err)
	}
	if len(s.Mean) != len(s.Std) {
		return nil, fmt.Errorf("stats %s: mean has %d entries, std has %d", path, len(s.Mean), len(s.Std))
	}
	return &s, nil
}

func (s *Stats) apply(values []float32, offset int) {
	for i := range values {
		std := s.Std[offset+i]
		if std == 0 {
			std = 1
		}
		values[i] = float32((float64(values[i]) - s.Mean[offset+i]) / std)
	}
}
