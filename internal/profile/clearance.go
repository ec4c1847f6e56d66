package profile

import "math"

// Ladder is the ordered clearance ladder, lowest first.
var Ladder = []string{"Civilian", "Restricted", "Confidential", "Secret", "Top Secret"}

// DefaultClearanceThresholds are the ascending composite cut points
// between adjacent rungs of Ladder.
var DefaultClearanceThresholds = []int{200, 400, 600, 800}

// Composite weights for the clearance score.
const (
	categoryWeight = 0.6
	traitWeight    = 0.4
)

// Clearance is a rung on the ladder plus the composite that earned it.
type Clearance struct {
	Tier   string `json:"tier"`
	Level  int    `json:"level"` // 1-based
	Points int    `json:"points"`
}

// Composite blends the top category score with the strongest trait score.
func Composite(topCategory, maxTrait int) int {
	return int(math.Round(categoryWeight*float64(topCategory) + traitWeight*float64(maxTrait)))
}

// ClearanceFor maps a composite onto the ladder. thresholds must be
// ascending with one entry fewer than Ladder; the mapping is monotonic.
func ClearanceFor(points int, thresholds []int) Clearance {
	level := 1
	for _, cut := range thresholds {
		if points >= cut {
			level++
		}
	}
	if level > len(Ladder) {
		level = len(Ladder)
	}
	return Clearance{Tier: Ladder[level-1], Level: level, Points: points}
}
