// Package pattern classifies where, positionally, a subject's first
// choices fall across the option alphabet.
//
// Input everywhere is a string of option letters, one per answered
// question in answer order ("a" = first option of its question).
package pattern

// Bucket is a coarse position within the option alphabet.
type Bucket int

const (
	Early Bucket = iota
	Middle
	Late
)

// BucketOf partitions letters: a-b early, c-e middle, f onward late.
func BucketOf(letter byte) Bucket {
	switch letter {
	case 'a', 'b':
		return Early
	case 'c', 'd', 'e':
		return Middle
	default:
		return Late
	}
}

// Pattern is the global pattern of choice over a whole run.
type Pattern string

const (
	Oscillating Pattern = "oscillating"
	FrontLoaded Pattern = "front-loaded"
	Escalating  Pattern = "escalating"
	Contained   Pattern = "contained"
	Adaptive    Pattern = "adaptive"
)

var descriptions = map[Pattern]string{
	Oscillating: "Swings between the first options and the last ones, rarely stopping in between.",
	FrontLoaded: "Grabs whatever is offered first and commits before the briefing ends.",
	Escalating:  "Reads every option, then reliably picks the most unhinged one at the bottom.",
	Contained:   "Lives in the middle of the list, where nothing ever explodes.",
	Adaptive:    "No fixed habit: picks move with the question.",
}

// Description returns the fixed description for a pattern.
func (p Pattern) Description() string {
	if d, ok := descriptions[p]; ok {
		return d
	}
	return descriptions[Adaptive]
}

// containedWindow is how many recent answers the middle-share check reads.
const containedWindow = 5

// Result is the chaos pattern for a run plus the bucket shares behind it.
type Result struct {
	Pattern     Pattern `json:"pattern"`
	Description string  `json:"description"`
	Early       int     `json:"early_percent"`
	Middle      int     `json:"middle_percent"`
	Late        int     `json:"late_percent"`
}

// Analyze classifies a full first-choice sequence. Precedence is fixed:
// oscillating is checked before front-loaded and escalating so a bimodal
// run is never reported as merely one-sided. An empty run is adaptive.
func Analyze(letters string) Result {
	n := len(letters)
	if n == 0 {
		return result(Adaptive, 0, 0, 0, 0)
	}

	var early, middle, late int
	for i := 0; i < n; i++ {
		switch BucketOf(letters[i]) {
		case Early:
			early++
		case Middle:
			middle++
		default:
			late++
		}
	}

	r := func(p Pattern) Result { return result(p, n, early, middle, late) }

	switch {
	case atLeast(early, n, 25) && atLeast(late, n, 25):
		return r(Oscillating)
	case atLeast(early, n, 40):
		return r(FrontLoaded)
	case atLeast(late, n, 40):
		return r(Escalating)
	case recentMiddleShare(letters):
		return r(Contained)
	default:
		return r(Adaptive)
	}
}

func result(p Pattern, n, early, middle, late int) Result {
	res := Result{Pattern: p, Description: p.Description()}
	if n > 0 {
		res.Early = share(early, n)
		res.Middle = share(middle, n)
		res.Late = share(late, n)
	}
	return res
}

// share is count/n as a whole percentage, rounded half up.
func share(count, n int) int {
	return (count*200 + n) / (2 * n)
}

// recentMiddleShare reports whether at least half of the most recent
// containedWindow letters are middle letters.
func recentMiddleShare(letters string) bool {
	window := letters[max(0, len(letters)-containedWindow):]
	middle := 0
	for i := 0; i < len(window); i++ {
		if BucketOf(window[i]) == Middle {
			middle++
		}
	}
	return atLeast(middle, len(window), 50)
}

// atLeast compares count/n against a percentage without floating point.
func atLeast(count, n, pct int) bool {
	return n > 0 && count*100 >= pct*n
}
