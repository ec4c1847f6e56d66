package pattern

// Local is a short-window habit detected in the most recent answers.
// It only flavors narrative text and never touches scores.
type Local string

const (
	LocalNone Local = ""
	// Echo: the last 3 letters are identical.
	Echo Local = "echo"
	// DeepEnd: the last 3 letters are all late letters.
	DeepEnd Local = "deep_end"
	// FenceSitter: 4 of the last 5 letters are middle letters.
	FenceSitter Local = "fence_sitter"
	// Scatter: the last 4 letters are all different.
	Scatter Local = "scatter"
)

// DetectLocal returns the first local pattern that matches, checked in a
// fixed order. Each pattern keeps its own window size.
func DetectLocal(letters string) Local {
	if last := tail(letters, 3); len(last) == 3 && last[0] == last[1] && last[1] == last[2] {
		return Echo
	}
	if last := tail(letters, 3); len(last) == 3 && countBucket(last, Late) == 3 {
		return DeepEnd
	}
	if last := tail(letters, 5); len(last) == 5 && countBucket(last, Middle) >= 4 {
		return FenceSitter
	}
	if last := tail(letters, 4); len(last) == 4 && distinct(last) == 4 {
		return Scatter
	}
	return LocalNone
}

// AllSame reports whether a run of at least 3 letters never changes.
func AllSame(letters string) bool {
	if len(letters) < 3 {
		return false
	}
	for i := 1; i < len(letters); i++ {
		if letters[i] != letters[0] {
			return false
		}
	}
	return true
}

// AllLate reports whether a run of at least 3 letters is entirely late.
func AllLate(letters string) bool {
	return len(letters) >= 3 && countBucket(letters, Late) == len(letters)
}

// Alternating reports a strict two-letter alternation (abab…) of at least
// 4 letters with no immediate repeats.
func Alternating(letters string) bool {
	if len(letters) < 4 {
		return false
	}
	for i := 1; i < len(letters); i++ {
		if letters[i] == letters[i-1] {
			return false
		}
		if i >= 2 && letters[i] != letters[i-2] {
			return false
		}
	}
	return true
}

func tail(letters string, n int) string {
	if len(letters) <= n {
		return letters
	}
	return letters[len(letters)-n:]
}

func countBucket(letters string, b Bucket) int {
	n := 0
	for i := 0; i < len(letters); i++ {
		if BucketOf(letters[i]) == b {
			n++
		}
	}
	return n
}

func distinct(letters string) int {
	seen := make(map[byte]bool, len(letters))
	for i := 0; i < len(letters); i++ {
		seen[letters[i]] = true
	}
	return len(seen)
}
