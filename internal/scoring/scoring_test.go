package scoring

import (
	"reflect"
	"testing"

	"github.com/HendryAvila/dossier/internal/catalog"
)

// testCatalog is small enough to compute expected scores by hand.
const testCatalog = `
categories:
  - {code: CatX}
  - {code: CatY}
  - {code: CatZ}
traits:
  - {code: grit}
  - {code: flair}
themes:
  - {code: t1}
questions:
  - id: q1
    phase: 1
    options:
      - {id: a, categories: {CatX: 3}, traits: {grit: 2}}
      - {id: b, categories: {CatY: 2}, traits: {flair: 1}}
      - {id: c, categories: {CatZ: 1, CatX: 1}, traits: {grit: 2}}
      - {id: d, categories: {CatY: 1}}
  - id: q2
    phase: 2
    options:
      - {id: a, categories: {CatY: 3}, traits: {grit: 1}}
      - {id: b, categories: {CatX: 2}, traits: {flair: 3}}
  - id: q3
    phase: 3
    options:
      - {id: a, categories: {CatZ: 2}}
      - {id: b, categories: {CatX: 1}, traits: {grit: 3}}
`

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load([]byte(testCatalog))
	if err != nil {
		t.Fatalf("loading test catalog: %v", err)
	}
	return c
}

// --- Tables ---

func TestRankPoints(t *testing.T) {
	tests := []struct{ rank, want int }{
		{0, 0}, {1, 3}, {2, 2}, {3, 1}, {4, 0}, {10, 0},
	}
	for _, tt := range tests {
		if got := RankPoints(tt.rank); got != tt.want {
			t.Errorf("RankPoints(%d) = %d, want %d", tt.rank, got, tt.want)
		}
	}
}

func TestPhaseMultiplier(t *testing.T) {
	tests := []struct{ phase, want int }{
		{1, 1}, {2, 2}, {3, 3}, {0, 0}, {4, 0},
	}
	for _, tt := range tests {
		if got := PhaseMultiplier(tt.phase); got != tt.want {
			t.Errorf("PhaseMultiplier(%d) = %d, want %d", tt.phase, got, tt.want)
		}
	}
}

// --- Normalize ---

func TestNormalize_DropsUnknownQuestionsAndOptions(t *testing.T) {
	c := mustCatalog(t)
	raw := []Selection{
		{QuestionID: "q1", OptionIDs: []string{"a", "zz", "b"}},
		{QuestionID: "ghost", OptionIDs: []string{"a"}},
		{QuestionID: "q2", OptionIDs: []string{"nope"}},
	}

	got := Normalize(raw, c)
	want := []Selection{{QuestionID: "q1", OptionIDs: []string{"a", "b"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalize_DuplicateOptionKeepsFirstRank(t *testing.T) {
	c := mustCatalog(t)
	got := Normalize([]Selection{{QuestionID: "q1", OptionIDs: []string{"b", "a", "b"}}}, c)
	if len(got) != 1 || !reflect.DeepEqual(got[0].OptionIDs, []string{"b", "a"}) {
		t.Errorf("Normalize() = %+v, want options [b a]", got)
	}
}

func TestNormalize_ReanswerReplacesInPlace(t *testing.T) {
	c := mustCatalog(t)
	got := Normalize([]Selection{
		{QuestionID: "q1", OptionIDs: []string{"a"}},
		{QuestionID: "q2", OptionIDs: []string{"a"}},
		{QuestionID: "q1", OptionIDs: []string{"c"}},
	}, c)

	want := []Selection{
		{QuestionID: "q1", OptionIDs: []string{"c"}},
		{QuestionID: "q2", OptionIDs: []string{"a"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalize_Empty(t *testing.T) {
	c := mustCatalog(t)
	if got := Normalize(nil, c); len(got) != 0 {
		t.Errorf("Normalize(nil) = %+v, want empty", got)
	}
}

// --- AggregateCategories ---

func TestAggregateCategories_SingleRankOne(t *testing.T) {
	c := mustCatalog(t)
	agg := AggregateCategories([]Selection{{QuestionID: "q1", OptionIDs: []string{"a"}}}, c)

	// rank1 (3) × phase1 (1) × weight 3
	if got := agg.Score("CatX"); got != 9 {
		t.Errorf("CatX score = %d, want 9", got)
	}
	if got := agg.Percent("CatX"); got != 100 {
		t.Errorf("CatX percent = %d, want 100", got)
	}
	for _, code := range []string{"CatY", "CatZ"} {
		if agg.Score(code) != 0 || agg.Percent(code) != 0 {
			t.Errorf("%s = %d/%d%%, want 0/0", code, agg.Score(code), agg.Percent(code))
		}
	}
}

func TestAggregateCategories_RankAndPhaseWeighting(t *testing.T) {
	c := mustCatalog(t)
	agg := AggregateCategories([]Selection{
		// q1 phase 1: a@1 → X 3·1·3=9; b@2 → Y 2·1·2=4; c@3 → Z 1·1·1=1, X 1·1·1=1
		{QuestionID: "q1", OptionIDs: []string{"a", "b", "c"}},
		// q2 phase 2: b@1 → X 3·2·2=12; a@2 → Y 2·2·3=12
		{QuestionID: "q2", OptionIDs: []string{"b", "a"}},
		// q3 phase 3: a@1 → Z 3·3·2=18
		{QuestionID: "q3", OptionIDs: []string{"a"}},
	}, c)

	want := map[string]int{"CatX": 22, "CatY": 16, "CatZ": 19}
	if !reflect.DeepEqual(agg.Scores, want) {
		t.Errorf("Scores = %v, want %v", agg.Scores, want)
	}
	if agg.Total != 57 {
		t.Errorf("Total = %d, want 57", agg.Total)
	}
	// 22/57=38.6, 16/57=28.07, 19/57=33.3
	wantPct := map[string]int{"CatX": 39, "CatY": 28, "CatZ": 33}
	if !reflect.DeepEqual(agg.Percentages, wantPct) {
		t.Errorf("Percentages = %v, want %v", agg.Percentages, wantPct)
	}
}

func TestAggregateCategories_RanksBeyondTableScoreZero(t *testing.T) {
	c := mustCatalog(t)
	agg := AggregateCategories([]Selection{
		{QuestionID: "q1", OptionIDs: []string{"b", "c", "a", "d"}},
	}, c)

	// d is rank 4 and contributes nothing: Y gets only b@1.
	if got := agg.Score("CatY"); got != 6 {
		t.Errorf("CatY = %d, want 6", got)
	}
}

func TestAggregateCategories_EmptyIsAllZero(t *testing.T) {
	c := mustCatalog(t)
	agg := AggregateCategories(nil, c)
	for _, code := range agg.Codes {
		if agg.Scores[code] != 0 || agg.Percentages[code] != 0 {
			t.Errorf("%s = %d/%d%%, want 0/0", code, agg.Scores[code], agg.Percentages[code])
		}
	}
	if agg.Total != 0 {
		t.Errorf("Total = %d, want 0", agg.Total)
	}
}

func TestAggregateCategories_PercentagesSumNear100(t *testing.T) {
	c := mustCatalog(t)
	cases := [][]Selection{
		{{QuestionID: "q1", OptionIDs: []string{"c"}}},
		{{QuestionID: "q1", OptionIDs: []string{"a", "b", "c"}}},
		{{QuestionID: "q1", OptionIDs: []string{"c", "d"}}, {QuestionID: "q3", OptionIDs: []string{"b", "a"}}},
		{{QuestionID: "q2", OptionIDs: []string{"a", "b"}}, {QuestionID: "q3", OptionIDs: []string{"a"}}},
	}
	for i, sels := range cases {
		agg := AggregateCategories(sels, c)
		sum := 0
		for _, code := range agg.Codes {
			sum += agg.Percentages[code]
		}
		slack := len(agg.Codes) - 1
		if sum < 100-slack || sum > 100+slack {
			t.Errorf("case %d: percentages sum to %d, want 100±%d", i, sum, slack)
		}
	}
}

func TestAggregateCategories_Idempotent(t *testing.T) {
	c := mustCatalog(t)
	sels := []Selection{
		{QuestionID: "q1", OptionIDs: []string{"a", "b"}},
		{QuestionID: "q3", OptionIDs: []string{"b"}},
	}
	first := AggregateCategories(sels, c)
	second := AggregateCategories(sels, c)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregation not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestAggregateCategories_TheoreticalMax(t *testing.T) {
	c := mustCatalog(t)
	agg := AggregateCategories(nil, c)
	// X: q1 3·1·3=9, q2 3·2·2=12, q3 3·3·1=9
	if got := agg.Max["CatX"]; got != 30 {
		t.Errorf("Max[CatX] = %d, want 30", got)
	}
}

// --- AggregateTraits ---

func TestAggregateTraits_PercentOfTheoreticalMax(t *testing.T) {
	c := mustCatalog(t)
	agg := AggregateTraits([]Selection{{QuestionID: "q1", OptionIDs: []string{"a"}}}, c)

	// grit max: q1 3·1·2=6, q2 3·2·1=6, q3 3·3·3=27 → 39
	if got := agg.Max["grit"]; got != 39 {
		t.Fatalf("Max[grit] = %d, want 39", got)
	}
	if got := agg.Score("grit"); got != 6 {
		t.Errorf("grit = %d, want 6", got)
	}
	// 6/39 = 15.4%
	if got := agg.Percent("grit"); got != 15 {
		t.Errorf("grit percent = %d, want 15", got)
	}
}

func TestAggregateTraits_DoNotSumTo100(t *testing.T) {
	c := mustCatalog(t)
	agg := AggregateTraits([]Selection{
		{QuestionID: "q2", OptionIDs: []string{"b"}},
		{QuestionID: "q3", OptionIDs: []string{"b"}},
	}, c)

	// flair max: q1 3, q2 18 → 21; scored 18 → 86%
	// grit max 39; scored 27 → 69%
	if got := agg.Percent("flair"); got != 86 {
		t.Errorf("flair percent = %d, want 86", got)
	}
	if got := agg.Percent("grit"); got != 69 {
		t.Errorf("grit percent = %d, want 69", got)
	}
}

func TestAggregateTraits_CappedAt100(t *testing.T) {
	c := mustCatalog(t)
	// Rank-1 picks reach the grit max of 39; q1/c at rank 2 adds 4 more.
	agg := AggregateTraits([]Selection{
		{QuestionID: "q1", OptionIDs: []string{"a", "c"}},
		{QuestionID: "q2", OptionIDs: []string{"a"}},
		{QuestionID: "q3", OptionIDs: []string{"b"}},
	}, c)
	if got := agg.Score("grit"); got != 43 {
		t.Fatalf("grit = %d, want 43", got)
	}
	if got := agg.Percent("grit"); got != 100 {
		t.Errorf("grit percent = %d, want 100", got)
	}
}

func TestAggregateTraits_Empty(t *testing.T) {
	c := mustCatalog(t)
	agg := AggregateTraits(nil, c)
	for _, code := range agg.Codes {
		if agg.Scores[code] != 0 || agg.Percentages[code] != 0 {
			t.Errorf("%s not zero", code)
		}
	}
}

// --- Helpers ---

func TestFirstChoiceLetters(t *testing.T) {
	c := mustCatalog(t)
	got := FirstChoiceLetters([]Selection{
		{QuestionID: "q1", OptionIDs: []string{"d", "a"}},
		{QuestionID: "zz", OptionIDs: []string{"a"}},
		{QuestionID: "q2", OptionIDs: []string{"b"}},
		{QuestionID: "q3", OptionIDs: nil},
	}, c)
	if got != "db" {
		t.Errorf("FirstChoiceLetters() = %q, want %q", got, "db")
	}
}

func TestUpToPhase(t *testing.T) {
	c := mustCatalog(t)
	sels := []Selection{
		{QuestionID: "q1", OptionIDs: []string{"a"}},
		{QuestionID: "q2", OptionIDs: []string{"a"}},
		{QuestionID: "q3", OptionIDs: []string{"a"}},
	}
	if got := UpToPhase(sels, c, 2); len(got) != 2 {
		t.Errorf("UpToPhase(2) kept %d, want 2", len(got))
	}
	if got := UpToPhase(sels, c, 0); len(got) != 0 {
		t.Errorf("UpToPhase(0) kept %d, want 0", len(got))
	}
}

func TestAggregate_Top(t *testing.T) {
	c := mustCatalog(t)
	agg := AggregateCategories([]Selection{{QuestionID: "q2", OptionIDs: []string{"a", "b"}}}, c)
	// Y 3·2·3=18, X 2·2·2=8
	if got := agg.Top(); got != 18 {
		t.Errorf("Top() = %d, want 18", got)
	}
}
