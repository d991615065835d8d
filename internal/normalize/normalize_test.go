package normalize

import (
	"errors"
	"testing"

	"github.com/pable/go-nba-metrics/internal/model"
)

func ip(v int) *int { return &v }

func raw(seq, quarter int, desc, team string, home, away *int) model.RawEvent {
	return model.RawEvent{
		Seq:         seq,
		Quarter:     quarter,
		Description: desc,
		TeamID:      team,
		HomeScore:   home,
		AwayScore:   away,
	}
}

// ---- classification ----

func TestClassify(t *testing.T) {
	cases := []struct {
		desc string
		want model.EventKind
	}{
		{"Curry 26' 3PT Jump Shot (12 PTS)", model.KindScore},
		{"James Driving Layup (8 PTS)", model.KindScore},
		{"Durant Free Throw 1 of 2", model.KindScore},
		{"Jokic Alley Oop Dunk", model.KindScore},
		{"MISS Curry 27' 3PT Jump Shot", model.KindOther},
		{"Green Defensive Rebound", model.KindRebound},
		{"Gobert Offensive Rebound", model.KindRebound},
		{"Turnover: Bad Pass", model.KindTurnover},
		{"Westbrook Lost Ball Turnover (Holiday STEAL)", model.KindTurnover},
		{"Traveling Violation Turnover", model.KindTurnover},
		{"Shot Clock Turnover", model.KindTurnover},
		{"Embiid Shooting Foul", model.KindFoul},
		{"SUB: Poole FOR Curry", model.KindSubstitution},
		{"Wiggins enters the game for Thompson", model.KindSubstitution},
		{"Warriors Timeout: Regular", model.KindOther},
		{"Jump Ball: Gobert vs Jokic", model.KindOther},
		{"Start of 2nd Quarter", model.KindOther},
		{"End of 4th Quarter", model.KindOther},
		{"completely unknown row", model.KindOther},
	}
	for _, c := range cases {
		if got := Classify(c.desc); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.desc, got, c.want)
		}
	}
}

// ---- ordering ----

func TestNormalizeReordersInvertedStream(t *testing.T) {
	raws := []model.RawEvent{
		raw(3, 1, "Green Defensive Rebound", "GSW", nil, nil),
		raw(1, 1, "Jump Ball: Green vs Jokic", "", ip(0), ip(0)),
		raw(2, 1, "Curry 3PT Jump Shot", "GSW", ip(3), ip(0)),
	}

	res, err := Normalize("g1", raws)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(res.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(res.Events))
	}
	for i, want := range []int{1, 2, 3} {
		if res.Events[i].Seq != want {
			t.Errorf("event %d: seq = %d, want %d", i, res.Events[i].Seq, want)
		}
	}
}

func TestNormalizeKeepsOrderWithoutInversion(t *testing.T) {
	raws := []model.RawEvent{
		raw(10, 1, "Curry Layup", "GSW", ip(2), ip(0)),
		raw(20, 1, "Jokic Dunk", "DEN", ip(2), ip(2)),
	}

	res, err := Normalize("g1", raws)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Events[0].Seq != 10 || res.Events[1].Seq != 20 {
		t.Errorf("order changed: got %d, %d", res.Events[0].Seq, res.Events[1].Seq)
	}
}

// ---- score carry-forward ----

func TestNormalizeCarriesScoreForward(t *testing.T) {
	raws := []model.RawEvent{
		raw(1, 1, "Curry 3PT Jump Shot", "GSW", ip(3), ip(0)),
		raw(2, 1, "Jokic Defensive Rebound", "DEN", nil, nil),
		raw(3, 1, "Jokic Hook Shot", "DEN", nil, ip(2)),
	}

	res, err := Normalize("g1", raws)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if res.Events[1].HomeScore != 3 || res.Events[1].AwayScore != 0 {
		t.Errorf("event 2: score = %d-%d, want 3-0",
			res.Events[1].HomeScore, res.Events[1].AwayScore)
	}
	// Partial score row: home carried, away updated.
	if res.Events[2].HomeScore != 3 || res.Events[2].AwayScore != 2 {
		t.Errorf("event 3: score = %d-%d, want 3-2",
			res.Events[2].HomeScore, res.Events[2].AwayScore)
	}
}

// ---- malformed records ----

func TestNormalizeCollectsMalformedRecords(t *testing.T) {
	raws := []model.RawEvent{
		raw(1, 0, "Curry Layup", "GSW", ip(2), ip(0)),      // quarter out of range
		raw(2, 1, "Jokic Dunk", "", ip(2), ip(2)),          // score missing team
		raw(3, 1, "SUB: Poole FOR Curry", "GSW", nil, nil), // substitution missing player
		raw(4, 1, "Green Defensive Rebound", "GSW", nil, nil),
	}

	res, err := Normalize("g1", raws)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("expected 1 surviving event, got %d", len(res.Events))
	}
	if res.Events[0].Seq != 4 {
		t.Errorf("surviving event seq = %d, want 4", res.Events[0].Seq)
	}
	if len(res.Malformed) != 3 {
		t.Fatalf("expected 3 malformed records, got %d", len(res.Malformed))
	}
	for i, wantSeq := range []int{1, 2, 3} {
		if res.Malformed[i].Seq != wantSeq {
			t.Errorf("malformed %d: seq = %d, want %d", i, res.Malformed[i].Seq, wantSeq)
		}
		if res.Malformed[i].Reason == "" {
			t.Errorf("malformed %d: empty reason", i)
		}
	}
}

// ---- score regression ----

func TestNormalizeScoreRegressionIsFatal(t *testing.T) {
	raws := []model.RawEvent{
		raw(1, 1, "Curry 3PT Jump Shot", "GSW", ip(3), ip(0)),
		raw(2, 1, "Jokic Dunk", "DEN", ip(1), ip(2)), // home regresses 3 -> 1
	}

	_, err := Normalize("g7", raws)
	if err == nil {
		t.Fatal("expected error for score regression")
	}
	var mse *MalformedStreamError
	if !errors.As(err, &mse) {
		t.Fatalf("expected MalformedStreamError, got %T", err)
	}
	if mse.GameID != "g7" || mse.Seq != 2 {
		t.Errorf("error context: game=%s seq=%d, want g7/2", mse.GameID, mse.Seq)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	res, err := Normalize("g1", nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(res.Events) != 0 || len(res.Malformed) != 0 {
		t.Errorf("expected empty result, got %d events, %d malformed",
			len(res.Events), len(res.Malformed))
	}
}
