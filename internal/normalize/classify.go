package normalize

import (
	"strings"

	"github.com/pable/go-nba-metrics/internal/model"
)

// MappingTableVersion identifies the description→kind table below. Bump it
// whenever a pattern is added or reordered so stored streams can be traced
// back to the table that classified them.
const MappingTableVersion = 2

// kindPattern maps a lowercase substring of the feed description to a kind.
// Patterns are checked in order; the first match wins.
type kindPattern struct {
	substr string
	kind   model.EventKind
}

// kindTable is ordered: administrative rows and missed shots must be ruled
// out before the made-shot patterns, and "steal" rows describe the turnover
// they force, not a separate kind.
var kindTable = []kindPattern{
	{"substitution", model.KindSubstitution},
	{"enters the game", model.KindSubstitution},
	{"sub:", model.KindSubstitution},

	{"rebound", model.KindRebound},

	{"turnover", model.KindTurnover},
	{"steal", model.KindTurnover},
	{"bad pass", model.KindTurnover},
	{"lost ball", model.KindTurnover},
	{"traveling", model.KindTurnover},
	{"double dribble", model.KindTurnover},
	{"shot clock", model.KindTurnover},
	{"out of bounds", model.KindTurnover},

	{"foul", model.KindFoul},

	{"timeout", model.KindOther},
	{"jump ball", model.KindOther},
	{"violation", model.KindOther},
	{"start of", model.KindOther},
	{"end of", model.KindOther},
	{"miss", model.KindOther}, // missed shots carry no score change

	{"free throw", model.KindScore},
	{"3pt", model.KindScore},
	{"jump shot", model.KindScore},
	{"layup", model.KindScore},
	{"dunk", model.KindScore},
	{"hook", model.KindScore},
	{"fadeaway", model.KindScore},
	{"floater", model.KindScore},
	{"tip shot", model.KindScore},
	{"alley oop", model.KindScore},
}

// Classify maps a free-text event description to a canonical kind. Unmatched
// descriptions fall back to OTHER.
func Classify(description string) model.EventKind {
	d := strings.ToLower(description)
	for _, p := range kindTable {
		if strings.Contains(d, p.substr) {
			return p.kind
		}
	}
	return model.KindOther
}
