package livefeed

import "github.com/Dogan7/goalsignal/models"

// statusMap translates the provider's short status codes into lifecycle
// states. Codes not listed fall back to StateOther and are never treated as
// terminal.
var statusMap = map[string]models.MatchState{
	"NS":  models.StateNotStarted,
	"TBD": models.StateNotStarted,

	"1H":   models.StateLive,
	"HT":   models.StateLive,
	"2H":   models.StateLive,
	"ET":   models.StateLive,
	"BT":   models.StateLive,
	"P":    models.StateLive,
	"LIVE": models.StateLive,

	"FT":  models.StateFinished,
	"AET": models.StateFinished,
	"PEN": models.StateFinished,

	"SUSP": models.StateOther,
	"INT":  models.StateOther,
	"PST":  models.StateOther,
	"CANC": models.StateOther,
	"ABD":  models.StateOther,
	"AWD":  models.StateOther,
	"WO":   models.StateOther,
}

// ClassifyStatus maps a raw feed status code to a lifecycle state.
func ClassifyStatus(short string) models.MatchState {
	if st, ok := statusMap[short]; ok {
		return st
	}
	return models.StateOther
}
