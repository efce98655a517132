package notify

import (
	"fmt"
	"strings"

	"github.com/Dogan7/goalsignal/internal/alert"
	"github.com/Dogan7/goalsignal/models"
)

// FormatAlert renders a hot/warm proximity alert.
func FormatAlert(rec *models.PredictionRecord, st alert.State) string {
	var b strings.Builder

	switch st.Level {
	case alert.LevelHot:
		b.WriteString("🔥 *HOT*")
	case alert.LevelWarm:
		b.WriteString("🌡 *Warm*")
	default:
		b.WriteString("ℹ️")
	}

	fmt.Fprintf(&b, " %s — %s\n", rec.HomeTeam, rec.AwayTeam)
	fmt.Fprintf(&b, "Score: %d-%d", st.HomeScore, st.AwayScore)
	if st.Elapsed > 0 {
		fmt.Fprintf(&b, " (%d')", st.Elapsed)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Pick: `%s` (%d%%)\n", rec.Prediction, rec.Confidence)
	b.WriteString(st.Message)
	return b.String()
}

// FormatResult renders a settled prediction.
func FormatResult(rec *models.PredictionRecord) string {
	var b strings.Builder

	if rec.Verdict == models.VerdictWon {
		b.WriteString("✅ *WON*")
	} else {
		b.WriteString("❌ Lost")
	}
	fmt.Fprintf(&b, " %s — %s\n", rec.HomeTeam, rec.AwayTeam)
	fmt.Fprintf(&b, "Pick: `%s` (%d%%)\n", rec.Prediction, rec.Confidence)
	if rec.ResultNote != "" {
		b.WriteString(rec.ResultNote)
	}
	return b.String()
}

// FormatUpcoming renders the silent pre-kickoff notice.
func FormatUpcoming(rec *models.PredictionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s — %s", rec.HomeTeam, rec.AwayTeam)
	if rec.Kickoff != "" {
		fmt.Fprintf(&b, " at %s", rec.Kickoff)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Pick: `%s` (%d%%)", rec.Prediction, rec.Confidence)
	return b.String()
}
