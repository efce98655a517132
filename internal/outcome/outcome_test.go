package outcome

import "testing"

func intp(v int) *int { return &v }

func TestEvaluateFullTime(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		ftHome   int
		ftAway   int
		expected Verdict
	}{
		{"home win hits", "1", 2, 0, Won},
		{"home win misses", "1", 0, 2, Lost},
		{"home win on draw", "1", 1, 1, Lost},
		{"draw hits", "X", 1, 1, Won},
		{"draw misses", "X", 2, 1, Lost},
		{"away win hits", "2", 0, 1, Won},
		{"over 2.5 short", "over 2.5", 1, 1, Lost},
		{"over 2.5 hits", "over 2.5", 2, 1, Won},
		{"over 0.5 on goalless", "over 0.5", 0, 0, Lost},
		{"under 3.5 hits", "under 3.5", 2, 1, Won},
		{"under 2.5 misses", "under 2.5", 2, 1, Lost},
		{"home over 1.5 hits", "home over 1.5", 2, 0, Won},
		{"home over 1.5 ignores away goals", "home over 1.5", 1, 3, Lost},
		{"away under 0.5 hits", "away under 0.5", 3, 0, Won},
		{"btts yes hits", "BTTS-yes", 2, 1, Won},
		{"btts yes misses", "BTTS-yes", 2, 0, Lost},
		{"btts no hits", "BTTS-no", 2, 0, Won},
		{"btts no misses", "BTTS-no", 1, 1, Lost},
		{"unknown notation", "first scorer", 2, 1, Indeterminate},
		{"empty notation", "", 2, 1, Indeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateNotation(tt.raw, tt.ftHome, tt.ftAway, nil, nil)
			if got != tt.expected {
				t.Errorf("EvaluateNotation(%q, %d, %d) = %v, want %v",
					tt.raw, tt.ftHome, tt.ftAway, got, tt.expected)
			}
		})
	}
}

func TestEvaluateFirstHalf(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		ftHome   int
		ftAway   int
		htHome   *int
		htAway   *int
		expected Verdict
	}{
		{"ht over with score", "HT over 0.5", 3, 1, intp(1), intp(0), Won},
		{"ht over misses", "HT over 1.5", 3, 1, intp(1), intp(0), Lost},
		{"ht home over", "HT home over 0.5", 2, 2, intp(1), intp(1), Won},
		{"ht away over misses", "HT away over 0.5", 2, 2, intp(1), intp(0), Lost},
		{"ht result", "HT 1", 1, 3, intp(1), intp(0), Won},
		{"ht btts", "HT BTTS-yes", 2, 2, intp(1), intp(1), Won},
		// Missing half-time data is indeterminate even when the full-time
		// score would make the answer look obvious (0-0 cannot hide a
		// first-half goal, but the rule is: never infer).
		{"ht over without ht score", "HT over 0.5", 0, 0, nil, nil, Indeterminate},
		{"ht result without ht score", "HT X", 1, 1, nil, nil, Indeterminate},
		{"ht partial data", "HT over 0.5", 2, 1, intp(1), nil, Indeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateNotation(tt.raw, tt.ftHome, tt.ftAway, tt.htHome, tt.htAway)
			if got != tt.expected {
				t.Errorf("EvaluateNotation(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestVerdictString(t *testing.T) {
	if Won.String() != "won" || Lost.String() != "lost" || Indeterminate.String() != "indeterminate" {
		t.Errorf("unexpected verdict strings: %v %v %v", Won, Lost, Indeterminate)
	}
}
