package notation

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Prediction
	}{
		{
			name: "home win",
			raw:  "1",
			want: Prediction{Kind: KindResult, Result: HomeWin},
		},
		{
			name: "draw case-insensitive",
			raw:  "x",
			want: Prediction{Kind: KindResult, Result: Draw},
		},
		{
			name: "away win",
			raw:  "2",
			want: Prediction{Kind: KindResult, Result: AwayWin},
		},
		{
			name: "btts yes",
			raw:  "BTTS-yes",
			want: Prediction{Kind: KindBTTS, Yes: true},
		},
		{
			name: "btts no",
			raw:  "btts-NO",
			want: Prediction{Kind: KindBTTS},
		},
		{
			name: "total over half line",
			raw:  "over 2.5",
			want: Prediction{Kind: KindTotal, Over: true, Line: 2.5},
		},
		{
			name: "total under whole line",
			raw:  "under 3",
			want: Prediction{Kind: KindTotal, Line: 3},
		},
		{
			name: "home side over",
			raw:  "home over 1.5",
			want: Prediction{Kind: KindSideTotal, Side: SideHome, Over: true, Line: 1.5},
		},
		{
			name: "away side under",
			raw:  "away under 0.5",
			want: Prediction{Kind: KindSideTotal, Side: SideAway, Line: 0.5},
		},
		{
			name: "first half total",
			raw:  "HT over 0.5",
			want: Prediction{Kind: KindTotal, FirstHalf: true, Over: true, Line: 0.5},
		},
		{
			name: "first half side total",
			raw:  "ht home over 0.5",
			want: Prediction{Kind: KindSideTotal, FirstHalf: true, Side: SideHome, Over: true, Line: 0.5},
		},
		{
			name: "first half result",
			raw:  "HT X",
			want: Prediction{Kind: KindResult, FirstHalf: true, Result: Draw},
		},
		{
			name: "extra whitespace tolerated",
			raw:  "  over   2.5 ",
			want: Prediction{Kind: KindTotal, Over: true, Line: 2.5},
		},
		{
			name: "garbage is unknown",
			raw:  "correct score 2-1",
			want: Prediction{Kind: KindUnknown},
		},
		{
			name: "empty is unknown",
			raw:  "",
			want: Prediction{Kind: KindUnknown},
		},
		{
			name: "negative line is unknown",
			raw:  "over -1",
			want: Prediction{Kind: KindUnknown},
		},
		{
			name: "bare ht prefix is unknown",
			raw:  "HT",
			want: Prediction{Kind: KindUnknown, FirstHalf: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			tt.want.Raw = tt.raw
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"over 2.5", "over 2.5 goals"},
		{"home over 1.5", "home over 1.5 goals"},
		{"HT over 0.5", "first-half over 0.5 goals"},
		{"BTTS-yes", "both teams to score"},
		{"1", "home win"},
		{"X", "draw"},
	}
	for _, tt := range tests {
		if got := Parse(tt.raw).Target(); got != tt.want {
			t.Errorf("Target(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
