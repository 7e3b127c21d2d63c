package businessPlanController

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func filled() string { return strings.Repeat("x", substantiveLength) }

func TestPlanCompletion(t *testing.T) {
	tests := []struct {
		name     string
		sections map[string]string
		want     float64
	}{
		{
			name:     "empty plan",
			sections: map[string]string{},
			want:     0,
		},
		{
			name:     "nil sections",
			sections: nil,
			want:     0,
		},
		{
			name: "one substantive section of eight",
			sections: map[string]string{
				"problem": filled(),
			},
			want: 13, // 1/8 = 12.5 rounds to 13
		},
		{
			name: "started section counts half",
			sections: map[string]string{
				"problem": "short note",
			},
			want: 6, // 0.5/8 = 6.25 rounds to 6
		},
		{
			name: "whitespace only does not count",
			sections: map[string]string{
				"problem": "   \n\t  ",
			},
			want: 0,
		},
		{
			name: "unknown sections are ignored",
			sections: map[string]string{
				"bogus": filled(),
			},
			want: 0,
		},
		{
			name: "all sections substantive",
			sections: map[string]string{
				"problem": filled(), "solution": filled(), "market": filled(),
				"team": filled(), "marketing": filled(), "operations": filled(),
				"financials": filled(), "impact": filled(),
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanCompletion(tt.sections))
		})
	}
}

func TestImpactScore(t *testing.T) {
	tests := []struct {
		name     string
		sections map[string]string
		want     float64
	}{
		{
			name:     "empty plan",
			sections: map[string]string{},
			want:     0,
		},
		{
			name: "critical sections add their weights",
			sections: map[string]string{
				"impact":     filled(),
				"financials": filled(),
				"market":     filled(),
			},
			// completion 3/8 = 38, half of that is 19, plus 25+15+10
			want: 69,
		},
		{
			name: "started critical section earns no weight",
			sections: map[string]string{
				"impact": "brief",
			},
			want: 3, // completion 6 halved, impact too short for its weight
		},
		{
			name: "full plan caps at 100",
			sections: map[string]string{
				"problem": filled(), "solution": filled(), "market": filled(),
				"team": filled(), "marketing": filled(), "operations": filled(),
				"financials": filled(), "impact": filled(),
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImpactScore(tt.sections))
		})
	}
}
