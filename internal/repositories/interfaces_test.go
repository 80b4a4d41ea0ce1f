package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuizResultStatsWithPassRate(t *testing.T) {
	tests := []struct {
		name  string
		stats QuizResultStats
		want  float64
	}{
		{name: "three of four", stats: QuizResultStats{CompletedSessions: 4, PassedSessions: 3}, want: 75},
		{name: "none passed", stats: QuizResultStats{CompletedSessions: 2}, want: 0},
		{name: "no completed sessions", stats: QuizResultStats{PassRate: 50}, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.stats.WithPassRate().PassRate)
		})
	}
}
