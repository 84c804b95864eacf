package service

import (
	"fmt"
	"testing"

	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("player-%02d", i+1)
	}
	return out
}

// realMatches counts matches with two actual opponents
func realMatches(rounds []domain.Round) int {
	count := 0
	for _, r := range rounds {
		for _, m := range r.Matches {
			if m.HomeID != "" && m.AwayID != "" {
				count++
			}
		}
	}
	return count
}

func TestRoundRobinMatchCount(t *testing.T) {
	tests := []struct {
		participants int
		wantRounds   int
		wantMatches  int // n*(n-1)/2
	}{
		{participants: 2, wantRounds: 1, wantMatches: 1},
		{participants: 4, wantRounds: 3, wantMatches: 6},
		{participants: 5, wantRounds: 5, wantMatches: 10},
		{participants: 8, wantRounds: 7, wantMatches: 28},
		{participants: 9, wantRounds: 9, wantMatches: 36},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d participants", tt.participants), func(t *testing.T) {
			rounds, err := GenerateRounds(domain.FormatRoundRobin, names(tt.participants), 0)
			require.NoError(t, err)
			assert.Len(t, rounds, tt.wantRounds)
			assert.Equal(t, tt.wantMatches, realMatches(rounds))
		})
	}
}

func TestRoundRobinEachPairMeetsOnce(t *testing.T) {
	participants := names(7)
	rounds, err := GenerateRounds(domain.FormatRoundRobin, participants, 0)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, round := range rounds {
		inRound := make(map[string]bool)
		for _, m := range round.Matches {
			if m.Bye {
				assert.Empty(t, m.AwayID, "a bye match has no away side")
				continue
			}
			// Order-independent pair key
			a, b := m.HomeID, m.AwayID
			if a > b {
				a, b = b, a
			}
			seen[a+"|"+b]++

			assert.False(t, inRound[m.HomeID], "%s plays twice in round %d", m.HomeID, round.Number)
			assert.False(t, inRound[m.AwayID], "%s plays twice in round %d", m.AwayID, round.Number)
			inRound[m.HomeID] = true
			inRound[m.AwayID] = true
		}
	}

	assert.Len(t, seen, 7*6/2)
	for pair, count := range seen {
		assert.Equal(t, 1, count, "pair %s scheduled %d times", pair, count)
	}
}

func TestRoundRobinOddFieldRotatesBye(t *testing.T) {
	rounds, err := GenerateRounds(domain.FormatRoundRobin, names(5), 0)
	require.NoError(t, err)

	byeHolders := make(map[string]int)
	for _, round := range rounds {
		byes := 0
		for _, m := range round.Matches {
			if m.Bye {
				byes++
				byeHolders[m.HomeID]++
			}
		}
		assert.Equal(t, 1, byes, "round %d must have exactly one bye", round.Number)
	}

	// Every participant sits out exactly once
	assert.Len(t, byeHolders, 5)
	for name, count := range byeHolders {
		assert.Equal(t, 1, count, "%s got %d byes", name, count)
	}
}

func TestKnockoutRoundStructure(t *testing.T) {
	tests := []struct {
		participants   int
		wantRounds     int // ceil(log2 n)
		wantFirstByes  int
		wantFirstGames int
	}{
		{participants: 2, wantRounds: 1, wantFirstByes: 0, wantFirstGames: 1},
		{participants: 4, wantRounds: 2, wantFirstByes: 0, wantFirstGames: 2},
		{participants: 5, wantRounds: 3, wantFirstByes: 3, wantFirstGames: 4},
		{participants: 8, wantRounds: 3, wantFirstByes: 0, wantFirstGames: 4},
		{participants: 13, wantRounds: 4, wantFirstByes: 3, wantFirstGames: 8},
		{participants: 16, wantRounds: 4, wantFirstByes: 0, wantFirstGames: 8},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d participants", tt.participants), func(t *testing.T) {
			rounds, err := GenerateRounds(domain.FormatKnockOut, names(tt.participants), 0)
			require.NoError(t, err)
			require.Len(t, rounds, tt.wantRounds)

			first := rounds[0]
			assert.Len(t, first.Matches, tt.wantFirstGames)

			byes := 0
			for _, m := range first.Matches {
				require.NotEmpty(t, m.HomeID, "bye slot must collapse onto the home side")
				if m.Bye {
					byes++
				}
			}
			assert.Equal(t, tt.wantFirstByes, byes)

			// Later rounds are placeholders that halve each time
			slots := tt.wantFirstGames
			for i, round := range rounds[1:] {
				slots /= 2
				assert.Len(t, round.Matches, slots, "round %d", i+2)
				assert.Equal(t, i+2, round.Number)
				for _, m := range round.Matches {
					assert.Empty(t, m.HomeID)
					assert.Empty(t, m.AwayID)
				}
			}
			assert.Equal(t, 1, slots, "the bracket must end in a final")
		})
	}
}

func TestKnockoutSeedsEveryParticipantOnce(t *testing.T) {
	participants := names(11)
	rounds, err := GenerateRounds(domain.FormatKnockOut, participants, 0)
	require.NoError(t, err)

	seeded := make(map[string]bool)
	for _, m := range rounds[0].Matches {
		for _, id := range []string{m.HomeID, m.AwayID} {
			if id == "" {
				continue
			}
			assert.False(t, seeded[id], "%s seeded twice", id)
			seeded[id] = true
		}
	}
	assert.Len(t, seeded, len(participants))
}

func TestGroupPlayoffGroupLabels(t *testing.T) {
	rounds, err := GenerateRounds(domain.FormatGroupPlayoff, names(12), 3)
	require.NoError(t, err)

	groups := make(map[string]int) // label -> rounds in group stage
	playoffRounds := 0
	for _, round := range rounds {
		if round.Group == "" {
			playoffRounds++
			continue
		}
		groups[round.Group]++
	}

	assert.Equal(t, map[string]int{"A": 3, "B": 3, "C": 3}, groups,
		"each group of four plays three round-robin rounds")

	// Six qualifiers pad to an eight-slot bracket: three playoff rounds
	assert.Equal(t, 3, playoffRounds)
}

func TestGroupPlayoffNumbersAreSequential(t *testing.T) {
	rounds, err := GenerateRounds(domain.FormatGroupPlayoff, names(8), 2)
	require.NoError(t, err)

	for i, round := range rounds {
		assert.Equal(t, i+1, round.Number)
	}
}

func TestGroupPlayoffPlayoffSlotsAreEmpty(t *testing.T) {
	rounds, err := GenerateRounds(domain.FormatGroupPlayoff, names(8), 2)
	require.NoError(t, err)

	for _, round := range rounds {
		if round.Group != "" {
			continue
		}
		for _, m := range round.Matches {
			assert.Empty(t, m.HomeID, "playoff slots are filled from group results")
			assert.Empty(t, m.AwayID)
			assert.False(t, m.Bye)
		}
	}
}

func TestGroupPlayoffDefaultsToTwoGroups(t *testing.T) {
	rounds, err := GenerateRounds(domain.FormatGroupPlayoff, names(6), 0)
	require.NoError(t, err)

	labels := make(map[string]bool)
	for _, round := range rounds {
		if round.Group != "" {
			labels[round.Group] = true
		}
	}
	assert.Equal(t, map[string]bool{"A": true, "B": true}, labels)
}

func TestGenerateRoundsValidation(t *testing.T) {
	tests := []struct {
		name         string
		format       string
		participants []string
		groupCount   int
	}{
		{name: "too few participants", format: domain.FormatRoundRobin, participants: names(1)},
		{name: "no participants", format: domain.FormatKnockOut, participants: nil},
		{name: "unknown format", format: "swiss", participants: names(4)},
		{name: "groups too thin", format: domain.FormatGroupPlayoff, participants: names(5), groupCount: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateRounds(tt.format, tt.participants, tt.groupCount)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
