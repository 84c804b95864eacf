package service

import (
	"fmt"

	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/oklog/ulid/v2"
)

// GenerateRounds builds the rounds of a fixture for the given format.
// Generation is deterministic given the participant order. groupCount is
// only consulted for the group-playoff format.
func GenerateRounds(format string, participants []string, groupCount int) ([]domain.Round, error) {
	if len(participants) < 2 {
		return nil, fmt.Errorf("%w: at least two participants are required", domain.ErrValidation)
	}

	switch format {
	case domain.FormatRoundRobin:
		return roundRobinRounds(participants, "", 1), nil
	case domain.FormatKnockOut:
		return knockoutRounds(participants), nil
	case domain.FormatGroupPlayoff:
		return groupPlayoffRounds(participants, groupCount)
	default:
		return nil, fmt.Errorf("%w: unknown tournament format %q", domain.ErrValidation, format)
	}
}

// roundRobinRounds schedules everyone against everyone using the circle
// method: one participant stays fixed while the rest rotate. An odd field
// gets a rotating bye.
func roundRobinRounds(participants []string, group string, startNumber int) []domain.Round {
	ring := make([]string, len(participants))
	copy(ring, participants)
	if len(ring)%2 != 0 {
		ring = append(ring, "") // bye slot
	}

	n := len(ring)
	rounds := make([]domain.Round, 0, n-1)

	for r := 0; r < n-1; r++ {
		round := domain.Round{Number: startNumber + r, Group: group}
		for i := 0; i < n/2; i++ {
			home, away := ring[i], ring[n-1-i]
			if home == "" {
				home, away = away, ""
			}
			round.Matches = append(round.Matches, domain.Match{
				ID:     ulid.Make().String(),
				HomeID: home,
				AwayID: away,
				Bye:    away == "",
			})
		}
		rounds = append(rounds, round)

		// Rotate all but the first position
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}

	return rounds
}

// knockoutRounds builds a single-elimination bracket padded to the next
// power of two. First-round slots without an opponent are byes; later
// rounds are emitted with empty slots to be filled as results come in.
func knockoutRounds(participants []string) []domain.Round {
	bracketSize := 1
	for bracketSize < len(participants) {
		bracketSize *= 2
	}

	seeded := make([]string, bracketSize)
	copy(seeded, participants)

	var rounds []domain.Round

	first := domain.Round{Number: 1}
	for i := 0; i < bracketSize/2; i++ {
		home, away := seeded[i], seeded[bracketSize-1-i]
		first.Matches = append(first.Matches, domain.Match{
			ID:     ulid.Make().String(),
			HomeID: home,
			AwayID: away,
			Bye:    away == "",
		})
	}
	rounds = append(rounds, first)

	number := 2
	for slots := bracketSize / 2; slots >= 2; slots /= 2 {
		round := domain.Round{Number: number}
		for i := 0; i < slots/2; i++ {
			round.Matches = append(round.Matches, domain.Match{
				ID: ulid.Make().String(),
			})
		}
		rounds = append(rounds, round)
		number++
	}

	return rounds
}

// groupPlayoffRounds splits the field into round-robin groups whose top
// two advance into a knockout stage. The playoff rounds are emitted with
// empty slots since qualifiers are unknown at generation time.
func groupPlayoffRounds(participants []string, groupCount int) ([]domain.Round, error) {
	if groupCount < 2 {
		groupCount = 2
	}
	if len(participants) < groupCount*2 {
		return nil, fmt.Errorf("%w: %d participants cannot fill %d groups", domain.ErrValidation, len(participants), groupCount)
	}

	groups := make([][]string, groupCount)
	for i, p := range participants {
		groups[i%groupCount] = append(groups[i%groupCount], p)
	}

	var rounds []domain.Round
	number := 1
	for i, members := range groups {
		label := fmt.Sprintf("%c", 'A'+i)
		groupRounds := roundRobinRounds(members, label, number)
		rounds = append(rounds, groupRounds...)
		number += len(groupRounds)
	}

	// Knockout stage for the top two of each group
	playoff := knockoutRounds(make([]string, groupCount*2))
	for i := range playoff {
		playoff[i].Number = number + i
		for j := range playoff[i].Matches {
			playoff[i].Matches[j].HomeID = ""
			playoff[i].Matches[j].AwayID = ""
			playoff[i].Matches[j].Bye = false
		}
	}
	rounds = append(rounds, playoff...)

	return rounds, nil
}
