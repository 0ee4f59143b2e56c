package services

import "github.com/ddfilmmaker/AppSchedina-sub000/models"

// MatchScore is the per-user outcome of scoring regular matchday picks.
type MatchScore struct {
	Points       int
	CorrectPicks int
}

// ComputeMatchPoints scores every user's picks across the completed
// matchdays. It is a pure function: no I/O, deterministic, safe to rerun.
//
// Only matchdays flagged completed count, and within them only matches that
// have an official result. A completed matchday may still contain unresulted
// matches (late postponements); those contribute nothing. A pick referencing
// a match outside matchesByMatchday is skipped, never an error, because
// standings must always render even with stale correlated rows.
func ComputeMatchPoints(
	matchdays []models.Matchday,
	matchesByMatchday map[int][]models.Match,
	picksByUser map[int][]models.Pick,
) map[int]MatchScore {

	// Result of every scoreable match, keyed by match ID.
	resultByMatch := make(map[int]models.MatchResult)
	for _, md := range matchdays {
		if !md.IsCompleted {
			continue
		}
		for _, match := range matchesByMatchday[md.ID] {
			if match.Result != nil {
				resultByMatch[match.ID] = *match.Result
			}
		}
	}

	scores := make(map[int]MatchScore, len(picksByUser))
	for userID, picks := range picksByUser {
		var score MatchScore
		for _, pick := range picks {
			result, ok := resultByMatch[pick.MatchID]
			if !ok {
				continue
			}
			if pick.Value == result {
				score.Points++
				score.CorrectPicks++
			}
		}
		scores[userID] = score
	}
	return scores
}

// ScoreSingleMatch awards points for one resulted match, used by per-match
// views that do not wait for the whole matchday to complete.
func ScoreSingleMatch(match *models.Match, picks []models.Pick) map[int]MatchScore {
	scores := make(map[int]MatchScore, len(picks))
	if match == nil || match.Result == nil {
		return scores
	}
	for _, pick := range picks {
		var score MatchScore
		if pick.Value == *match.Result {
			score.Points = 1
			score.CorrectPicks = 1
		}
		scores[pick.UserID] = score
	}
	return scores
}
