package scorer

import "sharkin/internal/models"

const (
	bonusStep   = 0.5
	bonusCap    = 1.0
	penaltyStep = 0.5
	penaltyCap  = 1.5
	maxTotal    = 10.0
)

var gradeThresholds = []struct {
	min   float64
	grade string
}{
	{9.5, "A+"},
	{8.5, "A"},
	{7.5, "B+"},
	{6.5, "B"},
	{5.5, "C+"},
	{4.5, "C"},
	{3.0, "D"},
}

// Grade maps a total score onto the letter scale A+ through F.
func Grade(total float64) string {
	for _, t := range gradeThresholds {
		if total >= t.min {
			return t.grade
		}
	}
	return "F"
}

// ExpectedTotal is what the rubric arithmetic yields for sc: the four
// dimensions plus capped bonuses minus capped penalties, clamped to 0..10.
func ExpectedTotal(sc models.HookScore) float64 {
	bonus := min(bonusStep*float64(len(sc.Bonuses)), bonusCap)
	penalty := min(penaltyStep*float64(len(sc.Penalties)), penaltyCap)
	return max(0, min(sc.Scores.Sum()+bonus-penalty, maxTotal))
}
