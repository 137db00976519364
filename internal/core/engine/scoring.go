package engine

import "github.com/richschool/compound-school/internal/core/domain"

// Score is one bar of the account-book chart.
type Score struct {
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
	Score    int             `json:"score"`
	Count    int             `json:"count"`
}

// CategoryScore sums |cost| + reward over the choices in category c. Spending
// and earning weigh the same: the score measures engagement, not net worth.
func CategoryScore(choices []domain.ChoiceRecord, c domain.Category) int {
	total := 0
	for _, ch := range choices {
		if ch.Category == c {
			total += abs(ch.Cost) + ch.Reward
		}
	}
	return total
}

// CategoryCount counts the choices in category c.
func CategoryCount(choices []domain.ChoiceRecord, c domain.Category) int {
	n := 0
	for _, ch := range choices {
		if ch.Category == c {
			n++
		}
	}
	return n
}

// Scores returns one score per category in enumeration order.
func Scores(choices []domain.ChoiceRecord) []Score {
	out := make([]Score, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, Score{
			Category: c,
			Label:    c.Label(),
			Score:    CategoryScore(choices, c),
			Count:    CategoryCount(choices, c),
		})
	}
	return out
}

// DominantCategory returns the category with the highest score. A later
// category only wins with a strictly greater score, so ties (including the
// all-zero case) resolve to the earliest category.
func DominantCategory(choices []domain.ChoiceRecord) domain.Category {
	best := domain.Categories[0]
	bestScore := CategoryScore(choices, best)
	for _, c := range domain.Categories[1:] {
		if score := CategoryScore(choices, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// Identity returns the persona for the dominant category.
func Identity(choices []domain.ChoiceRecord) domain.Persona {
	return domain.PersonaFor(DominantCategory(choices))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
