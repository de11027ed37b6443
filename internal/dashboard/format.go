package dashboard

import (
	"math"
	"sort"
	"strconv"

	"storefront/internal/domain"
)

func idString(id int64) string { return strconv.FormatInt(id, 10) }

// Percent turns a 0..1 level into a whole percentage.
func Percent(level float64) int {
	return int(math.Round(level * 100))
}

// Delta is the change between two levels in whole percentage points.
func Delta(from, to float64) int {
	return int(math.Round((to - from) * 100))
}

// Bar clamps a level to 0..100 for use as a CSS width.
func Bar(level float64) int {
	return min(max(Percent(level), 0), 100)
}

// RankedGaps returns gaps ordered by gap score, largest first. Ties keep their
// original order.
func RankedGaps(gaps []domain.SkillGap) []domain.SkillGap {
	out := append([]domain.SkillGap(nil), gaps...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].GapScore > out[j].GapScore })
	return out
}

// Funcs are the template helpers the navigator views use.
func Funcs() map[string]any {
	return map[string]any{
		"percent":    Percent,
		"delta":      Delta,
		"bar":        Bar,
		"rankedGaps": RankedGaps,
	}
}
