package analytics

import "strings"

// Meeting categories.
const (
	CategoryStandups   = "Standups"
	CategoryOneOnOnes  = "1:1s"
	CategoryReviews    = "Reviews"
	CategoryPlanning   = "Planning"
	CategoryInterviews = "Interviews"
	CategoryAllHands   = "All Hands"
	CategoryOther      = "Other"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryStandups, []string{"standup", "daily"}},
	{CategoryOneOnOnes, []string{"1:1", "one-on-one"}},
	{CategoryReviews, []string{"review", "retro"}},
	{CategoryPlanning, []string{"planning", "sprint"}},
	{CategoryInterviews, []string{"interview"}},
	{CategoryAllHands, []string{"all hands", "town hall"}},
}

// Categorize maps a meeting title to a category. The first matching
// category wins.
func Categorize(summary string) string {
	lower := strings.ToLower(summary)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return CategoryOther
}

// isFocusBlock reports whether an event protects focus time.
func isFocusBlock(summary string) bool {
	lower := strings.ToLower(summary)
	return strings.Contains(lower, "focus") || strings.Contains(lower, "do not book")
}
