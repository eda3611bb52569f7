package memory

import "context"

// defaultPeakHours mirrors the common short-video engagement peaks used when
// a campaign asks for suggested posting hours without analytics wired in.
var defaultPeakHours = []int{9, 12, 18, 21}

// StaticHourSuggester returns a fixed hour set for every campaign.
type StaticHourSuggester struct {
	Hours []int
}

func NewStaticHourSuggester(hours []int) StaticHourSuggester {
	if len(hours) == 0 {
		hours = defaultPeakHours
	}
	return StaticHourSuggester{Hours: hours}
}

func (s StaticHourSuggester) SuggestHours(_ context.Context, _ string) ([]int, error) {
	return append([]int(nil), s.Hours...), nil
}
