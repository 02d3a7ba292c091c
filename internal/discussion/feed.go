package discussion

import (
	"sort"

	"github.com/courseline-dev/courseline/internal/domain"
)

// SortKey selects the feed ordering.
type SortKey string

const (
	SortRecent     SortKey = "recent"
	SortPopular    SortKey = "popular"
	SortUnanswered SortKey = "unanswered"
)

// ParseSortKey maps a user-supplied string to a sort key, defaulting to
// recent.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPopular:
		return SortPopular
	case SortUnanswered:
		return SortUnanswered
	default:
		return SortRecent
	}
}

// Project returns a new slice ordered by key. The input is never mutated;
// ties not covered by an explicit tie-break keep their original relative
// order. Unanswered is a reordering, not a filter: every thread stays in
// the result, zero-reply threads merely come first.
func Project(threads []domain.ThreadPreview, key SortKey) []domain.ThreadPreview {
	ordered := make([]domain.ThreadPreview, len(threads))
	copy(ordered, threads)

	switch key {
	case SortPopular:
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].VoteCount != ordered[j].VoteCount {
				return ordered[i].VoteCount > ordered[j].VoteCount
			}
			return ordered[i].ReplyCount > ordered[j].ReplyCount
		})
	case SortUnanswered:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].ReplyCount < ordered[j].ReplyCount
		})
	default:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		})
	}
	return ordered
}
