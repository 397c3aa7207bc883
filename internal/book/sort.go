package book

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// PageSize is the fixed number of results per page.
const PageSize = 10

// TotalPages returns ceil(total / PageSize). A total of zero or less yields zero.
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// Offset returns the result offset of a 1-based page.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

// Sort returns a copy of books ordered by option. Only the given slice is
// ordered; there is no notion of global order across pages. Unknown options
// return the copy in its original order.
func Sort(books []Book, option SortOption) []Book {
	sorted := slices.Clone(books)

	var cmp func(a, b Book) int
	switch option {
	case SortPublicationDate:
		cmp = func(a, b Book) int { return compareDesc(publicationYear(a), publicationYear(b)) }
	case SortRating:
		cmp = func(a, b Book) int { return compareDesc(a.AverageRating, b.AverageRating) }
	case SortLength:
		cmp = func(a, b Book) int { return compareDesc(b.PageCount, a.PageCount) }
	case SortPopularity:
		cmp = func(a, b Book) int { return compareDesc(a.Popularity, b.Popularity) }
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, cmp)
	return sorted
}

func compareDesc[T int | float64](a, b T) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// publicationYear parses the year of a book, mapping anything that is not a
// number (including "Unknown") to the minimum so it sorts last.
func publicationYear(b Book) int {
	year, err := strconv.Atoi(strings.TrimSpace(b.PublicationDate))
	if err != nil {
		return math.MinInt
	}
	return year
}
