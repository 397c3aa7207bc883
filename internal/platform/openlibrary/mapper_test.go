package openlibrary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestToBook_Defaults(t *testing.T) {
	b, err := ToBook(Doc{Key: "/works/OL1W", Title: "Bare"})
	require.NoError(t, err)

	assert.Equal(t, "/works/OL1W", b.ID)
	assert.Equal(t, "Bare", b.Title)
	assert.Equal(t, "Unknown Author", b.Author)
	assert.Equal(t, "No synopsis available.", b.Synopsis)
	assert.Equal(t, []string{"Uncategorized"}, b.Genres)
	assert.Equal(t, "Adult", b.ReadingLevel)
	assert.Equal(t, "Unknown", b.PublicationDate)
	assert.Equal(t, 0, b.PageCount)
	assert.Equal(t, 0.0, b.AverageRating)
	assert.Equal(t, 0.0, b.Popularity)
	assert.Equal(t, "10 hours", b.EstimatedReadingTime)
	assert.Empty(t, b.SimilarBooks)
	assert.Empty(t, b.ContentWarnings)
	assert.Equal(t, PlaceholderCoverURL, b.CoverURL)
	assert.Empty(t, b.ISBN)
	assert.Empty(t, b.Publisher)
	assert.Empty(t, b.Language)
}

func TestToBook_AllFields(t *testing.T) {
	doc := Doc{
		Key:                 "/works/OL27448W",
		Title:               "The Lord of the Rings",
		AuthorNames:         []string{"J.R.R. Tolkien", "Christopher Tolkien"},
		FirstPublishYear:    intPtr(1954),
		NumberOfPagesMedian: intPtr(1193),
		RatingsAverage:      floatPtr(4.52),
		CoverID:             intPtr(14625765),
		ISBN:                []string{"9780618640157", "0618640150"},
		Publisher:           []string{"Houghton Mifflin"},
		Language:            []string{"eng", "spa"},
		Subject:             []string{"Fiction", "Fantasy", "Elves", "Hobbits", "Wizards", "Rings", "Quests"},
		FirstSentence:       []string{"When Mr. Bilbo Baggins of Bag End announced..."},
	}

	b, err := ToBook(doc)
	require.NoError(t, err)

	assert.Equal(t, "J.R.R. Tolkien", b.Author)
	assert.Equal(t, "When Mr. Bilbo Baggins of Bag End announced...", b.Synopsis)
	assert.Equal(t, []string{"Fiction", "Fantasy", "Elves", "Hobbits", "Wizards"}, b.Genres)
	assert.Equal(t, "1954", b.PublicationDate)
	assert.Equal(t, 1193, b.PageCount)
	assert.Equal(t, 4.52, b.AverageRating)
	assert.Equal(t, "40 hours", b.EstimatedReadingTime)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/14625765-L.jpg", b.CoverURL)
	assert.Equal(t, "9780618640157", b.ISBN)
	assert.Equal(t, "Houghton Mifflin", b.Publisher)
	assert.Equal(t, "eng", b.Language)
}

func TestToBook_ReadingTime(t *testing.T) {
	b, err := ToBook(Doc{Key: "k", NumberOfPagesMedian: intPtr(90)})
	require.NoError(t, err)
	assert.Equal(t, "3 hours", b.EstimatedReadingTime)

	b, err = ToBook(Doc{Key: "k", NumberOfPagesMedian: intPtr(91)})
	require.NoError(t, err)
	assert.Equal(t, "4 hours", b.EstimatedReadingTime)
}

func TestToBook_GenresAreCopied(t *testing.T) {
	subjects := []string{"a", "b"}
	b, err := ToBook(Doc{Key: "k", Subject: subjects})
	require.NoError(t, err)

	b.Genres[0] = "changed"
	assert.Equal(t, "a", subjects[0])
}

func TestToBook_EmptySubjectListIsUncategorized(t *testing.T) {
	var doc Doc
	require.NoError(t, json.Unmarshal([]byte(`{"key":"/works/OL1W","subject":[]}`), &doc))

	b, err := ToBook(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"Uncategorized"}, b.Genres)
}

func TestToBook_MissingKey(t *testing.T) {
	_, err := ToBook(Doc{Title: "No key"})
	assert.ErrorIs(t, err, ErrMissingKey)
}
