package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reco/internal/book"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://openlibrary.org"

// searchFields is the fixed projection requested from search.json.
var searchFields = []string{
	"key", "title", "author_name", "first_publish_year", "number_of_pages_median",
	"ratings_average", "cover_i", "isbn", "publisher", "language", "subject", "first_sentence",
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(baseURL, userAgent string, rps int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: userAgent,
		baseURL:   strings.TrimRight(baseURL, "/"),
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Start    int   `json:"start"`
	Docs     []Doc `json:"docs"`
}

// Doc is one raw search record. Every field except Key may be absent.
type Doc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorNames         []string `json:"author_name"`
	FirstPublishYear    *int     `json:"first_publish_year"`
	NumberOfPagesMedian *int     `json:"number_of_pages_median"`
	RatingsAverage      *float64 `json:"ratings_average"`
	CoverID             *int     `json:"cover_i"`
	ISBN                []string `json:"isbn"`
	Publisher           []string `json:"publisher"`
	Language            []string `json:"language"`
	Subject             []string `json:"subject"`
	FirstSentence       []string `json:"first_sentence"`
}

// SearchURL builds the search.json URL for a query and 1-based page.
func (c *Client) SearchURL(query string, page int) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("limit", strconv.Itoa(book.PageSize))
	v.Set("offset", strconv.Itoa(book.Offset(page)))
	v.Set("fields", strings.Join(searchFields, ","))
	return c.baseURL + "/search.json?" + v.Encode()
}

// Search fetches one page of results and maps every doc to a book.Book.
// The query is sent as given, empty included. There is no retry and no
// caching; any transport, status or decode failure fails the whole call.
func (c *Client) Search(ctx context.Context, query string, page int) (book.Page, error) {
	var res SearchResponse
	if err := c.get(ctx, c.SearchURL(query, page), &res); err != nil {
		return book.Page{}, err
	}

	books := make([]book.Book, 0, len(res.Docs))
	for _, doc := range res.Docs {
		b, err := ToBook(doc)
		if err != nil {
			return book.Page{}, err
		}
		books = append(books, b)
	}
	return book.Page{Books: books, Total: res.NumFound}, nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
