package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/tieubaoca/prism-be/logger"
	"github.com/tieubaoca/prism-be/types"
)

// SearchResult represents a single search result from Google Custom Search API
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// PaperSearcher finds web pages for a paper title.
type PaperSearcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// SearchService looks papers up with Google Custom Search
type SearchService struct {
	apiKey   string // Google API key for authentication
	engineID string // Custom Search Engine ID
	limit    int64
}

// NewSearchService creates a new instance of SearchService
// Parameters:
//   - apiKey: Google API key for authentication
//   - engineID: Custom Search Engine ID
func NewSearchService(apiKey, engineID string) *SearchService {
	return &SearchService{
		apiKey:   apiKey,
		engineID: engineID,
		limit:    3,
	}
}

// Search performs a Google Custom Search and returns structured results
// Parameters:
//   - ctx: Context for handling cancellation and timeouts
//   - query: The search query string
//
// Returns:
//   - []SearchResult: Slice of search results
//   - error: Error if the search fails
func (s *SearchService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	opts := []option.ClientOption{}
	if s.apiKey != "" {
		opts = append(opts, option.WithAPIKey(s.apiKey))
	}
	searchService, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	// Configure and execute the search
	result, err := searchService.Cse.List().
		Q(query).
		Cx(s.engineID).
		Num(s.limit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	searchResults := make([]SearchResult, 0, len(result.Items))
	for _, item := range result.Items {
		searchResults = append(searchResults, SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return searchResults, nil
}

const maxConcurrentLookups = 4

// attachPaperLinks sets Link on every roadmap node to the first search hit
// for its title. A failed lookup leaves the node without a link.
func attachPaperLinks(ctx context.Context, searcher PaperSearcher, roadmap *types.ResearchRoadmap, log *logger.Logger) {
	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)
	for i := range roadmap.Nodes {
		node := &roadmap.Nodes[i]
		g.Go(func() error {
			query := node.Title
			if node.Year > 0 {
				query = fmt.Sprintf("%s %d paper", node.Title, node.Year)
			}
			results, err := searcher.Search(ctx, query)
			if err != nil {
				log.Warn("Paper lookup failed", "node", node.ID, "error", err)
				return nil
			}
			if len(results) > 0 {
				node.Link = results[0].Link
			}
			return nil
		})
	}
	_ = g.Wait()
}
