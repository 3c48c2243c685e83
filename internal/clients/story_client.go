package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hamza-bely/4hybd/internal/models"
)

// StoryFetcher is the collaborator surface the story layer consumes.
type StoryFetcher interface {
	AllStories(ctx context.Context) ([]models.Story, error)
	StoryByID(ctx context.Context, id int64) (models.Story, error)
}

// StoryClient talks to the story service.
type StoryClient struct {
	api httpAPI
}

// NewStoryClient builds a StoryClient for the given base URL.
func NewStoryClient(baseURL string, httpClient *http.Client) *StoryClient {
	return &StoryClient{api: newHTTPAPI("story", baseURL, httpClient)}
}

// AllStories returns the full story collection; visibility filtering
// happens on our side.
func (c *StoryClient) AllStories(ctx context.Context) ([]models.Story, error) {
	var stories []models.Story
	if err := c.api.getJSON(ctx, "/api/stories", &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// StoryByID fetches a single story.
func (c *StoryClient) StoryByID(ctx context.Context, id int64) (models.Story, error) {
	var story models.Story
	if err := c.api.getJSON(ctx, fmt.Sprintf("/api/stories/%d", id), &story); err != nil {
		return models.Story{}, err
	}
	return story, nil
}

var _ StoryFetcher = (*StoryClient)(nil)
