package memes

import (
	"context"

	"github.com/griefbot/memeforge/internal/cache"
	"github.com/griefbot/memeforge/internal/client"
)

type (
	// Template is one candidate base meme from the lookup service
	Template struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Blank string `json:"blank,omitempty"`
	}

	// TemplateService looks up the catalog of candidate meme templates,
	// consulting the cache before the remote service
	TemplateService struct {
		caller   client.Caller
		cache    *cache.Templates
		endpoint string
	}

	templatesResponse struct {
		Data struct {
			Memes []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
				URL  string `json:"url"`
			} `json:"memes"`
		} `json:"data"`
		ErrorMessage string `json:"error_message"`
		Success      bool   `json:"success"`
	}
)

// NewTemplateService creates a template lookup adapter. The cache may be
// nil, in which case every lookup goes to the service
func NewTemplateService(
	caller client.Caller, endpoint string, c *cache.Templates,
) *TemplateService {
	return &TemplateService{
		caller:   caller,
		cache:    c,
		endpoint: endpoint,
	}
}

// Search returns the ordered list of candidate templates. A cached catalog
// is served without touching the remote service
func (t *TemplateService) Search(ctx context.Context) ([]Template, error) {
	var cached []Template
	if t.cache.Get(ctx, &cached) && len(cached) > 0 {
		return cached, nil
	}

	var resp templatesResponse
	if err := t.caller.Get(ctx, t.endpoint, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, client.NewServiceError(
			"template lookup failed: %s", resp.ErrorMessage,
		)
	}

	res := make([]Template, 0, len(resp.Data.Memes))
	for _, m := range resp.Data.Memes {
		res = append(res, Template{
			ID:    m.ID,
			Name:  m.Name,
			Blank: m.URL,
		})
	}

	if len(res) > 0 {
		t.cache.Put(ctx, res)
	}
	return res, nil
}
