package memes

import (
	"context"
	"net/url"

	"github.com/griefbot/memeforge/internal/client"
)

type (
	// Artifact is the rendered meme: a directly shareable image URL and
	// the page hosting it
	Artifact struct {
		ImageURL string `json:"image_url"`
		PageURL  string `json:"page_url"`
	}

	// RenderService captions a template through the render service.
	// Credentials are optional; without them the service applies reduced
	// rate limits
	RenderService struct {
		caller   client.Caller
		endpoint string
		username string
		password string
	}

	renderResponse struct {
		Data struct {
			URL     string `json:"url"`
			PageURL string `json:"page_url"`
		} `json:"data"`
		ErrorMessage string `json:"error_message"`
		Success      bool   `json:"success"`
	}
)

// NewRenderService creates a caption/render adapter
func NewRenderService(
	caller client.Caller, endpoint, username, password string,
) *RenderService {
	return &RenderService{
		caller:   caller,
		endpoint: endpoint,
		username: username,
		password: password,
	}
}

// Caption renders the template with the provided texts. An application
// error from the service (bad template id, bad credentials) is surfaced
// immediately and never retried
func (r *RenderService) Caption(
	ctx context.Context, templateID, topText, bottomText string,
) (*Artifact, error) {
	form := url.Values{}
	form.Set("template_id", templateID)
	form.Set("username", r.username)
	form.Set("password", r.password)
	form.Set("text0", topText)
	form.Set("text1", bottomText)

	var resp renderResponse
	if err := r.caller.PostForm(ctx, r.endpoint, form, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, client.NewServiceError(
			"render failed: %s", resp.ErrorMessage,
		)
	}
	return &Artifact{
		ImageURL: resp.Data.URL,
		PageURL:  resp.Data.PageURL,
	}, nil
}
