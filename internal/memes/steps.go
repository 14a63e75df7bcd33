// Package memes defines the meme-generation pipeline: four shape-typed
// steps that turn raw frustration text into a rendered, shareable meme.
package memes

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/griefbot/memeforge/internal/pipeline"
	"github.com/griefbot/memeforge/pkg/api"
)

// Services holds the external service adapters the steps call through
type Services struct {
	Generator *Generator
	Templates *TemplateService
	Render    *RenderService
}

var (
	ErrEmptyText       = errors.New("no text to work with")
	ErrNoFrustrations  = errors.New("no frustrations could be extracted")
	ErrNoTemplates     = errors.New("template lookup returned no templates")
	ErrEmptyCaption    = errors.New("caption text empty")
	ErrUnknownTemplate = errors.New("captions reference an unknown template")
	ErrBadArtifactURL  = errors.New("render service returned a bad URL")
)

// Template catalogs can be large; only the best-known entries are offered
// to the caption generator
const maxCandidates = 12

const (
	extractSystemPrompt = "You analyze workplace frustrations. Extract " +
		"each distinct frustration from the user's text. Respond with a " +
		"JSON object: {\"frustrations\": [\"...\"], \"message\": \"a " +
		"short empathetic one-liner\"}. Keep each frustration to a few " +
		"words."

	captionSystemPrompt = "You write meme captions. Given frustrations " +
		"and a numbered list of meme templates, pick the template that " +
		"fits best and write a top and bottom caption. Respond with a " +
		"JSON object: {\"templateId\": \"...\", \"topText\": \"...\", " +
		"\"bottomText\": \"...\"}. Captions must be short and punchy."
)

// BuildPipeline assembles the four-step meme pipeline. Construction fails
// with a ConfigError if the step chain does not type-check
func BuildPipeline(
	svc Services, opts ...pipeline.Option,
) (*pipeline.Pipeline, error) {
	steps := []*pipeline.Step{
		extractStep(svc.Generator),
		findMemeStep(svc.Templates),
		captionsStep(svc.Generator),
		renderStep(svc.Render),
	}
	return pipeline.New(PipelineName, steps, opts...)
}

func extractStep(gen *Generator) *pipeline.Step {
	return &pipeline.Step{
		Name:        StepExtract,
		Description: DescExtract,
		Input:       extractInput,
		Output:      extractOutput,
		Handler: func(ctx context.Context, in api.Args) (api.Args, error) {
			raw := strings.TrimSpace(in.GetString(FieldRawText, ""))
			if raw == "" {
				return nil, ErrEmptyText
			}

			generated, err := gen.Generate(ctx, extractSystemPrompt, raw)
			if err != nil {
				return nil, err
			}

			frustrations := generated.GetStrings(FieldFrustrations)
			if len(frustrations) == 0 {
				return nil, ErrNoFrustrations
			}

			message := generated.GetString(FieldMessage, "")
			if message == "" {
				message = "That sounds rough. Let's meme it."
			}

			return api.Args{
				FieldRawText:      raw,
				FieldFrustrations: frustrations,
				FieldMessage:      message,
			}, nil
		},
	}
}

func findMemeStep(svc *TemplateService) *pipeline.Step {
	return &pipeline.Step{
		Name:        StepFindMeme,
		Description: DescFindMeme,
		Input:       findMemeInput,
		Output:      findMemeOutput,
		Handler: func(ctx context.Context, in api.Args) (api.Args, error) {
			templates, err := svc.Search(ctx)
			if err != nil {
				return nil, err
			}
			if len(templates) == 0 {
				return nil, ErrNoTemplates
			}
			if len(templates) > maxCandidates {
				templates = templates[:maxCandidates]
			}

			list := make([]api.Args, 0, len(templates))
			for _, t := range templates {
				entry := api.Args{
					FieldID:   t.ID,
					FieldName: t.Name,
				}
				if t.Blank != "" {
					entry[FieldBlank] = t.Blank
				}
				list = append(list, entry)
			}

			return api.Args{
				FieldFrustrations: in[FieldFrustrations],
				FieldTemplates:    list,
			}, nil
		},
	}
}

func captionsStep(gen *Generator) *pipeline.Step {
	return &pipeline.Step{
		Name:        StepCaptions,
		Description: DescCaptions,
		Input:       captionsInput,
		Output:      captionsOutput,
		Handler: func(ctx context.Context, in api.Args) (api.Args, error) {
			frustrations := in.GetStrings(FieldFrustrations)
			templates := in.GetList(FieldTemplates)

			generated, err := gen.Generate(
				ctx, captionSystemPrompt,
				captionUserPrompt(frustrations, templates),
			)
			if err != nil {
				return nil, err
			}

			topText := strings.TrimSpace(
				generated.GetString(FieldTopText, ""),
			)
			bottomText := strings.TrimSpace(
				generated.GetString(FieldBottomText, ""),
			)
			if topText == "" || bottomText == "" {
				return nil, ErrEmptyCaption
			}

			templateID := generated.GetString(FieldTemplateID, "")
			if !knownTemplate(templates, templateID) {
				return nil, fmt.Errorf("%w: %q",
					ErrUnknownTemplate, templateID)
			}

			return api.Args{
				FieldCaptions: api.Args{
					FieldTopText:    topText,
					FieldBottomText: bottomText,
				},
				FieldTemplateID: templateID,
			}, nil
		},
	}
}

func renderStep(svc *RenderService) *pipeline.Step {
	return &pipeline.Step{
		Name:        StepRender,
		Description: DescRender,
		Input:       renderInput,
		Output:      renderOutput,
		Handler: func(ctx context.Context, in api.Args) (api.Args, error) {
			captions := in.GetObject(FieldCaptions)
			artifact, err := svc.Caption(
				ctx,
				in.GetString(FieldTemplateID, ""),
				captions.GetString(FieldTopText, ""),
				captions.GetString(FieldBottomText, ""),
			)
			if err != nil {
				return nil, err
			}

			if !wellFormedURL(artifact.ImageURL) ||
				!wellFormedURL(artifact.PageURL) {
				return nil, ErrBadArtifactURL
			}

			return api.Args{
				FieldImageURL: artifact.ImageURL,
				FieldPageURL:  artifact.PageURL,
			}, nil
		},
	}
}

func captionUserPrompt(frustrations []string, templates []api.Args) string {
	var b strings.Builder
	b.WriteString("Frustrations:\n")
	for _, f := range frustrations {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\nTemplates:\n")
	for _, t := range templates {
		fmt.Fprintf(&b, "- id=%s name=%s\n",
			t.GetString(FieldID, ""), t.GetString(FieldName, ""))
	}
	return b.String()
}

func knownTemplate(templates []api.Args, id string) bool {
	if id == "" {
		return false
	}
	for _, t := range templates {
		if t.GetString(FieldID, "") == id {
			return true
		}
	}
	return false
}

func wellFormedURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
