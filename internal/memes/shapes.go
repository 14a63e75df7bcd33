package memes

import "github.com/griefbot/memeforge/pkg/api"

// Step names are part of the pipeline's contract: a failing run reports the
// offending step by one of these names
const (
	StepExtract     api.Name = "extract-frustrations"
	StepFindMeme    api.Name = "find-base-meme"
	StepCaptions    api.Name = "generate-captions"
	StepRender      api.Name = "render-meme"
	PipelineName    api.Name = "meme-generation"
	DescExtract              = "Extracts distinct frustrations from raw user text"
	DescFindMeme             = "Looks up candidate meme templates"
	DescCaptions             = "Writes top and bottom captions for a chosen template"
	DescRender               = "Renders the final meme image"
)

// Field names threaded through the pipeline context
const (
	FieldRawText      api.Name = "rawText"
	FieldFrustrations api.Name = "frustrations"
	FieldMessage      api.Name = "message"
	FieldTemplates    api.Name = "templates"
	FieldID           api.Name = "id"
	FieldName         api.Name = "name"
	FieldBlank        api.Name = "blank"
	FieldCaptions     api.Name = "captions"
	FieldTopText      api.Name = "topText"
	FieldBottomText   api.Name = "bottomText"
	FieldTemplateID   api.Name = "templateId"
	FieldImageURL     api.Name = "imageUrl"
	FieldPageURL      api.Name = "pageUrl"
)

var (
	frustrationsField = &api.Field{
		Kind: api.KindArray,
		Item: &api.Field{Kind: api.KindString},
	}

	templatesField = &api.Field{
		Kind: api.KindArray,
		Item: &api.Field{
			Kind: api.KindObject,
			Fields: api.Shape{
				FieldID:    {Kind: api.KindString},
				FieldName:  {Kind: api.KindString},
				FieldBlank: {Kind: api.KindString, Optional: true},
			},
		},
	}

	captionsField = &api.Field{
		Kind: api.KindObject,
		Fields: api.Shape{
			FieldTopText:    {Kind: api.KindString},
			FieldBottomText: {Kind: api.KindString},
		},
	}

	extractInput = api.Shape{
		FieldRawText: {Kind: api.KindString},
	}

	extractOutput = api.Shape{
		FieldRawText:      {Kind: api.KindString},
		FieldFrustrations: frustrationsField,
		FieldMessage:      {Kind: api.KindString},
	}

	findMemeInput = api.Shape{
		FieldFrustrations: frustrationsField,
	}

	findMemeOutput = api.Shape{
		FieldFrustrations: frustrationsField,
		FieldTemplates:    templatesField,
	}

	captionsInput = api.Shape{
		FieldFrustrations: frustrationsField,
		FieldTemplates:    templatesField,
	}

	captionsOutput = api.Shape{
		FieldCaptions:   captionsField,
		FieldTemplateID: {Kind: api.KindString},
	}

	renderInput = api.Shape{
		FieldTemplateID: {Kind: api.KindString},
		FieldCaptions:   captionsField,
	}

	renderOutput = api.Shape{
		FieldImageURL: {Kind: api.KindString},
		FieldPageURL:  {Kind: api.KindString},
	}
)
