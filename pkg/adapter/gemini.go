package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"google.golang.org/genai"
)

// Embedder turns raw memory content or a query string into a vector in one
// modality's embedding space. A text index only uses EmbedText; an image
// index uses EmbedImage for content and EmbedText for queries, since the
// image embedding space is shared with text the way CLIP-style models are.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedImage(ctx context.Context, data []byte, mimeType string) ([]float32, error)
	Dimension() int
}

type GeminiClient struct {
	client     *genai.Client
	textModel  string
	imageModel string
	dimension  int32
}

type GeminiOption func(*GeminiClient)

func WithTextModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.textModel = model
	}
}

func WithImageModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.imageModel = model
	}
}

func WithDimension(dim int) GeminiOption {
	return func(g *GeminiClient) {
		g.dimension = int32(dim)
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiClient{
		client:     client,
		textModel:  "gemini-embedding-001",
		imageModel: "multimodalembedding@001",
		dimension:  768,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *GeminiClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, goerr.Wrap(model.ErrEmbeddingFailed, "cannot embed empty text")
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.textModel, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: &g.dimension,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed text", goerr.V("model", g.textModel))
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, goerr.Wrap(model.ErrEmbeddingFailed, "embedding response is empty")
	}

	return resp.Embeddings[0].Values, nil
}

func (g *GeminiClient) EmbedImage(ctx context.Context, data []byte, mimeType string) ([]float32, error) {
	if len(data) == 0 {
		return nil, goerr.Wrap(model.ErrEmbeddingFailed, "cannot embed empty image")
	}

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			},
		},
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.imageModel, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &g.dimension,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed image", goerr.V("model", g.imageModel), goerr.V("mime_type", mimeType))
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, goerr.Wrap(model.ErrEmbeddingFailed, "embedding response is empty")
	}

	return resp.Embeddings[0].Values, nil
}

func (g *GeminiClient) Dimension() int {
	return int(g.dimension)
}
