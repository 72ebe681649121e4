// Package gemini adapts the Google generative AI SDK to the two capabilities
// the core needs: embedding text and generating text.
//
// One Client instance serves both the ingestion path and the query path. That
// is deliberate: chunks and queries must be embedded with the same model
// version, because a mismatch silently degrades retrieval instead of failing,
// and a single shared adapter makes the mismatch structurally hard to write.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Client struct {
	client     *genai.Client
	embedModel string
	genModel   string
}

func NewClient(ctx context.Context, apiKey, embedModel, genModel string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}
	opts = append(opts, option.WithAPIKey(apiKey))
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, embedModel: embedModel, genModel: genModel}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Embed maps text to the embedding model's fixed-dimension vector. The same
// method serves chunk indexing and query encoding.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	slog.DebugContext(ctx, "embedding content", "model", c.embedModel, "length", len(text))
	em := c.client.EmbeddingModel(c.embedModel)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding received")
	}
	return res.Embedding.Values, nil
}

// Generate runs one text-completion call with the rendered prompt and returns
// the concatenated text parts of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	slog.DebugContext(ctx, "generating content", "model", c.genModel, "prompt_length", len(prompt))
	gm := c.client.GenerativeModel(c.genModel)
	res, err := gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty generation received")
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("generation produced no text parts")
	}
	return out, nil
}
