package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/freeresearch/internal/extract"
	"github.com/hyperifyio/freeresearch/internal/llm"
	"github.com/hyperifyio/freeresearch/internal/report"
)

const (
	defaultMaxInputChars = 6000
	defaultRetryDelay    = 200 * time.Millisecond
	maxDelegatedPoints   = 5
)

const systemPrompt = "You summarize web pages for a research assistant. Use only the provided text. " +
	"Respond with strict JSON only, no prose: {\"summary\": string, \"key_points\": [string]}. " +
	"Keep the summary under 80 words and give at most 5 key points."

// ErrEmptySummary is wrapped when the model answers without a usable summary.
var ErrEmptySummary = errors.New("model returned no summary")

// Delegated asks an OpenAI-compatible chat model for the summary and key
// points. Credibility is still computed locally.
type Delegated struct {
	Client        llm.Client
	Model         string
	MaxInputChars int
	Temperature   float32
	MaxPoints     int
	// RetryDelay is the pause before the single retry. Zero means 200ms.
	RetryDelay time.Duration
}

func (d *Delegated) Name() string { return "delegated" }

type modelSummary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

func (d *Delegated) Summarize(ctx context.Context, in Input) (report.Finding, error) {
	fail := func(err error) (report.Finding, error) {
		return report.Finding{}, &SummarizationError{Model: d.Model, URL: in.Source.URL, Err: err}
	}
	if d.Client == nil || strings.TrimSpace(d.Model) == "" {
		return fail(errors.New("delegated summarizer not configured"))
	}
	text := in.text()
	limit := d.MaxInputChars
	if limit <= 0 {
		limit = defaultMaxInputChars
	}
	req := openai.ChatCompletionRequest{
		Model: d.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserMessage(in, extract.Truncate(text, limit))},
		},
		Temperature: d.Temperature,
		N:           1,
	}

	out, err := d.call(ctx, req)
	if err != nil {
		delay := d.RetryDelay
		if delay <= 0 {
			delay = defaultRetryDelay
		}
		log.Debug().Err(err).Str("url", in.Source.URL).Msg("delegated summary failed; retrying once")
		select {
		case <-ctx.Done():
			return fail(ctx.Err())
		case <-time.After(delay):
		}
		out, err = d.call(ctx, req)
		if err != nil {
			return fail(err)
		}
	}

	max := d.MaxPoints
	if max <= 0 || max > maxDelegatedPoints {
		max = maxDelegatedPoints
	}
	points := make([]string, 0, len(out.KeyPoints))
	for _, kp := range out.KeyPoints {
		if kp = strings.TrimSpace(kp); kp != "" && len(points) < max {
			points = append(points, kp)
		}
	}
	return report.Finding{
		Source:           in.Source,
		Title:            in.title(),
		Summary:          strings.TrimSpace(out.Summary),
		CredibilityScore: Credibility(text),
		KeyPoints:        points,
		Status:           in.Content.Status,
	}, nil
}

func (d *Delegated) call(ctx context.Context, req openai.ChatCompletionRequest) (modelSummary, error) {
	resp, err := d.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return modelSummary{}, err
	}
	if len(resp.Choices) == 0 {
		return modelSummary{}, ErrEmptySummary
	}
	return parseModelSummary(resp.Choices[0].Message.Content)
}

func buildUserMessage(in Input, text string) string {
	var sb strings.Builder
	if in.Query != "" {
		sb.WriteString("Research question: ")
		sb.WriteString(in.Query)
		sb.WriteString("\n")
	}
	sb.WriteString("Title: ")
	sb.WriteString(in.title())
	sb.WriteString("\nURL: ")
	sb.WriteString(in.Source.URL)
	sb.WriteString("\n\nText:\n")
	sb.WriteString(text)
	return sb.String()
}

// parseModelSummary accepts bare JSON or JSON wrapped in a code fence or prose.
func parseModelSummary(content string) (modelSummary, error) {
	s := strings.TrimSpace(content)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return modelSummary{}, ErrEmptySummary
	}
	var out modelSummary
	if err := json.Unmarshal([]byte(s[start:end+1]), &out); err != nil {
		return modelSummary{}, err
	}
	if strings.TrimSpace(out.Summary) == "" {
		return modelSummary{}, ErrEmptySummary
	}
	return out, nil
}
