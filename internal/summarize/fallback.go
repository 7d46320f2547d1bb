package summarize

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/freeresearch/internal/report"
)

// Fallback uses Secondary whenever Primary fails.
type Fallback struct {
	Primary   Summarizer
	Secondary Summarizer
}

func (f Fallback) Name() string { return f.Primary.Name() + "+" + f.Secondary.Name() }

func (f Fallback) Summarize(ctx context.Context, in Input) (report.Finding, error) {
	finding, err := f.Primary.Summarize(ctx, in)
	if err == nil {
		return finding, nil
	}
	log.Warn().Err(err).Str("url", in.Source.URL).Str("fallback", f.Secondary.Name()).Msg("summarizer failed; falling back")
	return f.Secondary.Summarize(ctx, in)
}
