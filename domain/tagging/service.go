// Package tagging suggests tags for notes using the configured language
// model. Suggestions are advisory: tags the user supplied always win, and
// a failed or unconfigured provider simply yields none.
package tagging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mindweave-labs/mindweave/pkg/llm"
	"github.com/mindweave-labs/mindweave/pkg/logger"
)

// MaxTags caps how many suggested tags a note receives.
const MaxTags = 2

// maxContentChars limits how much note text goes into the prompt.
const maxContentChars = 4000

const promptTemplate = `You are labeling a personal note for a knowledge base.
Suggest at most %d short topical tags for the note below.
Reply with only the tags, lowercase, comma-separated, no other text.

Note:
%s`

// Service suggests tags for note content.
type Service struct {
	provider llm.Provider
	log      *slog.Logger
}

func NewService(provider llm.Provider, log *slog.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.With(logger.Scope("tagging")),
	}
}

// IsConfigured reports whether a real provider backs the service.
func (s *Service) IsConfigured() bool {
	return s.provider.IsConfigured()
}

// SuggestTags asks the model for tags and normalizes its reply. An empty
// reply yields no tags and no error.
func (s *Service) SuggestTags(ctx context.Context, content string) ([]string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	prompt := fmt.Sprintf(promptTemplate, MaxTags, content)
	reply, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("tag suggestion: %w", err)
	}

	tags := ParseTags(reply)
	s.log.Debug("suggested tags", slog.Int("count", len(tags)))
	return tags, nil
}

// ParseTags normalizes a model reply into at most MaxTags lowercase tags.
// It tolerates the formats models actually produce: comma or newline
// separated, bulleted, quoted, or hash-prefixed.
func ParseTags(reply string) []string {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]struct{}, len(fields))
	var tags []string
	for _, field := range fields {
		tag := strings.ToLower(strings.TrimSpace(field))
		tag = strings.TrimLeft(tag, "-*# ")
		tag = strings.Trim(tag, `"'`)
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}
