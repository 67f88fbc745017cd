package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const (
	// titleMaxLen bounds a synthesized title, ellipsis included.
	titleMaxLen = 40
	// fallbackMaxLen bounds the message-derived fallback title.
	fallbackMaxLen = 30
)

// Generator is the minimal gateway surface the services need. *llm.Client
// satisfies it; tests substitute fakes.
type Generator interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// GenerateChatTitle asks the model for a short descriptive title for a chat
// opening with message. It never fails: any gateway error falls back to a
// prefix of the message itself, so callers can rely on always getting a title.
func GenerateChatTitle(ctx context.Context, gen Generator, message string) string {
	prompt := fmt.Sprintf("Create a very brief, specific title (3-5 words) for a chat that starts with this message. Make it descriptive and unique: %q. Just return the title without quotes or explanations.", message)

	raw, err := gen.GenerateResponse(ctx, prompt)
	if err != nil {
		log.Printf("Title generation failed, falling back to message prefix: %v", err)
		return truncateWithEllipsis(message, fallbackMaxLen)
	}

	title := strings.NewReplacer("\"", "", "'", "", "\n", " ").Replace(raw)
	title = strings.TrimSpace(title)
	return truncateWithEllipsis(title, titleMaxLen)
}

// truncateWithEllipsis caps s at max runes, replacing the tail with "..." when
// it has to cut. Rune-based so multi-byte characters are never split.
func truncateWithEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
