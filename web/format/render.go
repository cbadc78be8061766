// Package format renders assistant markdown content to HTML for the
// transcript endpoint. Rendered output is memoized per entry: transcript
// entries are immutable after insertion, so the entry ID is a stable cache
// key.
package format

import (
	"strings"

	"github.com/gomarkdown/markdown"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

type Renderer struct {
	cache  *lru.Cache
	logger *zap.Logger
}

func NewRenderer(cacheSize int, logger *zap.Logger) (*Renderer, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Renderer{cache: cache, logger: logger}, nil
}

// HTML returns the rendered form of an assistant entry's content, serving
// from the cache when the entry was rendered before.
func (r *Renderer) HTML(entryID, content string) string {
	if cached, ok := r.cache.Get(entryID); ok {
		return cached.(string)
	}

	html := string(markdown.ToHTML([]byte(preprocess(content)), nil, nil))
	r.cache.Add(entryID, html)
	return html
}

// preprocess normalizes LLM output before markdown rendering.
func preprocess(text string) string {
	if text == "" {
		return text
	}

	// Replace curly quotes (helps readability)
	return strings.NewReplacer(
		"“", "\"", // "
		"”", "\"", // "
		"‘", "'", // '
		"’", "'", // '
	).Replace(text)
}
