package feed

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
)

// Permanent links embed the post id as a /status/<digits> path
// segment. No match means no stable identifier.
var statusIDPattern = regexp.MustCompile(`/status/(\d+)`)

// Normalizer turns one syndication-feed document into social posts.
// One malformed item is skipped; a document that is not well-formed
// markup is an error so the caller's failover classification applies.
type Normalizer struct {
	parser *gofeed.Parser
}

func NewNormalizer() *Normalizer {
	return &Normalizer{parser: gofeed.NewParser()}
}

// Normalize parses a feed body for one account handle. Items keep
// document order; duplicates of an already-seen id are dropped.
func (n *Normalizer) Normalize(body, handle string) ([]model.Post, error) {
	parsed, err := n.parser.ParseString(body)
	if err != nil {
		return nil, fetcher.NewMalformedError(fmt.Sprintf("feed parse failed for @%s: %v", handle, err))
	}

	// Channel titles read "Display Name / @handle".
	displayName := handle
	if parsed.Title != "" {
		displayName = strings.TrimSpace(strings.SplitN(parsed.Title, " /", 2)[0])
	}

	posts := make([]model.Post, 0, len(parsed.Items))
	seen := make(map[string]struct{}, len(parsed.Items))

	for _, item := range parsed.Items {
		post, ok := normalizeItem(item, handle, displayName)
		if !ok {
			continue
		}
		if _, dup := seen[post.ID]; dup {
			continue
		}
		seen[post.ID] = struct{}{}
		posts = append(posts, post)
	}

	return posts, nil
}

// normalizeItem extracts one post. Items without an extractable id or
// a parseable publish date are dropped rather than defaulted.
func normalizeItem(item *gofeed.Item, handle, displayName string) (model.Post, bool) {
	if item == nil {
		return model.Post{}, false
	}

	m := statusIDPattern.FindStringSubmatch(item.Link)
	if m == nil {
		return model.Post{}, false
	}
	id := m[1]

	if item.PublishedParsed == nil {
		return model.Post{}, false
	}

	return model.Post{
		ID:          id,
		Text:        CleanMarkup(item.Description),
		Handle:      handle,
		DisplayName: displayName,
		URL:         fmt.Sprintf("https://twitter.com/%s/status/%s", handle, id),
		PublishedAt: *item.PublishedParsed,
	}, true
}
