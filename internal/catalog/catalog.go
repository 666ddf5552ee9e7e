package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"TopicBridge/internal/domain"
)

//go:embed topics.yaml
var defaultTopics []byte

// Catalog is the externally curated topic list shown before any query.
type Catalog struct {
	topics []domain.Record
}

// Default parses the bundled topic list.
func Default() (*Catalog, error) {
	return Parse(defaultTopics)
}

// Load reads a YAML topic list from disk; an empty path yields the bundled list.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML sequence of records and rejects missing or duplicate IDs.
func Parse(raw []byte) (*Catalog, error) {
	var topics []domain.Record
	if err := yaml.Unmarshal(raw, &topics); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(topics))
	for i, topic := range topics {
		if topic.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if _, ok := seen[topic.ID]; ok {
			return nil, fmt.Errorf("catalog id %s is duplicated", topic.ID)
		}
		seen[topic.ID] = struct{}{}
	}

	return &Catalog{topics: topics}, nil
}

// Topics returns a copy of the catalog in its curated order.
func (c *Catalog) Topics() []domain.Record {
	if c == nil {
		return nil
	}
	out := make([]domain.Record, len(c.topics))
	copy(out, c.topics)
	return out
}

// Top returns the first n topics, used as the global themes snapshot.
func (c *Catalog) Top(n int) []domain.Record {
	topics := c.Topics()
	if n < len(topics) {
		topics = topics[:n]
	}
	return topics
}
