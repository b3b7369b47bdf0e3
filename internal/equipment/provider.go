package equipment

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/estopassoli/vaal-trade-assistant/internal/models"
	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

// Set is one character's equipped items, grouped by category.
type Set struct {
	Items  []models.Item `json:"items"`
	Jewels []models.Item `json:"jewels"`
	Flasks []models.Item `json:"flasks"`
	Charms []models.Item `json:"charms"`
}

// Category pairs a category name with its items.
type Category struct {
	Name  string
	Items []models.Item
}

// Categories returns the item groups in the fixed collection order.
func (s *Set) Categories() []Category {
	return []Category{
		{Name: "items", Items: s.Items},
		{Name: "jewels", Items: s.Jewels},
		{Name: "flasks", Items: s.Flasks},
		{Name: "charms", Items: s.Charms},
	}
}

// Len returns the total number of items across all categories.
func (s *Set) Len() int {
	return len(s.Items) + len(s.Jewels) + len(s.Flasks) + len(s.Charms)
}

// Provider supplies scraped equipment data. The acquisition itself
// (page traffic interception) lives outside this module.
type Provider interface {
	Equipment() (*Set, error)
}

// FileProvider reads a saved character payload from disk.
type FileProvider struct {
	path string
	log  *logger.Logger
}

// NewFileProvider creates a provider over a character JSON file.
func NewFileProvider(path string, log *logger.Logger) *FileProvider {
	return &FileProvider{path: path, log: log}
}

// Equipment decodes the payload. Profile-endpoint responses wrap the
// character in a charModel envelope; both forms are accepted.
func (p *FileProvider) Equipment() (*Set, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read equipment file: %w", err)
	}
	set, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode equipment file %s: %w", p.path, err)
	}

	p.log.Info("Loaded equipment data",
		"path", p.path,
		"items", len(set.Items),
		"jewels", len(set.Jewels),
		"flasks", len(set.Flasks),
		"charms", len(set.Charms))
	return set, nil
}

// Decode parses a raw character payload into an equipment set.
func Decode(data []byte) (*Set, error) {
	var envelope struct {
		CharModel json.RawMessage `json:"charModel"`
	}
	payload := data
	if err := json.Unmarshal(data, &envelope); err == nil &&
		len(envelope.CharModel) > 0 && string(envelope.CharModel) != "null" {
		payload = envelope.CharModel
	}

	var set Set
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, err
	}
	return &set, nil
}
