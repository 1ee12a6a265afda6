package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrInvalidOverlay is returned when an overlay file cannot be used.
var ErrInvalidOverlay = errors.New("invalid catalog overlay")

// Overlay holds user-supplied explanations merged over the built-in tables.
//
//	honesty:
//	  Alice: "Only Alice followed the local checks"
//	messages:
//	  "price is positive": "The price fed to the contract was zero"
type Overlay struct {
	Honesty  map[string]string `yaml:"honesty"`
	Messages map[string]string `yaml:"messages"`
}

// LoadOverlay reads an Overlay from a YAML file.
func LoadOverlay(fs afero.Fs, path string) (*Overlay, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read catalog overlay %s: %w", path, err)
	}

	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOverlay, path, err)
	}

	for k, v := range o.Honesty {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s: empty honesty entry %q", ErrInvalidOverlay, path, k)
		}
	}
	for k, v := range o.Messages {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s: empty message entry %q", ErrInvalidOverlay, path, k)
		}
	}

	return &o, nil
}

// Merge adds the overlay entries to c, replacing built-ins with the same
// key. Entries are rendered as "* <text>" bullet lines.
func (c *Catalog) Merge(o *Overlay) {
	if o == nil {
		return
	}
	for k, v := range o.Honesty {
		c.honesty[k] = bullet(v)
	}
	for k, v := range o.Messages {
		c.messages[k] = bullet(v)
	}
}

func bullet(text string) string {
	text = strings.TrimRight(text, "\n")
	if !strings.HasPrefix(text, "* ") {
		text = "* " + text
	}
	return text + "\n"
}
