package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FilterConfig mirrors the operator-maintained filters file: toggles, custom
// rule lists, the per-category-per-channel enable map, and the cached
// maximum-attainable item level. It is read-only to the engine.
type FilterConfig struct {
	CustomChatFilter bool `yaml:"custom_chat_filter"`
	CustomPFFilter   bool `yaml:"custom_pf_filter"`
	FilterIlvlPFs    bool `yaml:"filter_ilvl_pfs"`
	IgnorePrivatePFs bool `yaml:"ignore_private_pfs"`
	LogFilteredChat  bool `yaml:"log_filtered_chat"`
	LogFilteredPFs   bool `yaml:"log_filtered_pfs"`

	// MaxItemLevel is the maximum attainable item level, computed externally
	// and supplied here; listings demanding more are filtered when
	// filter_ilvl_pfs is set.
	MaxItemLevel uint16 `yaml:"max_item_level"`

	// Custom rule lists. A rule wrapped in slashes is a regular expression.
	ChatFilters []string `yaml:"chat_filters"`
	PFFilters   []string `yaml:"pf_filters"`

	// Categories maps an enabled classifier category to the channel codes it
	// is enforced on. Listings are matched under channel code 0.
	Categories map[string][]uint16 `yaml:"categories"`
}

// LoadFilters reads and parses the filters file at path.
func LoadFilters(path string) (*FilterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading filters file: %w", err)
	}

	cfg := &FilterConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing filters file: %w", err)
	}

	return cfg, nil
}
