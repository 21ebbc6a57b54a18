package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".tsukuyomi"

// Duration wraps time.Duration so YAML values like "250ms" or "2s" decode.
// yaml.v3 has no built-in duration support.
type Duration time.Duration

// UnmarshalYAML decodes a duration from its string form.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// File is the YAML configuration file structure.
//
// All fields are pointers so that an absent key can be distinguished from an
// explicit zero: the file only overrides what it mentions, everything else
// keeps its default or flag value.
type File struct {
	Addr             *string   `yaml:"addr"`
	Branching        *int      `yaml:"branching_factor"`
	MaxDepth         *int      `yaml:"max_depth"`
	CycleLength      *int      `yaml:"cycle_length"`
	Salt             *string   `yaml:"salt"`
	DelayMin         *Duration `yaml:"delay_min"`
	DelayMax         *Duration `yaml:"delay_max"`
	DelayAfterDepth  *int      `yaml:"delay_after_depth"`
	RichContent      *bool     `yaml:"rich_content"`
	TrackingEnabled  *bool     `yaml:"tracking_enabled"`
	TrackingCapacity *int      `yaml:"tracking_capacity"`
	RecentTokens     *int      `yaml:"recent_tokens"`
	SitemapPageSize  *int      `yaml:"sitemap_page_size"`
	DBDir            *string   `yaml:"db_dir"`
	LogFile          *string   `yaml:"log_file"`
}

// LoadConfigFile loads trap configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this error based on whether the path was explicitly specified.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .tsukuyomi in the current directory
//  3. Look for .tsukuyomi in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// ApplyTo copies every value the file actually sets onto the config.
func (f *File) ApplyTo(c *Config) {
	if f.Addr != nil {
		c.Addr = *f.Addr
	}
	if f.Branching != nil {
		c.Branching = *f.Branching
	}
	if f.MaxDepth != nil {
		c.MaxDepth = *f.MaxDepth
	}
	if f.CycleLength != nil {
		c.CycleLength = *f.CycleLength
	}
	if f.Salt != nil {
		c.Salt = *f.Salt
	}
	if f.DelayMin != nil {
		c.DelayMin = time.Duration(*f.DelayMin)
	}
	if f.DelayMax != nil {
		c.DelayMax = time.Duration(*f.DelayMax)
	}
	if f.DelayAfterDepth != nil {
		c.DelayAfterDepth = *f.DelayAfterDepth
	}
	if f.RichContent != nil {
		c.RichContent = *f.RichContent
	}
	if f.TrackingEnabled != nil {
		c.TrackingEnabled = *f.TrackingEnabled
	}
	if f.TrackingCapacity != nil {
		c.TrackingCapacity = *f.TrackingCapacity
	}
	if f.RecentTokens != nil {
		c.RecentTokens = *f.RecentTokens
	}
	if f.SitemapPageSize != nil {
		c.SitemapPageSize = *f.SitemapPageSize
	}
	if f.DBDir != nil {
		c.DBDir = *f.DBDir
	}
	if f.LogFile != nil {
		c.LogFile = *f.LogFile
	}
}
