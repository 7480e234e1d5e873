package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/authkit-go/sqlstore/schema"
)

// ConfigFileName is the default config file name.
const ConfigFileName = "sqlstore.yaml"

// Config is the CLI configuration, loaded from YAML with environment
// overrides (SQLSTORE_DSN and friends) and flag overrides on top.
type Config struct {
	DSN     string        `koanf:"dsn"`
	Dialect string        `koanf:"dialect"`
	Dir     string        `koanf:"dir"`
	Format  string        `koanf:"format"` // "goose" (default) or "atlas"
	Models  []ModelConfig `koanf:"models"`
}

// ModelConfig declares one model of the expected schema.
type ModelConfig struct {
	Name       string        `koanf:"name"`
	Table      string        `koanf:"table"`
	SoftDelete bool          `koanf:"soft_delete"`
	Fields     []FieldConfig `koanf:"fields"`
}

// FieldConfig declares one field of a model.
type FieldConfig struct {
	Name     string `koanf:"name"`
	Column   string `koanf:"column"`
	Type     string `koanf:"type"` // string, number, bool, date
	Required bool   `koanf:"required"`
	Unique   bool   `koanf:"unique"`
}

// LoadConfig loads the config file (when present), applies environment
// overrides, then flag overrides.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	if path == "" {
		if _, err := os.Stat(ConfigFileName); err == nil {
			path = ConfigFileName
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("SQLSTORE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SQLSTORE_"))
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	applyFlags(&cfg, flags)
	if cfg.Format == "" {
		cfg.Format = "goose"
	}
	return &cfg, nil
}

func applyFlags(cfg *Config, flags *pflag.FlagSet) {
	if flags == nil {
		return
	}
	if v, err := flags.GetString("dsn"); err == nil && v != "" {
		cfg.DSN = v
	}
	if v, err := flags.GetString("dialect"); err == nil && v != "" {
		cfg.Dialect = v
	}
	if v, err := flags.GetString("dir"); err == nil && v != "" {
		cfg.Dir = v
	}
}

// Registry builds the model registry the config declares.
func (c *Config) Registry() (*schema.Registry, error) {
	models := make([]schema.Model, 0, len(c.Models))
	for _, mc := range c.Models {
		m := schema.Model{Name: mc.Name, Table: mc.Table, SoftDelete: mc.SoftDelete}
		for _, fc := range mc.Fields {
			t, err := parseType(fc.Type)
			if err != nil {
				return nil, fmt.Errorf("model %s, field %s: %w", mc.Name, fc.Name, err)
			}
			m.Fields = append(m.Fields, schema.Field{
				Name:     fc.Name,
				Column:   fc.Column,
				Type:     t,
				Required: fc.Required,
				Unique:   fc.Unique,
			})
		}
		models = append(models, m)
	}
	return schema.NewRegistry(models...), nil
}

func parseType(s string) (schema.Type, error) {
	switch s {
	case "", "string":
		return schema.TypeString, nil
	case "number":
		return schema.TypeNumber, nil
	case "bool", "boolean":
		return schema.TypeBool, nil
	case "date":
		return schema.TypeDate, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", s)
	}
}
