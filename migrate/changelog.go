package migrate

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Changelog actions.
const (
	ActionCreate = "create"
	ActionAlter  = "alter"
	// ActionEntity marks an entity definition refresh without a
	// migration (descriptor drift only).
	ActionEntity = "entity"
)

// An Action is one entry of a synchronize changelog.
type Action struct {
	Table       string   `yaml:"table"`
	Action      string   `yaml:"action"`
	AddColumns  []string `yaml:"add_columns,omitempty"`
	DropColumns []string `yaml:"drop_columns,omitempty"`
	// File is the migration base name (version_name), empty for entity
	// refreshes.
	File string `yaml:"file,omitempty"`
}

// A Changelog documents every action a synchronize call took. It is
// computed once per call and never mutated afterward.
type Changelog struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Dialect     string    `yaml:"dialect"`
	Actions     []Action  `yaml:"actions"`
}

// Empty reports whether the call was a no-op for every model.
func (c *Changelog) Empty() bool {
	return len(c.Actions) == 0
}

// Write serializes the changelog to path as YAML.
func (c *Changelog) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// String returns a one-line-per-action summary.
func (c *Changelog) String() string {
	if c.Empty() {
		return "schema already synchronized"
	}
	var sb strings.Builder
	for _, a := range c.Actions {
		fmt.Fprintf(&sb, "%s %s", a.Action, a.Table)
		if len(a.AddColumns) > 0 {
			fmt.Fprintf(&sb, " +%s", strings.Join(a.AddColumns, ",+"))
		}
		if len(a.DropColumns) > 0 {
			fmt.Fprintf(&sb, " -%s", strings.Join(a.DropColumns, ",-"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
