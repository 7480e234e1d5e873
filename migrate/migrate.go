package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	atlas "ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/sqltool"

	"github.com/authkit-go/sqlstore/dialect"
	"github.com/authkit-go/sqlstore/schema"
)

// Default artifact layout, relative to the working directory unless
// overridden with WithDir.
const (
	DefaultDir           = "sqlstore"
	migrationsSubdir     = "migrations"
	entitiesSubdir       = "entities"
	defaultChangelogName = "changelog.yaml"
)

// A Synchronizer diffs the expected schema against the live catalog and
// emits additive migration and entity artifacts. Re-running it against an
// unchanged schema emits nothing.
type Synchronizer struct {
	drv  dialect.Driver
	reg  *schema.Registry
	dir  string
	fmt  atlas.Formatter
	clog string
	log  *slog.Logger
	now  func() time.Time
}

// An Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithDir sets the artifact root directory. Migrations are written to
// <dir>/migrations and entity definitions to <dir>/entities.
func WithDir(dir string) Option {
	return func(s *Synchronizer) { s.dir = dir }
}

// WithFormatter overrides the migration file formatter. The default
// writes versioned up/down pairs (golang-migrate layout); pass
// sqltool.GooseFormatter for a goose-compatible directory.
func WithFormatter(f atlas.Formatter) Option {
	return func(s *Synchronizer) { s.fmt = f }
}

// WithChangelogPath overrides the changelog location. The default is
// <dir>/changelog.yaml.
func WithChangelogPath(path string) Option {
	return func(s *Synchronizer) { s.clog = path }
}

// WithLogger sets the logger actions are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) { s.log = l }
}

// New returns a synchronizer for the given registry over drv.
func New(drv dialect.Driver, reg *schema.Registry, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		drv: drv,
		reg: reg,
		dir: DefaultDir,
		fmt: sqltool.GolangMigrateFormatter,
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clog == "" {
		s.clog = filepath.Join(s.dir, defaultChangelogName)
	}
	return s
}

// Synchronize compares every registered model against the live catalog
// and emits the artifacts needed to align them: a create migration and
// entity definition for absent tables, an alter migration with additive
// and drop column operations for drifted tables, and a refreshed entity
// definition whenever its rendered text changed. The returned changelog
// lists every action taken; it is also written to the changelog path
// when non-empty.
func (s *Synchronizer) Synchronize(ctx context.Context) (*Changelog, error) {
	migDir := filepath.Join(s.dir, migrationsSubdir)
	entDir := filepath.Join(s.dir, entitiesSubdir)
	for _, dir := range []string{migDir, entDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dir, err := atlas.NewLocalDir(migDir)
	if err != nil {
		return nil, err
	}
	// Guard the directory integrity before planning on top of it.
	if _, err := os.Stat(filepath.Join(migDir, atlas.HashFileName)); err == nil {
		if err := atlas.Validate(dir); err != nil {
			return nil, fmt.Errorf("migrate: validating %s: %w", migDir, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	clog := &Changelog{GeneratedAt: s.now().UTC(), Dialect: s.drv.Dialect()}
	version := s.now().UTC()
	for i, m := range s.reg.Models() {
		diff, err := s.diff(ctx, m)
		if err != nil {
			return nil, err
		}
		entityChanged, err := s.writeEntity(entDir, m)
		if err != nil {
			return nil, err
		}
		if diff.Empty() {
			if entityChanged {
				s.log.InfoContext(ctx, "entity refreshed", "table", m.TableName())
				clog.Actions = append(clog.Actions, Action{Table: m.TableName(), Action: ActionEntity})
			}
			continue
		}
		// One version per emitted plan; versions must stay unique and
		// ordered within a single run.
		v := version.Add(time.Duration(i) * time.Second).Format("20060102150405")
		act, err := s.writePlan(dir, v, diff)
		if err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "migration emitted", "table", m.TableName(), "action", act.Action, "file", act.File)
		clog.Actions = append(clog.Actions, act)
	}
	if !clog.Empty() {
		if err := clog.Write(s.clog); err != nil {
			return nil, err
		}
	}
	return clog, nil
}

// writePlan formats the diff as migration files, writes them to the
// directory and refreshes its checksum file.
func (s *Synchronizer) writePlan(dir atlas.Dir, version string, d TableDiff) (Action, error) {
	plan, act := s.plan(d)
	plan.Version = version
	files, err := s.fmt.Format(plan)
	if err != nil {
		return Action{}, err
	}
	for _, f := range files {
		if err := dir.WriteFile(f.Name(), f.Bytes()); err != nil {
			return Action{}, err
		}
	}
	sum, err := dir.Checksum()
	if err != nil {
		return Action{}, err
	}
	if err := atlas.WriteSumFile(dir, sum); err != nil {
		return Action{}, err
	}
	act.File = version + "_" + plan.Name
	return act, nil
}
