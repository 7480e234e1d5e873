package sqlstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/authkit-go/sqlstore/dialect"
	sqldialect "github.com/authkit-go/sqlstore/dialect/sql"
	"github.com/authkit-go/sqlstore/predicate"
	"github.com/authkit-go/sqlstore/schema"
)

// DefaultLimit caps FindMany row sets when the caller gives no limit.
const DefaultLimit = 100

// SortBy names the logical sort field of a FindMany call. Direction is
// "asc" unless set to "desc".
type SortBy struct {
	Field     string
	Direction string
}

// FindOptions shapes a FindMany row set.
type FindOptions struct {
	Where  []predicate.Clause
	Select []string
	Limit  int
	Offset int
	SortBy *SortBy
}

// Adapter dispatches the logical operations of the query model against a
// SQL backend. It holds no mutable state; one adapter may serve
// concurrent callers, each call using whatever connection the underlying
// pool hands out. Inside a transaction scope the adapter is bound to that
// scope's connection instead.
type Adapter struct {
	drv   dialect.Driver
	conn  dialect.ExecQuerier
	reg   *schema.Registry
	idgen func() string
	log   *slog.Logger
	inTx  bool
	now   func() time.Time
}

// New returns an adapter translating for the given registry over drv.
func New(drv dialect.Driver, reg *schema.Registry, opts ...Option) *Adapter {
	a := &Adapter{
		drv:   drv,
		conn:  drv,
		reg:   reg,
		idgen: defaultIDGenerator,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the model registry the adapter translates for.
func (a *Adapter) Registry() *schema.Registry { return a.reg }

// repo resolves the model schema and a repository bound to the adapter's
// current connection scope.
func (a *Adapter) repo(model string) (schema.Model, *sqldialect.Repository, error) {
	m, err := a.reg.Model(model)
	if err != nil {
		return schema.Model{}, nil, err
	}
	return m, sqldialect.NewRepository(a.conn, a.drv.Dialect(), m.TableName()), nil
}

// compile translates the where sequence and, for soft-delete models,
// narrows every conjunction group to rows not yet marked deleted.
func (a *Adapter) compile(m schema.Model, where []predicate.Clause) (predicate.Predicate, error) {
	p, err := predicate.Compile(a.reg, m.Name, where)
	if err != nil {
		return nil, err
	}
	if !m.SoftDelete {
		return p, nil
	}
	f, ok := m.Field(schema.SoftDeleteField)
	if !ok {
		return nil, &SoftDeleteError{Model: m.Name}
	}
	marker := predicate.Cond{Column: f.ColumnName(), Op: predicate.OpIsNull}
	if len(p) == 0 {
		return predicate.Predicate{{marker}}, nil
	}
	for i := range p {
		p[i] = append(p[i], marker)
	}
	return p, nil
}

// Create persists a new logical record and returns its materialized
// form, honoring the optional select list. The identifier is seeded by
// the adapter unless the input carries one.
func (a *Adapter) Create(ctx context.Context, model string, data Record, selectList ...string) (Record, error) {
	m, repo, err := a.repo(model)
	if err != nil {
		return nil, err
	}
	columns, values := toPhysical(m, data, actionCreate, a.idgen)
	if err := repo.Insert(ctx, columns, values); err != nil {
		return nil, &PersistenceError{Op: "create", Model: model, Err: err}
	}
	a.log.DebugContext(ctx, "create", "model", model, "table", m.TableName())
	row := make(map[string]any, len(columns))
	for i, c := range columns {
		row[c] = values[i]
	}
	return toLogical(m, row, selectList), nil
}

// FindOne returns the first record matching the where sequence, or nil
// when no row matches. Absence is not an error.
func (a *Adapter) FindOne(ctx context.Context, model string, where []predicate.Clause, selectList ...string) (Record, error) {
	m, repo, err := a.repo(model)
	if err != nil {
		return nil, err
	}
	p, err := a.compile(m, where)
	if err != nil {
		return nil, err
	}
	row, err := repo.FindOne(ctx, p, selectColumns(m, selectList))
	if err != nil {
		return nil, &PersistenceError{Op: "findOne", Model: model, Err: err}
	}
	return toLogical(m, row, selectList), nil
}

// FindMany returns the records matching opts.Where, sorted and paginated
// per opts. The limit defaults to DefaultLimit and the offset to zero.
func (a *Adapter) FindMany(ctx context.Context, model string, opts FindOptions) ([]Record, error) {
	m, repo, err := a.repo(model)
	if err != nil {
		return nil, err
	}
	p, err := a.compile(m, opts.Where)
	if err != nil {
		return nil, err
	}
	sel := sqldialect.SelectOptions{
		Columns: selectColumns(m, opts.Select),
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	}
	if sel.Limit <= 0 {
		sel.Limit = DefaultLimit
	}
	if opts.SortBy != nil {
		column, err := a.reg.Column(model, opts.SortBy.Field)
		if err != nil {
			return nil, err
		}
		sel.OrderBy = column
		sel.Desc = opts.SortBy.Direction == "desc"
	}
	rows, err := repo.FindMany(ctx, p, sel)
	if err != nil {
		return nil, &PersistenceError{Op: "findMany", Model: model, Err: err}
	}
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = toLogical(m, row, opts.Select)
	}
	return out, nil
}

// Update applies data to the rows matching the where sequence.
//
// With exactly one clause the update is assumed to target a single row
// (update-by-id and friends): the target is read first, the update is
// applied, and the post-update record is read back by the same predicate
// and returned. When the clause matches nothing the update still runs as
// a no-op and nil is returned. With multiple clauses the update runs and
// nil is always returned, as no single row can be singled out.
func (a *Adapter) Update(ctx context.Context, model string, where []predicate.Clause, data Record) (Record, error) {
	m, repo, err := a.repo(model)
	if err != nil {
		return nil, err
	}
	p, err := a.compile(m, where)
	if err != nil {
		return nil, err
	}
	columns, values := toPhysical(m, data, actionUpdate, a.idgen)
	if len(where) != 1 {
		if len(columns) > 0 {
			if _, err := repo.Update(ctx, columns, values, p); err != nil {
				return nil, &PersistenceError{Op: "update", Model: model, Err: err}
			}
		}
		return nil, nil
	}
	before, err := repo.FindOne(ctx, p, nil)
	if err != nil {
		return nil, &PersistenceError{Op: "update", Model: model, Err: err}
	}
	if len(columns) > 0 {
		if _, err := repo.Update(ctx, columns, values, p); err != nil {
			return nil, &PersistenceError{Op: "update", Model: model, Err: err}
		}
	}
	if before == nil {
		return nil, nil
	}
	after, err := repo.FindOne(ctx, p, nil)
	if err != nil {
		return nil, &PersistenceError{Op: "update", Model: model, Err: err}
	}
	return toLogical(m, after, nil), nil
}

// UpdateMany applies data to all rows matching the where sequence and
// returns the number of affected rows.
func (a *Adapter) UpdateMany(ctx context.Context, model string, where []predicate.Clause, data Record) (int64, error) {
	m, repo, err := a.repo(model)
	if err != nil {
		return 0, err
	}
	p, err := a.compile(m, where)
	if err != nil {
		return 0, err
	}
	columns, values := toPhysical(m, data, actionUpdate, a.idgen)
	if len(columns) == 0 {
		return 0, nil
	}
	n, err := repo.Update(ctx, columns, values, p)
	if err != nil {
		return 0, &PersistenceError{Op: "updateMany", Model: model, Err: err}
	}
	return n, nil
}

// Delete removes the rows matching the where sequence. Absence of a
// match is not an error. On soft-delete models the rows are marked
// instead of removed.
func (a *Adapter) Delete(ctx context.Context, model string, where []predicate.Clause) error {
	_, err := a.delete(ctx, "delete", model, where)
	return err
}

// DeleteMany removes all rows matching the where sequence and returns
// the number of affected rows.
func (a *Adapter) DeleteMany(ctx context.Context, model string, where []predicate.Clause) (int64, error) {
	return a.delete(ctx, "deleteMany", model, where)
}

func (a *Adapter) delete(ctx context.Context, op, model string, where []predicate.Clause) (int64, error) {
	m, repo, err := a.repo(model)
	if err != nil {
		return 0, err
	}
	p, err := a.compile(m, where)
	if err != nil {
		return 0, err
	}
	var n int64
	if m.SoftDelete {
		// compile already verified the marker field exists.
		f, _ := m.Field(schema.SoftDeleteField)
		n, err = repo.Update(ctx, []string{f.ColumnName()}, []any{a.now()}, p)
	} else {
		n, err = repo.Delete(ctx, p)
	}
	if err != nil {
		return 0, &PersistenceError{Op: op, Model: model, Err: err}
	}
	a.log.DebugContext(ctx, op, "model", model, "affected", n)
	return n, nil
}

// Count returns the number of rows matching the where sequence.
func (a *Adapter) Count(ctx context.Context, model string, where []predicate.Clause) (int64, error) {
	m, repo, err := a.repo(model)
	if err != nil {
		return 0, err
	}
	p, err := a.compile(m, where)
	if err != nil {
		return 0, err
	}
	n, err := repo.Count(ctx, p)
	if err != nil {
		return 0, &PersistenceError{Op: "count", Model: model, Err: err}
	}
	return n, nil
}
