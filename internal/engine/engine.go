// Package engine is the entry point for sorting, filtering and deriving
// columns of in-memory tables from textual expressions.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/leengari/lquery/internal/config"
	"github.com/leengari/lquery/internal/domain/data"
	"github.com/leengari/lquery/internal/domain/errors"
	"github.com/leengari/lquery/internal/domain/run"
	"github.com/leengari/lquery/internal/parser"
	"github.com/leengari/lquery/internal/parser/ast"
	"github.com/leengari/lquery/internal/query/interpreter"
	"github.com/leengari/lquery/internal/query/sorting"
)

// Engine runs queries against tables supplied by the caller. Tables are never
// modified; every call returns new tables sharing unchanged column storage.
type Engine struct {
	cfg       *config.Config
	mem       memory.Allocator
	logger    *slog.Logger
	observers []Observer // Observers for lifecycle events
}

// Option configures an Engine
type Option func(*Engine)

// WithAllocator sets the allocator for every buffer the engine creates
func WithAllocator(mem memory.Allocator) Option {
	return func(e *Engine) {
		if mem != nil {
			e.mem = mem
		}
	}
}

// WithLogger replaces slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates a new Engine instance; a nil cfg uses config.Default()
func New(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		cfg:       cfg,
		mem:       memory.DefaultAllocator,
		logger:    slog.Default(),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() *config.Config { return e.cfg }

// Allocator returns the allocator used for new buffers
func (e *Engine) Allocator() memory.Allocator { return e.mem }

// Sort orders the rows of t by a key list such as "name, price DESC NULLS LAST"
func (e *Engine) Sort(ctx context.Context, t *data.Table, keys string) (*data.Table, error) {
	r := run.New(run.OperationSort)

	e.notify(r, EventParseStart, keys)
	specs, err := parser.ParseSortKeys(keys)
	if err != nil {
		return nil, e.fail(r, fmt.Errorf("parse error: %w", err))
	}
	e.notify(r, EventParseEnd, len(specs))

	out, err := e.sortBy(ctx, r, t, specs)
	if err != nil {
		return nil, e.fail(r, err)
	}
	return out, nil
}

// SortBy orders the rows of t by already parsed sort keys
func (e *Engine) SortBy(ctx context.Context, t *data.Table, specs []parser.SortSpec) (*data.Table, error) {
	r := run.New(run.OperationSort)
	out, err := e.sortBy(ctx, r, t, specs)
	if err != nil {
		return nil, e.fail(r, err)
	}
	return out, nil
}

func (e *Engine) sortBy(ctx context.Context, r *run.Run, t *data.Table, specs []parser.SortSpec) (*data.Table, error) {
	keys := make([]sorting.SortKey, 0, len(specs))
	for _, s := range specs {
		col, err := t.ColumnByName(s.Column)
		if err != nil {
			return nil, err
		}
		keys = append(keys, sorting.SortKey{Column: col, Order: s.Order, Nulls: s.Nulls})
	}

	e.notify(r, EventSortStart, map[string]interface{}{
		"table": t.Name(),
		"keys":  len(keys),
		"rows":  t.NumRows(),
	})
	out, err := sorting.SortTableContext(ctx, t, keys, e.sortOptions()...)
	if err != nil {
		return nil, fmt.Errorf("sort error: %w", err)
	}
	e.notify(r, EventSortEnd, map[string]interface{}{
		"rows":     out.NumRows(),
		"duration": r.Close(),
	})
	return out, nil
}

// Mask evaluates a predicate to one byte per row of t. The caller releases the mask.
func (e *Engine) Mask(ctx context.Context, t *data.Table, predicate string) (*interpreter.Mask, error) {
	r := run.New(run.OperationMask)
	mask, err := e.mask(ctx, r, t, predicate)
	if err != nil {
		return nil, e.fail(r, err)
	}
	r.Close()
	return mask, nil
}

// Filter keeps the rows of t on which predicate holds, in their original order
func (e *Engine) Filter(ctx context.Context, t *data.Table, predicate string) (*data.Table, error) {
	r := run.New(run.OperationFilter)
	mask, err := e.mask(ctx, r, t, predicate)
	if err != nil {
		return nil, e.fail(r, err)
	}
	indices := mask.Indices()
	mask.Release()

	e.notify(r, EventGatherStart, len(indices))
	out, err := sorting.TakeTable(ctx, t, indices, e.sortOptions()...)
	if err != nil {
		return nil, e.fail(r, fmt.Errorf("filter error: %w", err))
	}
	e.notify(r, EventGatherEnd, map[string]interface{}{
		"rows":     out.NumRows(),
		"dropped":  t.NumRows() - out.NumRows(),
		"duration": r.Close(),
	})
	return out, nil
}

// Derive appends a column named name computed from a value expression such as "price * qty"
func (e *Engine) Derive(ctx context.Context, t *data.Table, name, expr string) (*data.Table, error) {
	r := run.New(run.OperationDerive)
	out, err := e.derive(ctx, r, t, name, expr)
	if err != nil {
		return nil, e.fail(r, err)
	}
	return out, nil
}

func (e *Engine) derive(ctx context.Context, r *run.Run, t *data.Table, name, expr string) (*data.Table, error) {
	e.notify(r, EventParseStart, expr)
	value, names, err := parser.ParseValue(expr)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	e.notify(r, EventParseEnd, value.String())

	in, err := e.interpreter(t, names)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.notify(r, EventEvalStart, ast.Count(value))
	f, err := in.EvaluateValue(value)
	if err != nil {
		return nil, fmt.Errorf("evaluation error: %w", err)
	}
	defer f.Release()

	col, err := interpreter.ToColumn(f, name, t.NumRows(), e.mem)
	if err != nil {
		return nil, err
	}
	defer col.Release()

	out, err := t.WithColumn(col)
	if err != nil {
		return nil, err
	}
	e.notify(r, EventEvalEnd, map[string]interface{}{
		"column":   col.String(),
		"duration": r.Close(),
	})
	return out, nil
}

func (e *Engine) mask(ctx context.Context, r *run.Run, t *data.Table, predicate string) (*interpreter.Mask, error) {
	e.notify(r, EventParseStart, predicate)
	pred, names, err := parser.ParsePredicate(predicate)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	e.notify(r, EventParseEnd, pred.String())

	in, err := e.interpreter(t, names)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.notify(r, EventEvalStart, ast.Count(pred))
	start := time.Now()
	mask, err := in.Evaluate(pred)
	if err != nil {
		return nil, fmt.Errorf("evaluation error: %w", err)
	}
	e.notify(r, EventEvalEnd, map[string]interface{}{
		"selected": mask.Count(),
		"rows":     mask.Len(),
		"duration": time.Since(start),
	})
	return mask, nil
}

// interpreter binds the referenced column names to physical columns of t
func (e *Engine) interpreter(t *data.Table, names []string) (*interpreter.Interpreter, error) {
	mapping := make(interpreter.ColumnMapping, len(names))
	for id, name := range names {
		idx := t.Schema().ColumnIndex(name)
		if idx < 0 {
			return nil, errors.ErrUnknownColumn.New(name)
		}
		mapping[id] = idx
	}
	return interpreter.New(t, mapping, interpreter.WithAllocator(e.mem))
}

func (e *Engine) sortOptions() []sorting.Option {
	return []sorting.Option{
		sorting.WithAllocator(e.mem),
		sorting.WithParallelism(e.cfg.Engine.Workers()),
	}
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// fail reports err to observers and the logger and returns it unchanged
func (e *Engine) fail(r *run.Run, err error) error {
	duration := r.Close()
	e.notify(r, EventRunFailed, err.Error())
	e.logger.Debug("engine call failed",
		slog.String("run_id", r.ID),
		slog.String("operation", string(r.Operation)),
		slog.Duration("duration", duration),
		slog.Any("error", err),
	)
	return err
}

// notify sends an event to all registered observers
func (e *Engine) notify(r *run.Run, typ EventType, payload interface{}) {
	event := Event{
		Type:      typ,
		RunID:     r.ID,
		Operation: r.Operation,
		Timestamp: time.Now(),
		Data:      payload,
	}
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
