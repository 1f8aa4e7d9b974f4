package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/leengari/secindex/internal/domain/changeset"
	"github.com/leengari/secindex/internal/executor"
	"github.com/leengari/secindex/internal/parser"
	"github.com/leengari/secindex/internal/parser/ast"
	"github.com/leengari/secindex/internal/parser/lexer"
	"github.com/leengari/secindex/internal/query"
	"github.com/leengari/secindex/internal/storage/manager"
)

// Engine is the main entry point for running statements against a registry
// of indexes. It is safe for concurrent use; the registry serializes work
// per index.
type Engine struct {
	registry *manager.Registry

	mu        sync.RWMutex
	observers []Observer // Observers for lifecycle events
}

// New creates a new Engine instance
func New(registry *manager.Registry) *Engine {
	return &Engine{
		registry:  registry,
		observers: make([]Observer, 0),
	}
}

// Registry returns the registry statements run against
func (e *Engine) Registry() *manager.Registry {
	return e.registry
}

// Execute processes one statement and returns the result
func (e *Engine) Execute(sql string) (*executor.Result, error) {
	txID := changeset.NewID()

	// 1. Tokenize
	e.notify(Event{Type: EventLexStart, TxID: txID, Data: sql})
	tokens, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, e.fail(newParseError(txID, query.NewParseError(-1, "%v", err)))
	}
	e.notify(Event{Type: EventLexEnd, TxID: txID, Data: len(tokens)})

	// 2. Parse
	e.notify(Event{Type: EventParseStart, TxID: txID})
	stmt, err := parser.New(tokens).Parse()
	if err != nil {
		return nil, e.fail(newParseError(txID, err))
	}
	kind := stmt.TokenLiteral()
	e.notify(Event{Type: EventParseEnd, TxID: txID, Statement: kind, Data: stmt.String()})

	// 3. Plan: resolve the target index
	e.notify(Event{Type: EventPlanStart, TxID: txID, Statement: kind})
	target, err := e.resolve(stmt)
	if err != nil {
		return nil, e.fail(newPlanningError(txID, kind, err))
	}
	e.notify(Event{Type: EventPlanEnd, TxID: txID, Statement: kind, Data: target})

	// 4. Execute
	e.notify(Event{Type: EventExecStart, TxID: txID, Statement: kind})
	result, err := executor.Execute(stmt, &executor.ExecutionContext{Registry: e.registry, TxID: txID})
	if err != nil {
		return nil, e.fail(newExecutionError(txID, kind, err))
	}
	e.notify(Event{Type: EventExecEnd, TxID: txID, Statement: kind, Data: ExecStats{
		RowsAffected: result.RowsAffected,
		RowsReturned: len(result.Rows),
	}})

	return result, nil
}

// resolve returns the index a statement targets and checks that it is
// registered. Statements that create or load an index, or that span all
// of them, need no existing target.
func (e *Engine) resolve(stmt ast.Statement) (string, error) {
	var name string

	switch s := stmt.(type) {
	case *ast.CreateIndexStatement:
		return s.Name.Value, nil
	case *ast.LoadStatement:
		return s.Index.Value, nil
	case *ast.ShowIndexesStatement:
		return "", nil
	case *ast.DropIndexStatement:
		name = s.Name.Value
	case *ast.InsertStatement:
		name = s.Index.Value
	case *ast.DeleteStatement:
		name = s.Index.Value
	case *ast.SetStatement:
		name = s.Index.Value
	case *ast.SelectStatement:
		name = s.Index.Value
	case *ast.CountStatement:
		name = s.Index.Value
	case *ast.ExplainStatement:
		name = s.Select.Index.Value
	case *ast.SaveStatement:
		name = s.Index.Value
	default:
		return "", fmt.Errorf("unsupported statement type: %T", stmt)
	}

	if _, err := e.registry.Get(name); err != nil {
		return "", err
	}
	return name, nil
}

// fail reports err to the observers and returns it
func (e *Engine) fail(err *PhaseError) error {
	e.notify(Event{Type: EventError, TxID: err.TxID, Statement: err.Statement, Data: err})
	return err
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()

	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
