// pkg/engine/engine.go
package engine

import (
	"relkernel/pkg/schema"
	"relkernel/pkg/sql/executor"
	"relkernel/pkg/sql/parser"
)

// Engine is the top-level facade tying the parser, catalog, and executor
// together. It owns no file handle or lock: the whole session lives in
// memory, per spec §5's single-writer-thread model.
type Engine struct {
	catalog  *schema.Catalog
	executor *executor.Executor
}

// New returns an Engine with an empty catalog.
func New() *Engine {
	catalog := schema.NewCatalog()
	return &Engine{catalog: catalog, executor: executor.New(catalog)}
}

// Catalog exposes the engine's catalog directly, for callers that need to
// inspect table state without going through Execute.
func (e *Engine) Catalog() *schema.Catalog {
	return e.catalog
}

// Execute parses query (which may hold more than one semicolon-terminated
// statement) and runs each in source order, per spec §5. It stops at the
// first failing statement and returns the results of the statements that
// ran before it, together with that statement's error.
func (e *Engine) Execute(query string) ([]*executor.Result, error) {
	stmts, err := parser.ParseQueries(query)
	if err != nil {
		return nil, err
	}

	results := make([]*executor.Result, 0, len(stmts))
	for _, stmt := range stmts {
		r, err := e.executor.Execute(stmt)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}
