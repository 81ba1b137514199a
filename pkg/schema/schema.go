// pkg/schema/schema.go
package schema

import (
	"errors"
	"sync"

	"relkernel/pkg/types"
)

var (
	ErrTableExists    = errors.New("table already exists")
	ErrTableNotFound  = errors.New("table not found")
	ErrColumnNotFound = errors.New("column not found")
)

// Column is one column definition of a Table.
type Column struct {
	Name string
	Type types.Datatype
}

// Table is a named, ordered sequence of rows sharing a fixed column list.
// A row is a []types.Value with one entry per column, in column order.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]types.Value
}

// ColumnIndex returns the position of name in t.Columns, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column looks up a column definition by name.
func (t *Table) Column(name string) (Column, error) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return Column{}, ErrColumnNotFound
	}
	return t.Columns[i], nil
}

// Catalog is the set of tables known to an engine instance.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// CreateTable registers a new table. Returns ErrTableExists if name is
// already taken.
func (c *Catalog) CreateTable(name string, columns []Column) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[name]; ok {
		return ErrTableExists
	}
	cp := make([]Column, len(columns))
	copy(cp, columns)
	c.tables[name] = &Table{Name: name, Columns: cp}
	return nil
}

// Get returns the table registered under name.
func (c *Catalog) Get(name string) (*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	if !ok {
		return nil, ErrTableNotFound
	}
	return t, nil
}

// Iter calls fn once per table in the catalog. Iteration order is not
// specified, matching the map-backed catalog this is modeled on.
func (c *Catalog) Iter(fn func(*Table)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tables {
		fn(t)
	}
}
