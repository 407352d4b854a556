// Package gridsolver implements the constraint-propagation core of a
// Sudoku-variant solver: cell domains represented as bitmasks, and a
// library of constraint handlers that prune those masks to a fixed point.
//
// The package does not search, enumerate solutions, or parse puzzles; it
// exposes the handler contract (Handler, HandlerSet, HandlerAccumulator)
// that an external backtracking driver calls while it owns the grid.
//
// gridsolver.go: package overview; see shape.go, grid.go, handler.go for
// the core types and tables.go for memoized combinatorial tables.
package gridsolver
