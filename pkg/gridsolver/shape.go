package gridsolver

import "fmt"

// Shape fixes the dimensions of a puzzle: the value alphabet size, the
// grid's linear dimension, the cell count, and the declared houses (rows,
// columns, boxes, or any other "every value exactly once" grouping the
// driver wants the engine to know about up front).
//
// Shape.Validate follows the package's constructor-time validation
// convention: a malformed Shape is a structural-misuse error, not a
// puzzle-solving failure.
type Shape struct {
	NumValues int
	GridSize  int
	NumCells  int
	Houses    [][]int
}

// NewShape builds and validates a Shape. Houses is optional; pass nil when
// the driver declares none up front. Shape has no method for adding houses
// after construction.
func NewShape(numValues, gridSize, numCells int, houses [][]int) (*Shape, error) {
	s := &Shape{NumValues: numValues, GridSize: gridSize, NumCells: numCells, Houses: houses}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the internal consistency of a Shape's dimensions and
// declared houses. Returns a structural-misuse error rather than
// panicking, since shapes are typically driver-constructed from
// untrusted puzzle descriptions.
func (s *Shape) Validate() error {
	if s.NumValues <= 0 || s.NumValues > 16 {
		return fmt.Errorf("gridsolver: num_values must be in [1,16], got %d", s.NumValues)
	}
	if s.GridSize <= 0 {
		return fmt.Errorf("gridsolver: grid_size must be positive, got %d", s.GridSize)
	}
	if s.NumCells <= 0 {
		return fmt.Errorf("gridsolver: num_cells must be positive, got %d", s.NumCells)
	}
	for i, h := range s.Houses {
		if len(h) != s.NumValues {
			return fmt.Errorf("gridsolver: house %d has %d cells, want %d (num_values)", i, len(h), s.NumValues)
		}
		for _, c := range h {
			if c < 0 || c >= s.NumCells {
				return fmt.Errorf("gridsolver: house %d references out-of-range cell %d", i, c)
			}
		}
	}
	return nil
}

// AllValuesMask returns the mask with every value 1..NumValues possible.
func (s *Shape) AllValuesMask() Mask { return FullMask(s.NumValues) }
