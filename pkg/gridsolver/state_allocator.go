package gridsolver

// StateAllocator hands out stable offsets into a Grid's tail region during
// handler initialization. Offsets are indices relative to Shape.NumCells;
// the initial-values vector a handler supplies is copied into the grid
// whenever the search driver begins or restarts a branch (the driver owns
// that copy; StateAllocator only records what the initial values were).
type StateAllocator struct {
	next   int
	initch []Mask
}

// NewStateAllocator creates an allocator starting at tail offset 0.
func NewStateAllocator() *StateAllocator {
	return &StateAllocator{}
}

// Allocate reserves len(initial) tail slots and returns the offset of the
// first one. initial is copied; mutating it afterward has no effect.
func (a *StateAllocator) Allocate(initial []Mask) int {
	offset := a.next
	a.initch = append(a.initch, initial...)
	a.next += len(initial)
	return offset
}

// Size returns the total tail-region size reserved so far.
func (a *StateAllocator) Size() int { return a.next }

// InitialValues returns the full initial-values vector for the tail
// region, in offset order, suitable for seeding a new Grid's tail slots
// (e.g. via copy(grid.cells[numCells:], alloc.InitialValues())).
func (a *StateAllocator) InitialValues() []Mask {
	out := make([]Mask, len(a.initch))
	copy(out, a.initch)
	return out
}
