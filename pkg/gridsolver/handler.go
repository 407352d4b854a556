package gridsolver

import (
	"fmt"
	"sort"
)

// CandidateFinder is an opaque marker the search driver's candidate
// selection heuristics key off of. Heuristic implementation is an
// external collaborator; the core only needs a type for
// Handler.CandidateFinders to return.
type CandidateFinder any

// Handler is the contract every propagator implements. Initialize and
// PostInitialize run once per puzzle setup; EnforceConsistency runs
// repeatedly as the worklist drains.
type Handler interface {
	// Initialize performs one-time setup, may tighten initialGrid, and
	// reports false on UNSAT detected from initialization alone.
	Initialize(initialGrid *Grid, exclusions *CellExclusions, shape *Shape, alloc *StateAllocator) bool

	// PostInitialize runs once every handler has initialized; it may
	// cache derived data but must not mutate grid.
	PostInitialize(grid *Grid)

	// EnforceConsistency propagates, mutating grid in place and pushing
	// affected cells into acc. Returns false on contradiction.
	EnforceConsistency(grid *Grid, acc Accumulator) bool

	// ExclusionCells declares a subset of this handler's cells that are
	// mutually different, for the engine to fold into a global
	// all-different / CellExclusions index.
	ExclusionCells() []int

	// Priority is a heuristic weight for the search driver's cell
	// selection; the core does not interpret it.
	Priority() int

	// CandidateFinders publishes objects that help the search driver pick
	// branching cells; the core treats these opaquely.
	CandidateFinders(grid *Grid, shape *Shape) []CandidateFinder

	// WatchedCells returns the sorted list of cells whose mutation should
	// re-queue this handler.
	WatchedCells() []int

	// ID is the dedup key used by HandlerSet.
	ID() string

	// Essential reports whether this handler is required for correctness
	// (vs. an optimizer hint).
	Essential() bool

	// DebugName is a short human-readable label for diagnostics.
	DebugName() string
}

// Accumulator is the narrow interface EnforceConsistency pushes into.
// HandlerAccumulator implements it for real propagation sessions;
// DummyAccumulator discards pushes for the Or handler's scratch
// evaluations.
type Accumulator interface {
	AddForCell(cell int)
}

// DummyAccumulator discards every push. Used inside Or's per-disjunct
// scratch evaluation so nested propagation never escapes to the outer
// session.
type DummyAccumulator struct{}

// AddForCell implements Accumulator by doing nothing.
func (DummyAccumulator) AddForCell(cell int) {}

// HandlerAccumulator is a FIFO worklist of handler indices with a
// per-handler in-queue bit, so a handler already queued is never queued
// twice. Singleton handlers are queued ahead of ordinary
// handlers watching the same cell, making drain order deterministic when
// both are ready.
type HandlerAccumulator struct {
	set     *HandlerSet
	queue   []int
	inQueue []bool
}

// NewHandlerAccumulator creates an accumulator bound to hs. hs must not
// grow after the accumulator is created (its in-queue bitmap is sized to
// hs's handler count at construction time).
func NewHandlerAccumulator(hs *HandlerSet) *HandlerAccumulator {
	return &HandlerAccumulator{set: hs, inQueue: make([]bool, len(hs.handlers))}
}

// AddForCell pushes every handler watching cell that is not already
// queued: first the cell's singleton handlers, then its ordinary
// handlers, then its auxiliary handlers.
func (a *HandlerAccumulator) AddForCell(cell int) {
	for _, idx := range a.set.singleton[cell] {
		a.push(idx)
	}
	for _, idx := range a.set.ordinary[cell] {
		a.push(idx)
	}
	for _, idx := range a.set.aux[cell] {
		a.push(idx)
	}
}

func (a *HandlerAccumulator) push(idx int) {
	if idx < 0 || idx >= len(a.inQueue) || a.inQueue[idx] {
		return
	}
	a.inQueue[idx] = true
	a.queue = append(a.queue, idx)
}

// Pop removes and returns the next handler index in FIFO order, or
// (0, false) if the queue is empty.
func (a *HandlerAccumulator) Pop() (int, bool) {
	if len(a.queue) == 0 {
		return 0, false
	}
	idx := a.queue[0]
	a.queue = a.queue[1:]
	a.inQueue[idx] = false
	return idx, true
}

// Len reports how many handlers are currently queued.
func (a *HandlerAccumulator) Len() int { return len(a.queue) }

// noOpHandler replaces a deleted handler while preserving its index and
// id (HandlerSet.Delete).
type noOpHandler struct {
	id string
}

func (n *noOpHandler) Initialize(*Grid, *CellExclusions, *Shape, *StateAllocator) bool { return true }
func (n *noOpHandler) PostInitialize(*Grid)                                           {}
func (n *noOpHandler) EnforceConsistency(*Grid, Accumulator) bool                     { return true }
func (n *noOpHandler) ExclusionCells() []int                                          { return nil }
func (n *noOpHandler) Priority() int                                                  { return 0 }
func (n *noOpHandler) CandidateFinders(*Grid, *Shape) []CandidateFinder               { return nil }
func (n *noOpHandler) WatchedCells() []int                                            { return nil }
func (n *noOpHandler) ID() string                                                     { return n.id }
func (n *noOpHandler) Essential() bool                                                { return false }
func (n *noOpHandler) DebugName() string                                              { return "noop(" + n.id + ")" }

// HandlerSet maintains the full handler vector plus the per-cell indexes
// the driver needs to wire a HandlerAccumulator.
type HandlerSet struct {
	handlers  []Handler
	ordinary  map[int][]int
	aux       map[int][]int
	singleton map[int][]int
	dedup     map[string]int
}

// NewHandlerSet creates an empty set.
func NewHandlerSet() *HandlerSet {
	return &HandlerSet{
		ordinary:  map[int][]int{},
		aux:       map[int][]int{},
		singleton: map[int][]int{},
		dedup:     map[string]int{},
	}
}

// dedupOrAppend checks the id dedup table; if h's id is already present it
// promotes the existing entry's essential-ness monotonically (an
// already-essential entry stays essential even if the new add is
// non-essential) and returns the existing index plus true. Otherwise it
// appends h and returns its new index plus false.
func (hs *HandlerSet) dedupOrAppend(h Handler) (int, bool) {
	if idx, ok := hs.dedup[h.ID()]; ok {
		if h.Essential() && !hs.handlers[idx].Essential() {
			hs.promote(idx)
		}
		return idx, true
	}
	idx := len(hs.handlers)
	hs.handlers = append(hs.handlers, h)
	hs.dedup[h.ID()] = idx
	return idx, false
}

// promote is a placeholder hook for "essential promotes monotonically to
// true": since Handler.Essential() is read-only on the interface, the
// promotion is recorded by re-registering the handler's cells under the
// ordinary (essential) map instead of aux, mirroring what a fresh
// Add(existingHandler) would have done.
func (hs *HandlerSet) promote(idx int) {
	h := hs.handlers[idx]
	for _, c := range h.WatchedCells() {
		hs.aux[c] = removeIndex(hs.aux[c], idx)
		hs.ordinary[c] = appendUnique(hs.ordinary[c], idx)
	}
}

func removeIndex(s []int, idx int) []int {
	out := s[:0]
	for _, v := range s {
		if v != idx {
			out = append(out, v)
		}
	}
	return out
}

func appendUnique(s []int, idx int) []int {
	for _, v := range s {
		if v == idx {
			return s
		}
	}
	return append(s, idx)
}

// Add registers an ordinary essential handler: its watched cells wake it
// through the normal accumulator path.
func (hs *HandlerSet) Add(h Handler) int {
	idx, existed := hs.dedupOrAppend(h)
	if existed {
		return idx
	}
	for _, c := range h.WatchedCells() {
		hs.ordinary[c] = appendUnique(hs.ordinary[c], idx)
	}
	return idx
}

// AddNonEssential registers an optimizer-hint handler the same way as
// Add; essential-ness is carried by the handler itself (Essential()),
// AddNonEssential only documents caller intent.
func (hs *HandlerSet) AddNonEssential(h Handler) int { return hs.Add(h) }

// AddAux registers h under the auxiliary per-cell map instead of the
// ordinary one, so it is woken after ordinary and singleton handlers.
func (hs *HandlerSet) AddAux(h Handler) int {
	idx, existed := hs.dedupOrAppend(h)
	if existed {
		return idx
	}
	for _, c := range h.WatchedCells() {
		hs.aux[c] = appendUnique(hs.aux[c], idx)
	}
	return idx
}

// AddSingleton registers h as the (sole) singleton handler for its one
// watched cell. A handler with more than one watched cell is rejected
// by its own constructor's caller-visible error path, not here, since
// HandlerSet.Add* has no error return; callers are expected to
// construct singleton handlers correctly.
func (hs *HandlerSet) AddSingleton(h Handler) int {
	idx, existed := hs.dedupOrAppend(h)
	if existed {
		return idx
	}
	for _, c := range h.WatchedCells() {
		hs.singleton[c] = appendUnique(hs.singleton[c], idx)
	}
	return idx
}

// Replace swaps the handler at idx for newHandler, preserving idx and
// re-registering newHandler's watched cells under the ordinary map (the
// common case; callers needing aux/singleton semantics should delete and
// re-add instead).
func (hs *HandlerSet) Replace(idx int, newHandler Handler) {
	old := hs.handlers[idx]
	for _, c := range old.WatchedCells() {
		hs.ordinary[c] = removeIndex(hs.ordinary[c], idx)
		hs.aux[c] = removeIndex(hs.aux[c], idx)
		hs.singleton[c] = removeIndex(hs.singleton[c], idx)
	}
	delete(hs.dedup, old.ID())
	hs.handlers[idx] = newHandler
	hs.dedup[newHandler.ID()] = idx
	for _, c := range newHandler.WatchedCells() {
		hs.ordinary[c] = appendUnique(hs.ordinary[c], idx)
	}
}

// Delete replaces the handler at idx with a no-op, preserving idx (so
// other indexes stay valid) while removing it from every per-cell map.
func (hs *HandlerSet) Delete(idx int) {
	old := hs.handlers[idx]
	for _, c := range old.WatchedCells() {
		hs.ordinary[c] = removeIndex(hs.ordinary[c], idx)
		hs.aux[c] = removeIndex(hs.aux[c], idx)
		hs.singleton[c] = removeIndex(hs.singleton[c], idx)
	}
	delete(hs.dedup, old.ID())
	hs.handlers[idx] = &noOpHandler{id: old.ID()}
}

// GetAll returns the full handler vector. Callers must not mutate it.
func (hs *HandlerSet) GetAll() []Handler { return hs.handlers }

// GetAllOfType returns the indexes of handlers whose concrete type
// matches a sample value (typically a nil-payload instance of the type
// being searched for), since Go has no runtime class hierarchy to filter
// on directly.
func (hs *HandlerSet) GetAllOfType(sample Handler) []int {
	var out []int
	target := fmt.Sprintf("%T", sample)
	for i, h := range hs.handlers {
		if fmt.Sprintf("%T", h) == target {
			out = append(out, i)
		}
	}
	return out
}

// GetOrdinaryHandlerMap returns the indexes of ordinary (non-aux,
// non-singleton) handlers watching cell.
func (hs *HandlerSet) GetOrdinaryHandlerMap(cell int) []int { return hs.ordinary[cell] }

// GetAuxHandlerMap returns the indexes of auxiliary handlers watching
// cell.
func (hs *HandlerSet) GetAuxHandlerMap(cell int) []int { return hs.aux[cell] }

// GetSingletonHandlerMap returns the indexes of singleton handlers for
// cell.
func (hs *HandlerSet) GetSingletonHandlerMap(cell int) []int { return hs.singleton[cell] }

// DebugDump renders one line per handler (its DebugName and watched
// cells), for puzzle-authoring diagnostics.
func (hs *HandlerSet) DebugDump() string {
	var b []byte
	for i, h := range hs.handlers {
		b = append(b, fmt.Sprintf("[%d] %s watches=%v\n", i, h.DebugName(), h.WatchedCells())...)
	}
	return string(b)
}

// GetIntersectingIndexes returns the indexes of every registered handler
// that shares at least one watched cell with h.
func (hs *HandlerSet) GetIntersectingIndexes(h Handler) []int {
	seen := map[int]bool{}
	var out []int
	for _, c := range h.WatchedCells() {
		for _, idx := range hs.ordinary[c] {
			if !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		}
		for _, idx := range hs.aux[c] {
			if !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		}
		for _, idx := range hs.singleton[c] {
			if !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		}
	}
	sort.Ints(out)
	return out
}
