// Command sudokudemo runs the constraint-propagation core to a fixpoint
// on a classic 9x9 Sudoku and prints the resulting grid, colorizing
// cells the propagators settled to a single value. It does not search:
// the core never enumerates or backtracks, so a puzzle that isn't fully
// forced by propagation alone prints its remaining candidate cells in
// their pending color instead of a digit.
package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/fatih/color"
	"github.com/gitrdm/sudokucore/pkg/gridsolver"
)

// 0 marks an empty cell.
var puzzle = [81]int{
	5, 3, 0, 0, 7, 0, 0, 0, 0,
	6, 0, 0, 1, 9, 5, 0, 0, 0,
	0, 9, 8, 0, 0, 0, 0, 6, 0,

	8, 0, 0, 0, 6, 0, 0, 0, 3,
	4, 0, 0, 8, 0, 3, 0, 0, 1,
	7, 0, 0, 0, 2, 0, 0, 0, 6,

	0, 6, 0, 0, 0, 0, 2, 8, 0,
	0, 0, 0, 4, 1, 9, 0, 0, 5,
	0, 0, 0, 0, 8, 0, 0, 7, 9,
}

func rowCells(r int) []int {
	cells := make([]int, 9)
	for c := 0; c < 9; c++ {
		cells[c] = r*9 + c
	}
	return cells
}

func colCells(c int) []int {
	cells := make([]int, 9)
	for r := 0; r < 9; r++ {
		cells[r] = r*9 + c
	}
	return cells
}

func boxCells(br, bc int) []int {
	cells := make([]int, 0, 9)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			cells = append(cells, (br*3+r)*9+(bc*3+c))
		}
	}
	return cells
}

func allHouses() [][]int {
	var houses [][]int
	for r := 0; r < 9; r++ {
		houses = append(houses, rowCells(r))
	}
	for c := 0; c < 9; c++ {
		houses = append(houses, colCells(c))
	}
	for br := 0; br < 3; br++ {
		for bc := 0; bc < 3; bc++ {
			houses = append(houses, boxCells(br, bc))
		}
	}
	return houses
}

// buildHandlers wires one House handler per row, column, and 3x3 box.
func buildHandlers(houses [][]int) (*gridsolver.HandlerSet, error) {
	hs := gridsolver.NewHandlerSet()
	for i, cells := range houses {
		h, err := gridsolver.NewHouse(fmt.Sprintf("house:%d", i), cells, 9)
		if err != nil {
			return nil, fmt.Errorf("building house %d: %w", i, err)
		}
		hs.Add(h)
	}
	return hs, nil
}

// propagate drains the worklist to a fixpoint, returning false the
// moment any handler reports a contradiction.
func propagate(hs *gridsolver.HandlerSet, grid *gridsolver.Grid) bool {
	acc := gridsolver.NewHandlerAccumulator(hs)
	for cell := 0; cell < grid.Shape.NumCells; cell++ {
		acc.AddForCell(cell)
	}
	for {
		idx, ok := acc.Pop()
		if !ok {
			return true
		}
		if !hs.GetAll()[idx].EnforceConsistency(grid, acc) {
			return false
		}
	}
}

func printGrid(grid *gridsolver.Grid) {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			m := grid.Cell(r*9 + c)
			if m.IsFixed() {
				color.New(color.FgGreen, color.Bold).Printf("%d ", m.Value())
				continue
			}
			color.New(color.FgYellow).Printf("(%d) ", m.PopCount())
		}
		fmt.Println()
	}
}

func main() {
	f, err := os.Create("cpu.prof")
	if err != nil {
		fmt.Println("could not create CPU profile:", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		fmt.Println("could not start CPU profile:", err)
		os.Exit(1)
	}
	defer pprof.StopCPUProfile()

	houses := allHouses()
	shape, err := gridsolver.NewShape(9, 9, 81, houses)
	if err != nil {
		fmt.Println("invalid shape:", err)
		os.Exit(1)
	}
	grid := gridsolver.NewGrid(shape, 0)
	for i, v := range puzzle {
		if v != 0 {
			grid.SetCell(i, gridsolver.ValueMask(v))
		}
	}

	hs, err := buildHandlers(houses)
	if err != nil {
		fmt.Println("could not build handlers:", err)
		os.Exit(1)
	}

	fmt.Println("--- Propagating a classic 9x9 Sudoku to its fixpoint (no search) ---")
	start := time.Now()
	ok := propagate(hs, grid)
	dur := time.Since(start)

	if !ok {
		fmt.Printf("Propagation found a contradiction after %s.\n", dur)
		os.Exit(1)
	}

	solved := 0
	for c := 0; c < 81; c++ {
		if grid.Cell(c).IsFixed() {
			solved++
		}
	}
	fmt.Printf("Propagated in %s: %d/81 cells forced to a single value.\n", dur, solved)
	if os.Getenv("SUDOKUDEMO_DEBUG") != "" {
		fmt.Print(hs.DebugDump())
	}
	printGrid(grid)
}
