// Package seatmap lays out the cabin grid shown in the seat step and resolves which
// seats are taken.
package seatmap

import (
	"fmt"
	"strconv"
	"strings"
)

// Rows is the number of seat rows in the grid
const Rows = 8

var (
	leftColumns  = []string{"A", "B", "C"}
	rightColumns = []string{"D", "E", "F"}
)

// Label builds a seat label such as "3C"
func Label(row int, column string) string {
	return strconv.Itoa(row) + column
}

// ParseLabel splits a label into row and column and checks it is on the grid
func ParseLabel(label string) (int, string, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) < 2 {
		return 0, "", fmt.Errorf("invalid seat %q", label)
	}
	column := label[len(label)-1:]
	row, err := strconv.Atoi(label[:len(label)-1])
	if err != nil || row < 1 || row > Rows {
		return 0, "", fmt.Errorf("invalid seat row in %q", label)
	}
	if !isColumn(column) {
		return 0, "", fmt.Errorf("invalid seat column in %q", label)
	}
	return row, column, nil
}

// Normalize returns the canonical form of a label, or an error if it is off the grid
func Normalize(label string) (string, error) {
	row, column, err := ParseLabel(label)
	if err != nil {
		return "", err
	}
	return Label(row, column), nil
}

func isColumn(c string) bool {
	for _, col := range leftColumns {
		if col == c {
			return true
		}
	}
	for _, col := range rightColumns {
		if col == c {
			return true
		}
	}
	return false
}

// Labels returns every seat on the grid, row by row
func Labels() []string {
	out := make([]string, 0, Rows*(len(leftColumns)+len(rightColumns)))
	for r := 1; r <= Rows; r++ {
		for _, c := range leftColumns {
			out = append(out, Label(r, c))
		}
		for _, c := range rightColumns {
			out = append(out, Label(r, c))
		}
	}
	return out
}

// Cell is one seat as rendered
type Cell struct {
	Label    string
	Column   string
	Occupied bool
	Selected bool
}

// Row is one grid row: three seats, the aisle (showing the row number), three seats
type Row struct {
	Number int
	Left   []Cell
	Right  []Cell
}

// Build projects occupancy and the current selection onto the grid.
// A selected seat is never shown as occupied.
func Build(occupied map[string]bool, selected []string) []Row {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	cell := func(r int, c string) Cell {
		label := Label(r, c)
		return Cell{
			Label:    label,
			Column:   c,
			Selected: chosen[label],
			Occupied: occupied[label] && !chosen[label],
		}
	}

	rows := make([]Row, 0, Rows)
	for r := 1; r <= Rows; r++ {
		row := Row{Number: r}
		for _, c := range leftColumns {
			row.Left = append(row.Left, cell(r, c))
		}
		for _, c := range rightColumns {
			row.Right = append(row.Right, cell(r, c))
		}
		rows = append(rows, row)
	}
	return rows
}
