// Package systems provides the per-tick simulation systems: spatial index, steering,
// lifecycle, predation and reproduction.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/vmath"
)

// Entry is the start-of-tick snapshot of one live agent.
// Steering reads neighbors only through entries, so agents updated earlier in the tick
// never leak their new state to agents updated later.
type Entry struct {
	E       ecs.Entity
	Pos     vmath.Vec2
	Vel     vmath.Vec2
	Size    float64
	Species *species.Descriptor
	Energy  float64
	Fertile bool // satisfies every reproduction gate at snapshot time
	Dead    bool
}

// Predator reports whether the entry's species hunts.
func (e *Entry) Predator() bool {
	return e.Species.Predator
}

// SpatialIndex is a uniform grid hash over agent positions.
// It is rebuilt once per tick and read-only while agents update.
type SpatialIndex struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]Entry
	byEntity map[ecs.Entity]Entry
	count    int
}

// NewSpatialIndex creates an index covering a width x height tank.
// Positions outside the tank are clamped to the border cells.
func NewSpatialIndex(width, height, cellSize float64) *SpatialIndex {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]Entry, cols*rows)
	for i := range cells {
		cells[i] = make([]Entry, 0, 8)
	}

	return &SpatialIndex{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
		byEntity: make(map[ecs.Entity]Entry),
	}
}

// CellSize returns the bucket edge length.
func (g *SpatialIndex) CellSize() float64 {
	return g.cellSize
}

// Len returns the number of indexed agents.
func (g *SpatialIndex) Len() int {
	return g.count
}

// Clear removes all entries, keeping allocated capacity.
func (g *SpatialIndex) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	clear(g.byEntity)
	g.count = 0
}

// Insert places a live agent in the bucket for its position. Dead entries are ignored.
func (g *SpatialIndex) Insert(e Entry) {
	if e.Dead {
		return
	}
	idx := g.cellIndex(e.Pos)
	g.cells[idx] = append(g.cells[idx], e)
	g.byEntity[e.E] = e
	g.count++
}

// Lookup returns the snapshot of an indexed agent.
// A missing entry means the agent was dead or gone at the start of the tick.
func (g *SpatialIndex) Lookup(e ecs.Entity) (Entry, bool) {
	entry, ok := g.byEntity[e]
	return entry, ok
}

// QueryNearInto appends every entry in the 3x3 block of cells around p to dst.
// The result is a superset of all agents within one cell size of p; callers apply
// their own distance filter. Reuse dst across calls to avoid allocations.
func (g *SpatialIndex) QueryNearInto(dst []Entry, p vmath.Vec2) []Entry {
	col, row := g.cellCoords(p)
	for dr := -1; dr <= 1; dr++ {
		r := row + dr
		if r < 0 || r >= g.rows {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			c := col + dc
			if c < 0 || c >= g.cols {
				continue
			}
			dst = append(dst, g.cells[r*g.cols+c]...)
		}
	}
	return dst
}

// QueryNear returns the entries in the 3x3 neighborhood of p.
func (g *SpatialIndex) QueryNear(p vmath.Vec2) []Entry {
	return g.QueryNearInto(nil, p)
}

// cellCoords returns the clamped column and row for a position.
func (g *SpatialIndex) cellCoords(p vmath.Vec2) (col, row int) {
	col = int(math.Floor(p.X / g.cellSize))
	row = int(math.Floor(p.Y / g.cellSize))

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// cellIndex returns the flat index for a position.
func (g *SpatialIndex) cellIndex(p vmath.Vec2) int {
	col, row := g.cellCoords(p)
	return row*g.cols + col
}
