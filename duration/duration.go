// Package duration picks note lengths from the strength of the horizontal
// acceleration.
package duration

import "fmt"

// Rand is the random source the note generators draw from. IntN returns a
// uniform value in [0, n). *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

const Size = 20

// Table is an ordered set of note lengths in milliseconds, shortest first.
type Table [Size]int

// Default keeps indices 0..9 at the shortest value, 10..17 at 250/500 and
// leaves 1000 and 1500 at the top.
var Default = Table{
	125, 125, 125, 125, 125, 125, 125, 125, 125, 125,
	250, 250, 250, 250,
	500, 500, 500, 500,
	1000, 1500,
}

// Classic is the table of the first hardware build.
var Classic = Table{
	125, 125, 125, 125, 125, 125, 125, 125,
	250, 250, 250, 250,
	500, 500, 500, 500,
	1000, 1000, 1000,
	1500,
}

func TableByName(name string) (Table, error) {
	switch name {
	case "", "default":
		return Default, nil
	case "classic":
		return Classic, nil
	default:
		return Table{}, fmt.Errorf("unknown duration table %q", name)
	}
}

// Contains reports whether ms is one of the table's values.
func (t Table) Contains(ms int) bool {
	for _, v := range t {
		if v == ms {
			return true
		}
	}
	return false
}

type span struct{ lo, hi int }

var (
	// The lowest band only ever reaches index 18. Kept as is, see DESIGN.md.
	slowBand   = span{18, 18}
	mediumBand = span{10, 17}
	restBand   = span{0, 9}
)

type Selector struct {
	table Table
	rand  Rand
}

func NewSelector(table Table, r Rand) *Selector {
	return &Selector{table: table, rand: r}
}

func (s *Selector) Table() Table {
	return s.table
}

// Index returns the table index chosen for totalAcc. The first matching band
// wins; anything outside the open intervals falls through to the short band.
func (s *Selector) Index(totalAcc float64) int {
	band := restBand
	switch {
	case totalAcc > 0.5 && totalAcc < 0.75:
		band = slowBand
	case totalAcc > 0.75 && totalAcc < 3:
		band = mediumBand
	}
	return band.lo + s.rand.IntN(band.hi-band.lo+1)
}

// Select returns a duration in milliseconds for totalAcc.
func (s *Selector) Select(totalAcc float64) int {
	return s.table[s.Index(totalAcc)]
}
