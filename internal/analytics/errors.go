package analytics

import (
	"errors"
	"math"
)

// ErrEmptyDataset is returned when an analytics component is given no records.
var ErrEmptyDataset = errors.New("empty dataset")

// Round rounds to the given number of decimals, sending exact halves to
// the even neighbour (2.25 -> 2.2, 2.35 -> 2.4).
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
