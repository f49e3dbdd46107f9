package postgres

import "errors"

// Sentinel lookup errors.
var (
	ErrSoulNotFound      = errors.New("soul not found")
	ErrBodyNotFound      = errors.New("body not found")
	ErrUnitStateNotFound = errors.New("unit state not found")
	ErrBoardNotFound     = errors.New("board not found")
)

func intSlice(b [5]int) []int { return b[:] }

func floatSlice(b [5]float64) []float64 { return b[:] }

// toBlock copies up to five values; missing entries stay zero.
func toBlock(v []int) [5]int {
	var out [5]int
	copy(out[:], v)
	return out
}

func toFloatBlock(v []float64) [5]float64 {
	var out [5]float64
	copy(out[:], v)
	return out
}
