package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// MoveToward steps from (x, y) toward (tx, ty) by at most step and reports
// whether the destination was reached.
func MoveToward(x, y, tx, ty, step float64) (float64, float64, bool) {
	dx, dy := tx-x, ty-y
	dist := math.Hypot(dx, dy)
	if dist <= step || dist == 0 {
		return tx, ty, true
	}
	t := step / dist
	return Lerp(x, tx, t), Lerp(y, ty, t), false
}
