package render

import "strconv"

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
