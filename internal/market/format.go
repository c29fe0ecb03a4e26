package market

import "fmt"

// FormatNumber renders large values the way the community expects:
// 1.23M, 45.60K, 123.40.
func FormatNumber(value float64) string {
	switch {
	case value <= 0:
		return "N/A"
	case value >= 1000000:
		return fmt.Sprintf("%.2fM", value/1000000)
	case value >= 1000:
		return fmt.Sprintf("%.2fK", value/1000)
	default:
		return fmt.Sprintf("%.2f", value)
	}
}
