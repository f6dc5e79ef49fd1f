package growthroi

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatUSD renders fixed 2-decimal currency with thousands separators.
func formatUSD(v float64) string {
	s := "$" + printer.Sprintf("%.2f", math.Abs(v))
	if v < 0 {
		return "-" + s
	}
	return s
}

func formatPct(v float64, decimals int) string {
	return printer.Sprintf("%."+strconv.Itoa(decimals)+"f%%", v)
}

// formatRate renders a fraction as a percentage.
func formatRate(v float64, decimals int) string {
	return formatPct(v*100, decimals)
}
