package engine

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// Won formats an amount of money for display, e.g. "10,200원".
func Won(amount int) string {
	return printer.Sprintf("%d원", amount)
}

// WonFloor floors a projected value before formatting it.
func WonFloor(v float64) string {
	return Won(int(math.Floor(v)))
}

// Percent formats a rate such as 0.035 as "3.5%".
func Percent(rate float64) string {
	return printer.Sprintf("%.1f%%", rate*100)
}
