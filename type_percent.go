package folio

import (
	"fmt"
	"math"
)

// Percent is a ratio displayed as a percentage: 0.3 is 30%.
type Percent float64

// Equal reports whether p and q are the same up to a basis point fraction.
func (p Percent) Equal(q Percent) bool { return math.Abs(float64(p-q)) < 1e-6 }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", 100*float64(p))
}

// SignedString always shows the sign, and "-" when the percentage rounds to
// zero.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", 100*float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
