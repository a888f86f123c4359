package progress

// Indicator is the colour shown under a summary card.
type Indicator string

// Indicator colours.
const (
	IndicatorGray   Indicator = "gray"
	IndicatorGreen  Indicator = "green"
	IndicatorOrange Indicator = "orange"
	IndicatorRed    Indicator = "red"
)

// IndicatorFor compares an average with its target. Inverse metrics (beers)
// turn red above target; the rest turn orange below it. A missing or zero
// average is gray.
func IndicatorFor(value float64, present bool, target float64, inverse bool) Indicator {
	if !present || value == 0 {
		return IndicatorGray
	}
	if inverse {
		if value > target {
			return IndicatorRed
		}
		return IndicatorGreen
	}
	if value >= target {
		return IndicatorGreen
	}
	return IndicatorOrange
}
