package sensor

// Reading is one calibrated, display-ready sample. All three values are
// derived together from a single valid raw read; a Reading is never
// partially populated.
type Reading struct {
	Celsius    string
	Fahrenheit string
	Humidity   string
}

// Offsets holds additive calibration corrections applied to raw driver
// output before formatting.
type Offsets struct {
	Temperature float64
	Humidity    float64
}
