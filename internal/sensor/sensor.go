package sensor

import "fmt"

// RawReading is the uncorrected output of a sensor driver.
type RawReading struct {
	Temperature float64 // °C
	Humidity    float64 // %
}

// Driver is a single-shot environmental sensor.
type Driver interface {
	Read() (RawReading, error)
}

// ReadError reports a failed sensor read, typically checksum or timing
// noise on the single-wire bus. Reads fail routinely on DHT-class sensors;
// callers keep their previous reading and resample on the next cycle.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("sensor read: %v", e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

// Reader turns raw driver output into calibrated, formatted readings.
type Reader struct {
	driver  Driver
	offsets Offsets
}

func NewReader(driver Driver, offsets Offsets) *Reader {
	return &Reader{driver: driver, offsets: offsets}
}

// Sample performs one sensor read. On success all three values come from
// the same raw read: offsets are applied first, Fahrenheit is computed from
// the calibrated Celsius value, and only then is everything formatted.
func (r *Reader) Sample() (Reading, error) {
	raw, err := r.driver.Read()
	if err != nil {
		return Reading{}, &ReadError{Err: err}
	}

	celsius := raw.Temperature + r.offsets.Temperature
	humidity := raw.Humidity + r.offsets.Humidity

	return Reading{
		Celsius:    FormatValue(celsius),
		Fahrenheit: FormatValue(CelsiusToFahrenheit(celsius)),
		Humidity:   FormatValue(humidity),
	}, nil
}
