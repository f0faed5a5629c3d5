package sensor

import (
	"fmt"

	dht "github.com/MichaelS11/go-dht"
)

// DHT11 reads a DHT11 sensor wired to a GPIO pin.
type DHT11 struct {
	dev *dht.DHT
}

// NewDHT11 initializes the periph host and opens the sensor on the named
// GPIO pin (e.g. "GPIO4"). An unknown pin name fails here, at startup.
func NewDHT11(pin string) (*DHT11, error) {
	if err := dht.HostInit(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	dev, err := dht.NewDHT(pin, dht.Celsius, "dht11")
	if err != nil {
		return nil, fmt.Errorf("dht11 on %s: %w", pin, err)
	}
	return &DHT11{dev: dev}, nil
}

// Read performs one single-shot read. go-dht validates checksum and bit
// timing internally; an invalid read surfaces as an error with no value.
func (d *DHT11) Read() (RawReading, error) {
	humidity, temperature, err := d.dev.Read()
	if err != nil {
		return RawReading{}, err
	}
	return RawReading{Temperature: temperature, Humidity: humidity}, nil
}
