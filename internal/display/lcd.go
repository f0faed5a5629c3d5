package display

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PCF8574 backpack bit layout: data nibble on the high bits, control on
// the low bits.
const (
	backlight = 0x08
	enable    = 0x04
	rs        = 0x01
)

// HD44780 commands.
const (
	cmdClear        = 0x01
	cmdEntryMode    = 0x06 // increment cursor, no shift
	cmdDisplayOn    = 0x0C // display on, cursor off
	cmdFunctionSet  = 0x28 // 4-bit, 2 lines, 5x8 font
	cmdSetDDRAMAddr = 0x80
)

const columns = 16

var lineOffsets = [...]byte{0x00, 0x40}

// LCD drives a 16x2 HD44780 character display behind a PCF8574 I2C
// backpack.
type LCD struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

// OpenLCD initializes the periph host, opens the default I2C bus and puts
// the controller into 4-bit mode.
func OpenLCD(addr uint16) (*LCD, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("open i2c bus: %w", err)
	}

	l := &LCD{bus: bus, dev: &i2c.Dev{Addr: addr, Bus: bus}}
	if err := l.init(); err != nil {
		bus.Close()
		return nil, fmt.Errorf("lcd init: %w", err)
	}
	return l, nil
}

// init runs the 4-bit initialization sequence from the HD44780 datasheet.
func (l *LCD) init() error {
	for _, nibble := range []byte{0x30, 0x30, 0x30, 0x20} {
		if err := l.pulse(nibble | backlight); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	for _, cmd := range []byte{cmdFunctionSet, cmdDisplayOn, cmdClear, cmdEntryMode} {
		if err := l.writeByte(cmd, 0); err != nil {
			return err
		}
		time.Sleep(2 * time.Millisecond)
	}
	return nil
}

// Clear blanks the display and homes the cursor.
func (l *LCD) Clear() error {
	if err := l.writeByte(cmdClear, 0); err != nil {
		return err
	}
	// The clear command needs more settle time than other commands.
	time.Sleep(2 * time.Millisecond)
	return nil
}

// DisplayLine writes text to the given line, truncated to the display
// width.
func (l *LCD) DisplayLine(text string, line int) error {
	if line < 1 || line > len(lineOffsets) {
		return fmt.Errorf("lcd line %d out of range [1,%d]", line, len(lineOffsets))
	}
	if err := l.writeByte(cmdSetDDRAMAddr|lineOffsets[line-1], 0); err != nil {
		return err
	}
	if len(text) > columns {
		text = text[:columns]
	}
	for _, c := range []byte(text) {
		if err := l.writeByte(c, rs); err != nil {
			return err
		}
	}
	return nil
}

// Close turns the backlight off and releases the I2C bus.
func (l *LCD) Close() error {
	err := l.dev.Tx([]byte{0x00}, nil)
	if cerr := l.bus.Close(); err == nil {
		err = cerr
	}
	return err
}

// writeByte sends one command or data byte as two 4-bit transfers.
func (l *LCD) writeByte(b, mode byte) error {
	if err := l.pulse(b&0xF0 | mode | backlight); err != nil {
		return err
	}
	return l.pulse(b<<4&0xF0 | mode | backlight)
}

// pulse latches the nibble on the data lines by strobing enable.
func (l *LCD) pulse(b byte) error {
	if err := l.dev.Tx([]byte{b | enable}, nil); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)
	if err := l.dev.Tx([]byte{b &^ enable}, nil); err != nil {
		return err
	}
	time.Sleep(50 * time.Microsecond)
	return nil
}
