// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package chipcap2

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// ChannelKind selects one of the two measurement channels the device
// publishes.
type ChannelKind int

const (
	Humidity ChannelKind = iota
	Temperature
)

func (k ChannelKind) String() string {
	switch k {
	case Humidity:
		return "humidity"
	case Temperature:
		return "temperature"
	}
	return fmt.Sprintf("ChannelKind(%d)", int(k))
}

// InfoType selects one piece of a channel's fixed-point reading contract.
type InfoType int

const (
	// InfoRaw is the unscaled 14 bit count from the last conversion.
	InfoRaw InfoType = iota
	// InfoScale is the exact rational converting a raw count to the
	// channel's physical unit.
	InfoScale
	// InfoOffset is the integer added after scaling, expressed in the
	// channel's physical unit.
	InfoOffset
)

func (i InfoType) String() string {
	switch i {
	case InfoRaw:
		return "raw"
	case InfoScale:
		return "scale"
	case InfoOffset:
		return "offset"
	}
	return fmt.Sprintf("InfoType(%d)", int(i))
}

// Channel describes a measurement channel and the info types it publishes.
type Channel struct {
	Kind ChannelKind
	Info []InfoType
}

// Supports reports whether the channel publishes the given info type.
func (c *Channel) Supports(info InfoType) bool {
	for _, i := range c.Info {
		if i == info {
			return true
		}
	}
	return false
}

// Channels is the channel descriptor table. The humidity channel has no
// offset; its reading is raw count times scale.
var Channels = [...]Channel{
	{Kind: Humidity, Info: []InfoType{InfoRaw, InfoScale}},
	{Kind: Temperature, Info: []InfoType{InfoRaw, InfoScale, InfoOffset}},
}

// Scale is an exact rational scale factor. A full reading is
// raw*Numerator/Denominator plus the channel offset.
type Scale struct {
	Numerator   int
	Denominator int
}

// Conversion constants from the datasheet: 14 bit counts spanning
// 0-100 %RH and -40-125 °C. They are part of the device contract and are
// never recomputed.
var scales = [...]Scale{
	Humidity:    {Numerator: 100, Denominator: 16384},
	Temperature: {Numerator: 100, Denominator: 9929},
}

var offsets = [...]int{
	Humidity:    0,
	Temperature: -40,
}

// ScaleOf returns the exact rational scale for the channel kind.
func ScaleOf(kind ChannelKind) Scale {
	return scales[kind]
}

// OffsetOf returns the post-scale offset for the channel kind, in the
// channel's physical unit.
func OffsetOf(kind ChannelKind) int {
	return offsets[kind]
}

// PartNumbers lists the catalog part numbers this driver supports. All
// four share the same protocol and conversion constants; they differ only
// in accuracy class and supply voltage.
var PartNumbers = [...]string{"cc2d23", "cc2d25", "cc2d33", "cc2d35"}

// Compatible lists the device tree compatible strings for the supported
// parts.
var Compatible = [...]string{"amp,cc2d23", "amp,cc2d25", "amp,cc2d33", "amp,cc2d35"}

const (
	// DefaultAddress is the factory programmed I2C address shared by all
	// supported parts.
	DefaultAddress uint16 = 0x28

	// dataFetch is the only command the device accepts in direct mode.
	dataFetch byte = 0xdf

	// The data fetch command returns either the humidity bytes alone or
	// humidity followed by temperature.
	humidityFrameLen = 2
	fullFrameLen     = 4
)

// frameLen returns the data fetch length required to decode the kind.
func (k ChannelKind) frameLen() int {
	if k == Humidity {
		return humidityFrameLen
	}
	return fullFrameLen
}

// decodeRaw unpacks the raw 14 bit count for kind from a data fetch
// frame. The two high bits of the first humidity byte are status bits and
// are masked off. The temperature count keeps only the six high bits of
// the last byte; the divide by 4 truncates, matching the device's bit
// layout.
func decodeRaw(kind ChannelKind, frame []byte) (int, error) {
	switch kind {
	case Humidity:
		if len(frame) == humidityFrameLen {
			return int(frame[0]&0x3f)<<8 | int(frame[1]), nil
		}
	case Temperature:
		if len(frame) == fullFrameLen {
			return int(frame[2])<<6 + int(frame[3])/4, nil
		}
	}
	return 0, &SizeMismatchError{Kind: kind, Len: len(frame)}
}

// Dev represents a ChipCap 2 humidity/temperature sensor.
type Dev struct {
	d        *i2c.Dev
	mu       sync.Mutex
	shutdown chan struct{}
}

// NewI2C returns a ChipCap 2 device bound to the given bus and address.
// The bus remains owned by the caller; the driver never closes it. The
// bus must support write-then-read transactions, which every i2c.Bus
// does, so the only attach-time failure is a missing bus.
func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	if b == nil {
		return nil, errors.New("chipcap2: an i2c bus is required")
	}
	return &Dev{d: &i2c.Dev{Bus: b, Addr: addr}}, nil
}

// fetch issues a single data fetch command and fills frame with the
// response. The frame length is checked before the bus is touched. A
// transaction that cannot fill the frame fails as a whole; partial data
// is never returned. No retries are attempted, that policy belongs to
// the caller.
func (d *Dev) fetch(frame []byte) error {
	if len(frame) != humidityFrameLen && len(frame) != fullFrameLen {
		return &FrameLengthError{Len: len(frame)}
	}
	if err := d.d.Tx([]byte{dataFetch}, frame); err != nil {
		return fmt.Errorf("chipcap2: data fetch: %w", err)
	}
	return nil
}

// ReadRaw performs one data fetch and returns the raw 14 bit count for
// the requested channel. Humidity needs only the short 2 byte frame; the
// temperature count rides in the tail of the full 4 byte frame.
func (d *Dev) ReadRaw(kind ChannelKind) (int, error) {
	frame := make([]byte, kind.frameLen())
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fetch(frame); err != nil {
		return 0, err
	}
	return decodeRaw(kind, frame)
}

// ReadInfo reads one element of a channel's fixed-point contract as a
// (value, divisor) pair: InfoRaw performs a bus transaction and returns
// (count, 1), InfoScale returns the exact rational and InfoOffset
// returns (offset, 1). Info types the channel descriptor table does not
// publish return UnsupportedInfoError. A full physical reading composes
// the three as raw*numerator/denominator + offset.
func (d *Dev) ReadInfo(kind ChannelKind, info InfoType) (int, int, error) {
	for i := range Channels {
		c := &Channels[i]
		if c.Kind != kind {
			continue
		}
		if !c.Supports(info) {
			break
		}
		switch info {
		case InfoRaw:
			raw, err := d.ReadRaw(kind)
			if err != nil {
				return 0, 0, err
			}
			return raw, 1, nil
		case InfoScale:
			s := ScaleOf(kind)
			return s.Numerator, s.Denominator, nil
		case InfoOffset:
			return OffsetOf(kind), 1, nil
		}
	}
	return 0, 0, &UnsupportedInfoError{Kind: kind, Info: info}
}

// Sense reads both channels with a single 4 byte data fetch and converts
// the counts with the exact scale and offset contract, in integer math.
// Implements physic.SenseEnv. The pressure is always 0 since the device
// does not measure it.
func (d *Dev) Sense(e *physic.Env) error {
	e.Temperature = 0
	e.Pressure = 0
	e.Humidity = 0

	frame := make([]byte, fullFrameLen)
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fetch(frame); err != nil {
		return err
	}
	h, err := decodeRaw(Humidity, frame[:humidityFrameLen])
	if err != nil {
		return err
	}
	t, err := decodeRaw(Temperature, frame)
	if err != nil {
		return err
	}
	hs := ScaleOf(Humidity)
	ts := ScaleOf(Temperature)
	e.Humidity = physic.RelativeHumidity(int64(h) * int64(hs.Numerator) * int64(physic.PercentRH) / int64(hs.Denominator))
	e.Temperature = physic.ZeroCelsius +
		physic.Temperature(int64(t)*int64(ts.Numerator)*int64(physic.Celsius)/int64(ts.Denominator)) +
		physic.Temperature(OffsetOf(Temperature))*physic.Celsius
	return nil
}

// SenseContinuous returns a channel that receives a reading every
// interval. Each reading is an independent direct mode fetch; the
// device's buffered and triggered modes are not used. To terminate the
// read, call Halt().
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval <= 0 {
		return nil, errors.New("chipcap2: invalid duration. must be > 0")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("chipcap2: SenseContinuous already running")
	}

	d.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(ch)
		for {
			select {
			case <-d.shutdown:
				d.shutdown = nil
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err == nil {
					ch <- e
				}
			}
		}
	}()
	return ch, nil
}

// Precision returns the size of a single raw count step, the smallest
// change in readings the device can produce. Implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	hs := ScaleOf(Humidity)
	ts := ScaleOf(Temperature)
	e.Humidity = physic.RelativeHumidity(int64(hs.Numerator) * int64(physic.PercentRH) / int64(hs.Denominator))
	e.Temperature = physic.Temperature(int64(ts.Numerator) * int64(physic.Celsius) / int64(ts.Denominator))
	e.Pressure = 0
}

// Halt interrupts a running SenseContinuous() operation. Implements
// conn.Resource. The device itself has nothing to tear down; the bus
// stays open and owned by the caller.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("chipcap2: %s", d.d)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
