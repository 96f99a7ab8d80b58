// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.
//
// chipcap2 provides a package for interfacing the Amphenol Advanced
// Sensors / Telaire ChipCap 2 digital humidity and temperature sensors
// over I2C.
//
// Supported parts, all sharing the same protocol, conversion constants
// and factory I2C address 0x28:
//
//	CC2D23  digital, 2% RH accuracy, 3.3V
//	CC2D25  digital, 2% RH accuracy, 5V
//	CC2D33  digital, 3% RH accuracy, 3.3V
//	CC2D35  digital, 3% RH accuracy, 5V
//
// Humidity Range: 0% - 100% RH, 14 bit resolution
//
// Temperature Range: -40°C - 125°C, 14 bit resolution
//
// The driver only uses the device's direct mode: every reading is a
// single on demand Data Fetch transaction. Sleep mode, command mode, the
// alarm outputs and the analog options are not supported; devices
// configured to sleep after power-on reset will not respond to this
// driver. The two status bits returned in every humidity frame are
// masked off and never interpreted.
//
// For detailed information, refer to the datasheet, Amphenol Advanced
// Sensors AAS-920-558E:
//
// https://www.amphenol-sensors.com/en/telaire/humidity/3095-chipcap-2
package chipcap2
