// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package chipcap2

import "fmt"

// FrameLengthError is returned when a data fetch is requested for a frame
// length the device protocol does not define. It is raised before any bus
// transaction takes place.
type FrameLengthError struct {
	Len int
}

func (e *FrameLengthError) Error() string {
	return fmt.Sprintf("chipcap2: data fetch frames are 2 or 4 bytes, not %d", e.Len)
}

// SizeMismatchError is returned when a frame's length does not match the
// channel kind it is decoded for. It indicates a broken call site, not a
// device failure.
type SizeMismatchError struct {
	Kind ChannelKind
	Len  int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("chipcap2: a %d byte frame cannot hold a %s reading", e.Len, e.Kind)
}

// UnsupportedInfoError is returned when a channel does not publish the
// requested info type. For example the humidity channel has no offset.
type UnsupportedInfoError struct {
	Kind ChannelKind
	Info InfoType
}

func (e *UnsupportedInfoError) Error() string {
	return fmt.Sprintf("chipcap2: the %s channel does not publish %s", e.Kind, e.Info)
}
