// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for training conversations.
package model

import (
	"fmt"
	"strings"
)

// Mode selects the communication scenario for a session.
type Mode int

const (
	ModeRadio Mode = iota
	ModePhone
)

// Modes returns every supported mode in menu order.
func Modes() []Mode {
	return []Mode{ModeRadio, ModePhone}
}

// String returns the config/flag name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeRadio:
		return "radio"
	case ModePhone:
		return "phone"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Label returns the menu label of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeRadio:
		return "Radio Transmission"
	case ModePhone:
		return "Phone Call"
	default:
		return m.String()
	}
}

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeRadio || m == ModePhone
}

// ParseMode parses a mode name. It accepts the names returned by String
// plus a few aliases, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "radio", "r", "transmission":
		return ModeRadio, nil
	case "phone", "p", "call":
		return ModePhone, nil
	default:
		return ModeRadio, fmt.Errorf("unknown mode %q (want radio or phone)", s)
	}
}
