package activity

import (
	"encoding/json"
	"fmt"
)

// Mode represents the lifecycle mode of an activity record.
type Mode int

const (
	// ModeHidden indicates the record is retained but deprioritized:
	// not rendered, effects torn down, eligible for eviction.
	ModeHidden Mode = iota
	// ModeVisible indicates the record is rendered and fully live.
	ModeVisible
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeHidden:
		return "hidden"
	case ModeVisible:
		return "visible"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (m Mode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	mode, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ParseMode converts a string to a Mode. Accepts "visible" and "hidden".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "hidden":
		return ModeHidden, nil
	case "visible":
		return ModeVisible, nil
	default:
		return ModeHidden, fmt.Errorf("unknown mode: %q", s)
	}
}
