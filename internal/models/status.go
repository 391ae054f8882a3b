package models

import (
	"fmt"
	"strings"
)

// Status describes the user's relationship to a library entry.
type Status string

const (
	StatusWantToPlay Status = "QUERO_JOGAR"
	StatusPlaying    Status = "JOGANDO"
	StatusCompleted  Status = "ZERADO"
	StatusAbandoned  Status = "ABANDONADO"
)

// DefaultStatus is assigned by the backend when an entry is created.
const DefaultStatus = StatusWantToPlay

// ErrInvalidStatus is returned when a value is not one of the four statuses.
var ErrInvalidStatus = fmt.Errorf("invalid status")

var statusNames = map[Status]string{
	StatusWantToPlay: "want-to-play",
	StatusPlaying:    "playing",
	StatusCompleted:  "completed",
	StatusAbandoned:  "abandoned",
}

var statusLabels = map[Status]string{
	StatusWantToPlay: "Want to Play",
	StatusPlaying:    "Playing",
	StatusCompleted:  "Completed",
	StatusAbandoned:  "Abandoned",
}

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusWantToPlay, StatusPlaying, StatusCompleted, StatusAbandoned}
}

// ParseStatus accepts a wire value (QUERO_JOGAR) or a kebab name (want-to-play), case-insensitively.
func ParseStatus(s string) (Status, error) {
	v := strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(v, string(st)) || strings.EqualFold(v, statusNames[st]) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Name returns the kebab-case name used on the command line.
func (s Status) Name() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return string(s)
}

// Label returns the human readable label.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Status) String() string { return s.Label() }

// MarshalText implements [encoding.TextMarshaler].
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
//
// An empty value decodes as [DefaultStatus].
func (s *Status) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = DefaultStatus
		return nil
	}
	st, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}
