package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type is the discriminator carried in the "type" field of every envelope.
type Type string

const (
	TypeXP             Type = "xp"
	TypeActivity       Type = "activity"
	TypeLessonProgress Type = "lesson-progress"
	TypeTrade          Type = "trade"
	TypeProfile        Type = "profile"
	TypeBadge          Type = "badge"
)

var (
	ErrUnknownType = errors.New("events: unknown event type")
	ErrMalformed   = errors.New("events: malformed event")
)

// Event defines the contract for all user-scoped domain events pushed on the live stream.
// Implementations are plain values; once built they are never mutated.
type Event interface {
	// EventType returns the wire discriminator (e.g. "xp").
	EventType() Type
}

// Encode renders the wire form: {"type": <tag>, ...fields}.
func Encode(e Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil event", ErrMalformed)
	}
	return json.Marshal(e)
}

// Decode parses one wire frame into its concrete envelope.
func Decode(data []byte) (Event, error) {
	var probe struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var (
		evt Event
		err error
	)
	switch probe.Type {
	case TypeXP:
		var v XPChanged
		err = json.Unmarshal(data, &v)
		evt = v
	case TypeActivity:
		var v ActivityLogged
		err = json.Unmarshal(data, &v)
		evt = v
	case TypeLessonProgress:
		var v LessonProgress
		err = json.Unmarshal(data, &v)
		evt = v
	case TypeTrade:
		var v TradeRecorded
		err = json.Unmarshal(data, &v)
		evt = v
	case TypeProfile:
		var v ProfileUpdated
		err = json.Unmarshal(data, &v)
		evt = v
	case TypeBadge:
		var v BadgeUnlocked
		err = json.Unmarshal(data, &v)
		evt = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, probe.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return evt, nil
}
