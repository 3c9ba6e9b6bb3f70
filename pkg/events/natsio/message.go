package natsio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type SourceType int

const (
	SourceTypeBoard SourceType = iota
	SourceTypeSession
)

func (t SourceType) String() string {
	return sourceTypeToString[t]
}

var sourceTypeToString = map[SourceType]string{
	SourceTypeBoard:   "BOARD",
	SourceTypeSession: "SESSION",
}

var stringToSourceType = map[string]SourceType{
	"BOARD":   SourceTypeBoard,
	"SESSION": SourceTypeSession,
}

func (t SourceType) MarshalJSON() ([]byte, error) {
	buffer := bytes.NewBufferString(`"`)
	buffer.WriteString(sourceTypeToString[t])
	buffer.WriteString(`"`)
	return buffer.Bytes(), nil
}

func (t *SourceType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, ok := stringToSourceType[s]
	if !ok {
		return fmt.Errorf("invalid source type '%s'", s)
	}
	*t = v
	return nil
}

// EventMessage is the envelope published on the bus.
type EventMessage struct {
	SourceType SourceType      `json:"source_type"`
	SourceID   string          `json:"source_id,omitempty"`
	Topic      string          `json:"topic"`
	Timestamp  time.Time       `json:"timestamp"`
	Details    json.RawMessage `json:"details,omitempty"`
}

type playerDetails struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type sessionDetails struct {
	Slot      string          `json:"slot"`
	Creator   string          `json:"creator"`
	Players   []playerDetails `json:"players"`
	OpenAt    time.Time       `json:"open_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type removedDetails struct {
	Reason string `json:"reason"`
}

type resetDetails struct {
	Removed []string `json:"removed"`
}

type countdownDetails struct {
	Kind    string `json:"kind"`
	Minutes int    `json:"minutes"`
}
