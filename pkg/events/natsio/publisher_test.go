package natsio

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/events"
	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subj string
	data []byte
}

type fakeConn struct {
	msgs []published
	err  error
}

func (c *fakeConn) Publish(subj string, data []byte) error {
	c.msgs = append(c.msgs, published{subj: subj, data: data})
	return c.err
}

var ts = time.Date(2026, 10, 18, 23, 10, 0, 0, time.UTC)

func TestPublishSessionCreated(t *testing.T) {
	nc := &fakeConn{}
	p := NewPublisher(nc, Config{Namespace: "league"})

	sess := &model.Session{
		ID:        "s1",
		Slot:      model.Slot{Hour: 23, Minute: 30},
		Creator:   "Ana",
		Players:   []model.Player{{ID: "p1", DisplayName: "Ana"}},
		OpenAt:    time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC),
		ExpiresAt: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	}
	p.Publish(events.SessionCreated(sess, ts))

	require.Len(t, nc.msgs, 1)
	assert.Equal(t, "aramenjoyer.board.v1.league.events.session_created", nc.msgs[0].subj)

	var msg struct {
		SourceType string `json:"source_type"`
		SourceID   string `json:"source_id"`
		Topic      string `json:"topic"`
		Details    struct {
			Slot    string `json:"slot"`
			Creator string `json:"creator"`
			Players []struct {
				DisplayName string `json:"display_name"`
			} `json:"players"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(nc.msgs[0].data, &msg))
	assert.Equal(t, "SESSION", msg.SourceType)
	assert.Equal(t, "s1", msg.SourceID)
	assert.Equal(t, "session_created", msg.Topic)
	assert.Equal(t, "23:30", msg.Details.Slot)
	assert.Equal(t, "Ana", msg.Details.Creator)
	require.Len(t, msg.Details.Players, 1)
	assert.Equal(t, "Ana", msg.Details.Players[0].DisplayName)
}

func TestPublishBoardReset(t *testing.T) {
	nc := &fakeConn{}
	p := NewPublisher(nc, Config{})

	p.Publish(events.BoardReset(nil, ts))

	require.Len(t, nc.msgs, 1)
	assert.Equal(t, "aramenjoyer.board.v1.default.events.board_reset", nc.msgs[0].subj)
	assert.JSONEq(t,
		`{"source_type":"BOARD","topic":"board_reset","timestamp":"2026-10-18T23:10:00Z","details":{"removed":[]}}`,
		string(nc.msgs[0].data))
}

func TestPublishCountdown(t *testing.T) {
	msg := NewEventMessage(events.CountdownTick("s1", model.Countdown{Kind: model.CountdownToExpiry, Minutes: 29}, ts))
	assert.JSONEq(t, `{"kind":"to_expiry","minutes":29}`, string(msg.Details))
}

func TestPublishErrorIsSwallowed(t *testing.T) {
	nc := &fakeConn{err: errors.New("connection closed")}
	p := NewPublisher(nc, Config{})

	assert.NotPanics(t, func() {
		p.Publish(events.SessionRemoved("s1", events.ReasonExpired, ts))
	})
	assert.Len(t, nc.msgs, 1)
}

func TestSourceTypeJSON(t *testing.T) {
	data, err := json.Marshal(SourceTypeBoard)
	require.NoError(t, err)
	assert.Equal(t, `"BOARD"`, string(data))

	var st SourceType
	require.NoError(t, json.Unmarshal([]byte(`"SESSION"`), &st))
	assert.Equal(t, SourceTypeSession, st)
	assert.Error(t, json.Unmarshal([]byte(`"DEVICE"`), &st))
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "base.ns.events.>", Subject("base", "ns", ">"))
}
