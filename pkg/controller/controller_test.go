package controller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/clock"
	"github.com/fafukeh/AramEnjoyer/pkg/events"
	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/fafukeh/AramEnjoyer/pkg/slot"
	"github.com/fafukeh/AramEnjoyer/pkg/storage"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshots struct {
	snapshot []model.Session
	loadErr  error
	saveErr  error
	loads    int
	saves    [][]model.Session
	sync.Mutex
}

func (f *fakeSnapshots) Load() ([]model.Session, error) {
	f.Lock()
	defer f.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snapshot, nil
}

func (f *fakeSnapshots) Save(sessions []model.Session) error {
	f.Lock()
	defer f.Unlock()
	f.saves = append(f.saves, sessions)
	return f.saveErr
}

func (f *fakeSnapshots) last() []model.Session {
	f.Lock()
	defer f.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

type recorder struct {
	events []events.Event
	sync.Mutex
}

func (r *recorder) Publish(e events.Event) {
	r.Lock()
	defer r.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []events.Type {
	r.Lock()
	defer r.Unlock()
	out := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func at(day, hour, min, sec int) time.Time {
	return time.Date(2026, 10, day, hour, min, sec, 0, time.UTC)
}

type fixture struct {
	clock     *clock.Fake
	snapshots *fakeSnapshots
	events    *recorder
	ctrl      *Controller
}

func newFixture(t *testing.T, now time.Time, snapshots *fakeSnapshots) *fixture {
	t.Helper()
	if snapshots == nil {
		snapshots = &fakeSnapshots{loadErr: storage.ErrNotFound}
	}

	p := slot.DefaultPolicy()
	p.Location = time.UTC
	clk := clock.NewFake(now)
	rec := &recorder{}

	ctrl := New(clk, slot.New(p), snapshots, rec, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, ctrl.Start(ctx))

	return &fixture{clock: clk, snapshots: snapshots, events: rec, ctrl: ctrl}
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)

	sess, err := f.ctrl.CreateSession("Ana", "23:30")
	require.NoError(t, err)

	assert.Equal(t, "23:30", sess.Slot.Label())
	assert.Equal(t, at(18, 23, 30, 0), sess.OpenAt)
	require.Len(t, sess.Players, 1)
	assert.Equal(t, "Ana", sess.Players[0].DisplayName)

	state, cd := f.ctrl.Describe(sess)
	assert.Equal(t, model.StatePending, state)
	require.NotNil(t, cd)
	assert.Equal(t, model.Countdown{Kind: model.CountdownToOpen, Minutes: 20}, *cd)

	assert.Equal(t, []events.Type{events.TypeSessionCreated}, f.events.types())
	require.Len(t, f.snapshots.last(), 1)
	assert.Equal(t, sess.ID, f.snapshots.last()[0].ID)
}

func TestCreateSessionErrors(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)

	_, err := f.ctrl.CreateSession("Ana", "23:00")
	assert.ErrorIs(t, err, model.ErrInvalidSlot)

	_, err = f.ctrl.CreateSession("Ana", "later")
	assert.ErrorIs(t, err, model.ErrInvalidSlot)

	_, err = f.ctrl.CreateSession("  ", "1:00")
	assert.ErrorIs(t, err, model.ErrEmptyUsername)

	assert.Empty(t, f.ctrl.Sessions())
	assert.Empty(t, f.events.types())
	assert.Empty(t, f.snapshots.saves)
}

func TestCreateSessionRevalidatesAtSubmission(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)

	// offered at 23:10, gone by the time the form is submitted
	f.clock.Set(at(18, 23, 31, 0))
	_, err := f.ctrl.CreateSession("Ana", "23:30")
	assert.ErrorIs(t, err, model.ErrInvalidSlot)
}

func TestDoubleBooking(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)

	first, err := f.ctrl.CreateSession("Ana", "1:00")
	require.NoError(t, err)

	_, err = f.ctrl.CreateSession("Bob", "1:00")
	kind, ok := model.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrSlotTaken, kind)

	list := f.ctrl.Sessions()
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "Ana", list[0].Creator)
	assert.Len(t, f.snapshots.saves, 1)
}

func TestJoinSession(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)
	sess, err := f.ctrl.CreateSession("Ana", "1:00")
	require.NoError(t, err)

	_, _, err = f.ctrl.JoinSession(sess.ID, "Ana")
	assert.ErrorIs(t, err, model.ErrDuplicateUsername)

	got, p, err := f.ctrl.JoinSession(sess.ID, "ana")
	require.NoError(t, err)
	assert.Equal(t, "ana", p.DisplayName)
	assert.Len(t, got.Players, 2)

	_, _, err = f.ctrl.JoinSession("missing", "Bob")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	assert.Equal(t, []events.Type{events.TypeSessionCreated, events.TypeSessionUpdated}, f.events.types())
	assert.Len(t, f.snapshots.saves, 2)
}

func TestJoinSessionFull(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)
	sess, err := f.ctrl.CreateSession("Ana", "1:00")
	require.NoError(t, err)

	for _, name := range []string{"Bob", "Cid", "Dan", "Eve"} {
		_, _, err := f.ctrl.JoinSession(sess.ID, name)
		require.NoError(t, err)
	}

	_, _, err = f.ctrl.JoinSession(sess.ID, "Fay")
	assert.ErrorIs(t, err, model.ErrSessionFull)

	got, err := f.ctrl.Session(sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Players, f.ctrl.MaxPlayers())
}

func TestLeaveSession(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)
	sess, err := f.ctrl.CreateSession("Ana", "1:00")
	require.NoError(t, err)
	_, bob, err := f.ctrl.JoinSession(sess.ID, "Bob")
	require.NoError(t, err)

	got, removed, err := f.ctrl.LeaveSession(sess.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, got.Players, 1)

	_, _, err = f.ctrl.LeaveSession(sess.ID, bob.ID)
	assert.ErrorIs(t, err, model.ErrPlayerNotFound)

	_, removed, err = f.ctrl.LeaveSession(sess.ID, sess.Players[0].ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = f.ctrl.Session(sess.ID)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	assert.Empty(t, f.snapshots.last())

	types := f.events.types()
	assert.Equal(t, events.TypeSessionRemoved, types[len(types)-1])
	f.events.Lock()
	assert.Equal(t, events.ReasonEmpty, f.events.events[len(f.events.events)-1].Reason)
	f.events.Unlock()

	// the timer went with the session
	f.ctrl.Tick(at(18, 23, 10, 1))
	assert.Len(t, f.events.types(), len(types))
}

func TestTickExpiresAndPersists(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)
	sess, err := f.ctrl.CreateSession("Ana", "23:30")
	require.NoError(t, err)

	f.ctrl.Tick(at(18, 23, 31, 0))
	_, err = f.ctrl.Session(sess.ID)
	require.NoError(t, err)

	saves := len(f.snapshots.saves)
	f.ctrl.Tick(at(19, 0, 0, 1))

	_, err = f.ctrl.Session(sess.ID)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	assert.Len(t, f.snapshots.saves, saves+1)
	assert.Empty(t, f.snapshots.last())
}

func TestCountdownTicksAreNotPersisted(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)
	_, err := f.ctrl.CreateSession("Ana", "23:30")
	require.NoError(t, err)

	saves := len(f.snapshots.saves)
	f.ctrl.Tick(at(18, 23, 10, 0))

	assert.Len(t, f.snapshots.saves, saves)
	types := f.events.types()
	assert.Equal(t, events.TypeCountdownTick, types[len(types)-1])
}

func TestStartRestoresSnapshot(t *testing.T) {
	players := []model.Player{{ID: "p1", DisplayName: "Ana"}}
	snapshots := &fakeSnapshots{snapshot: []model.Session{
		{ID: "live", Slot: model.Slot{Hour: 0, Minute: 0}, Creator: "Ana", Players: players,
			OpenAt: at(19, 0, 0, 0), ExpiresAt: at(19, 0, 30, 0), CreatedAt: at(18, 22, 0, 0)},
		{ID: "stale", Slot: model.Slot{Hour: 22, Minute: 30}, Creator: "Ana", Players: players,
			OpenAt: at(18, 22, 30, 0), ExpiresAt: at(18, 23, 0, 0), CreatedAt: at(18, 22, 0, 0)},
	}}

	f := newFixture(t, at(18, 23, 10, 0), snapshots)

	assert.Equal(t, 1, snapshots.loads)
	list := f.ctrl.Sessions()
	require.Len(t, list, 1)
	assert.Equal(t, "live", list[0].ID)

	// the pruned snapshot is written back
	require.Len(t, snapshots.saves, 1)
	require.Len(t, snapshots.last(), 1)
	assert.Equal(t, "live", snapshots.last()[0].ID)

	// restored sessions are tracked
	f.ctrl.Tick(at(19, 0, 30, 0))
	assert.Empty(t, f.ctrl.Sessions())

	assert.ErrorIs(t, f.ctrl.Start(context.Background()), ErrAlreadyStarted)
	assert.Equal(t, 1, snapshots.loads)
}

func TestStartAfterResetDropsLastNight(t *testing.T) {
	players := []model.Player{{ID: "p1", DisplayName: "Ana"}}
	snapshots := &fakeSnapshots{snapshot: []model.Session{
		{ID: "last-night", Slot: model.Slot{Hour: 6, Minute: 0}, Creator: "Ana", Players: players,
			OpenAt: at(19, 6, 0, 0), ExpiresAt: at(19, 6, 30, 0), CreatedAt: at(19, 5, 50, 0)},
	}}

	// the process was down across the 06:00 boundary
	f := newFixture(t, at(19, 6, 10, 0), snapshots)

	assert.Empty(t, f.ctrl.Sessions())
	require.Len(t, snapshots.saves, 1)
	assert.Empty(t, snapshots.last())
}

func TestStartSurvivesBrokenSnapshot(t *testing.T) {
	snapshots := &fakeSnapshots{loadErr: errors.New("unexpected end of JSON input")}
	f := newFixture(t, at(18, 23, 10, 0), snapshots)

	assert.Empty(t, f.ctrl.Sessions())
	_, err := f.ctrl.CreateSession("Ana", "1:00")
	assert.NoError(t, err)
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	snapshots := &fakeSnapshots{loadErr: storage.ErrNotFound, saveErr: errors.New("disk full")}
	f := newFixture(t, at(18, 23, 10, 0), snapshots)

	sess, err := f.ctrl.CreateSession("Ana", "1:00")
	require.NoError(t, err)

	got, err := f.ctrl.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestNightlyReset(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)
	assert.Equal(t, at(19, 6, 0, 0), f.ctrl.NextReset())

	_, err := f.ctrl.CreateSession("Ana", "6:00")
	require.NoError(t, err)

	f.ctrl.Tick(at(19, 6, 0, 0))

	assert.Empty(t, f.ctrl.Sessions())
	assert.Empty(t, f.snapshots.last())
	types := f.events.types()
	assert.Equal(t, events.TypeBoardReset, types[len(types)-1])
	assert.Equal(t, at(20, 6, 0, 0), f.ctrl.NextReset())
}

func TestSlots(t *testing.T) {
	f := newFixture(t, at(18, 23, 10, 0), nil)

	slots := f.ctrl.Slots()
	require.Len(t, slots, 14)
	assert.Equal(t, "23:30", slots[0].Slot.Label())
	assert.Equal(t, at(18, 23, 30, 0), slots[0].OpenAt)
	assert.Equal(t, "0:00", slots[1].Slot.Label())
	assert.Equal(t, at(19, 0, 0, 0), slots[1].OpenAt)
	assert.Equal(t, "6:00", slots[13].Slot.Label())
}

func TestSchedulerLoopDrivesBoard(t *testing.T) {
	f := newFixture(t, at(18, 23, 59, 58), nil)
	_, err := f.ctrl.CreateSession("Ana", "0:00")
	require.NoError(t, err)

	// the session expires at 00:30; move close and let the loop run
	f.clock.Set(at(19, 0, 29, 59))
	require.Eventually(t, func() bool {
		f.clock.Advance(time.Second)
		return len(f.ctrl.Sessions()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
