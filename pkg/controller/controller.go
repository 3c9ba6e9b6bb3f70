// Package controller wires the board together. It owns the session store,
// the slot catalog, the scheduler and the snapshot store, and serializes
// every mutation behind one lock so the board behaves like a single logical
// thread.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/board"
	"github.com/fafukeh/AramEnjoyer/pkg/clock"
	"github.com/fafukeh/AramEnjoyer/pkg/events"
	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/fafukeh/AramEnjoyer/pkg/scheduler"
	"github.com/fafukeh/AramEnjoyer/pkg/slot"
	"github.com/fafukeh/AramEnjoyer/pkg/storage"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type controllerError string

const ErrAlreadyStarted = controllerError("controller already started")

func (e controllerError) Error() string {
	return string(e)
}

type Options struct {
	MaxPlayers      int
	OpenWindow      time.Duration
	CountdownWindow time.Duration
	TickInterval    time.Duration
}

// SlotOption is a slot offered for booking together with the instant it
// would open.
type SlotOption struct {
	Slot   model.Slot
	OpenAt time.Time
}

type Controller struct {
	clock     clock.Clock
	catalog   *slot.Catalog
	store     *board.Store
	sched     *scheduler.Scheduler
	snapshots storage.SnapshotStore
	pub       events.Publisher
	started   bool
	sync.Mutex
}

// New creates a controller with an empty board. Call Start to restore the
// last snapshot and run the scheduler.
func New(clk clock.Clock, catalog *slot.Catalog, snapshots storage.SnapshotStore, pub events.Publisher, opts Options) *Controller {
	if pub == nil {
		pub = events.Discard
	}

	store := board.NewStore(catalog, board.Options{
		MaxPlayers: opts.MaxPlayers,
		OpenWindow: opts.OpenWindow,
	})

	return &Controller{
		clock:   clk,
		catalog: catalog,
		store:   store,
		sched: scheduler.New(store, catalog, clk, scheduler.Options{
			Interval:        opts.TickInterval,
			CountdownWindow: opts.CountdownWindow,
		}),
		snapshots: snapshots,
		pub:       pub,
	}
}

// Start loads the snapshot once, drops what has expired meanwhile and
// starts the scheduler loop. The loop stops when ctx is done.
func (ctrl *Controller) Start(ctx context.Context) error {
	if err := ctrl.restore(); err != nil {
		return err
	}

	go ctrl.sched.Run(ctx, func(now time.Time) {
		ctrl.Tick(now)
	})

	return nil
}

func (ctrl *Controller) restore() error {
	ctrl.Lock()
	defer ctrl.Unlock()

	if ctrl.started {
		return ErrAlreadyStarted
	}
	ctrl.started = true

	snapshot, err := ctrl.snapshots.Load()
	if err == storage.ErrNotFound {
		log.Info("controller found no snapshot, starting with an empty board")
		return nil
	}
	if err != nil {
		// A broken snapshot must not keep the board from running.
		log.WithError(errors.Wrap(err, "failed to load snapshot")).Error("controller starts with an empty board")
		return nil
	}

	now := ctrl.clock.Now()
	kept, dropped := ctrl.store.Restore(snapshot, now)
	for _, sess := range kept {
		ctrl.sched.Track(sess.ID, now)
	}
	for _, sess := range dropped {
		log.WithFields(log.Fields{
			"session": sess.ID,
			"slot":    sess.Slot.Label(),
		}).Info("controller dropped session from snapshot")
	}
	if len(dropped) > 0 {
		ctrl.save()
	}

	log.Infof("controller restored %d session(s) from snapshot", len(kept))
	return nil
}

// Tick runs one scheduler step at now. It is called by the scheduler loop
// and may be called directly to drive the board from tests.
func (ctrl *Controller) Tick(now time.Time) {
	ctrl.Lock()
	defer ctrl.Unlock()

	evs := ctrl.sched.Tick(now)

	for _, e := range evs {
		if e.Mutates() {
			ctrl.save()
			break
		}
	}
	for _, e := range evs {
		ctrl.pub.Publish(e)
	}
}

// CreateSession books the slot with label for creator, who becomes the
// first player.
func (ctrl *Controller) CreateSession(creator, label string) (*model.Session, error) {
	ctrl.Lock()
	defer ctrl.Unlock()

	now := ctrl.clock.Now()

	s, err := ctrl.catalog.Validate(label, now)
	if err != nil {
		return nil, err
	}

	sess, err := ctrl.store.Create(creator, s, now)
	if err != nil {
		return nil, err
	}

	ctrl.sched.Track(sess.ID, now)
	ctrl.save()

	log.WithFields(log.Fields{
		"session": sess.ID,
		"slot":    sess.Slot.Label(),
		"creator": sess.Creator,
	}).Info("controller created session")

	ctrl.pub.Publish(events.SessionCreated(sess, now))
	return sess, nil
}

// JoinSession adds a player to a session.
func (ctrl *Controller) JoinSession(sessionID, displayName string) (*model.Session, *model.Player, error) {
	ctrl.Lock()
	defer ctrl.Unlock()

	sess, p, err := ctrl.store.Join(sessionID, displayName)
	if err != nil {
		return nil, nil, err
	}

	ctrl.save()

	log.WithFields(log.Fields{
		"session": sess.ID,
		"player":  p.ID,
	}).Info("controller added player")

	ctrl.pub.Publish(events.SessionUpdated(sess, ctrl.clock.Now()))
	return sess, p, nil
}

// LeaveSession removes a player. When the session becomes empty it is
// deleted, its timer cancelled and removed is true.
func (ctrl *Controller) LeaveSession(sessionID, playerID string) (sess *model.Session, removed bool, err error) {
	ctrl.Lock()
	defer ctrl.Unlock()

	sess, removed, err = ctrl.store.Leave(sessionID, playerID)
	if err != nil {
		return nil, false, err
	}

	ctrl.save()

	now := ctrl.clock.Now()
	fields := log.Fields{"session": sessionID, "player": playerID}
	if removed {
		ctrl.sched.Cancel(sessionID)
		log.WithFields(fields).Info("controller removed empty session")
		ctrl.pub.Publish(events.SessionRemoved(sessionID, events.ReasonEmpty, now))
		return sess, true, nil
	}

	log.WithFields(fields).Info("controller removed player")
	ctrl.pub.Publish(events.SessionUpdated(sess, now))
	return sess, false, nil
}

// Sessions returns copies of the live sessions in creation order.
func (ctrl *Controller) Sessions() []model.Session {
	ctrl.Lock()
	defer ctrl.Unlock()
	return ctrl.store.List()
}

func (ctrl *Controller) Session(sessionID string) (*model.Session, error) {
	ctrl.Lock()
	defer ctrl.Unlock()

	sess, ok := ctrl.store.Get(sessionID)
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return sess, nil
}

// Slots lists the slots bookable right now in chronological order. Slots
// already taken are still listed; booking them fails with ErrSlotTaken.
func (ctrl *Controller) Slots() []SlotOption {
	now := ctrl.clock.Now()

	var out []SlotOption
	for s := range ctrl.catalog.Available(now) {
		out = append(out, SlotOption{Slot: s, OpenAt: ctrl.catalog.ResolveOpenAt(s, now)})
	}
	return out
}

// Describe evaluates the derived state and countdown of a session at the
// current time.
func (ctrl *Controller) Describe(sess *model.Session) (model.State, *model.Countdown) {
	return ctrl.sched.Evaluate(sess, ctrl.clock.Now())
}

func (ctrl *Controller) MaxPlayers() int {
	return ctrl.store.Options().MaxPlayers
}

// NextReset is the instant the board is cleared next.
func (ctrl *Controller) NextReset() time.Time {
	ctrl.Lock()
	defer ctrl.Unlock()
	return ctrl.sched.NextReset()
}

func (ctrl *Controller) Now() time.Time {
	return ctrl.clock.Now()
}

// save writes the snapshot. Failures are logged; the in-memory mutation
// stays committed.
func (ctrl *Controller) save() {
	if err := ctrl.snapshots.Save(ctrl.store.List()); err != nil {
		log.WithError(errors.Wrap(err, "failed to save snapshot")).Error("controller could not persist the board")
	}
}
