// Package board holds the live sessions of tonight's board. Every mutation is
// synchronous and in memory; timers and persistence live elsewhere.
package board

import (
	"strings"
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/google/uuid"
)

const (
	DefaultMaxPlayers = 5
	DefaultOpenWindow = 30 * time.Minute
)

// Resolver maps a slot to the instant it opens relative to a reference time
// and knows where the current night ends.
type Resolver interface {
	ResolveOpenAt(s model.Slot, ref time.Time) time.Time
	NightEnd(now time.Time) time.Time
}

type Options struct {
	MaxPlayers int
	OpenWindow time.Duration
}

// Store owns the session collection. It is not safe for concurrent use; the
// caller serializes access.
type Store struct {
	resolver Resolver
	opts     Options
	sessions []*model.Session
	index    map[string]*model.Session
	newID    func() string
}

// NewStore creates an empty store.
func NewStore(resolver Resolver, opts Options) *Store {
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = DefaultMaxPlayers
	}
	if opts.OpenWindow <= 0 {
		opts.OpenWindow = DefaultOpenWindow
	}

	return &Store{
		resolver: resolver,
		opts:     opts,
		index:    make(map[string]*model.Session),
		newID:    uuid.NewString,
	}
}

// Options returns the effective options.
func (s *Store) Options() Options {
	return s.opts
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	return len(s.sessions)
}

// Create books slot for creator. The slot must already be validated against
// the catalog.
func (s *Store) Create(creator string, slot model.Slot, now time.Time) (*model.Session, error) {
	creator = strings.TrimSpace(creator)
	if creator == "" {
		return nil, model.ErrEmptyUsername
	}

	for _, m := range s.sessions {
		if m.Slot == slot {
			return nil, model.ErrSlotTaken
		}
	}

	openAt := s.resolver.ResolveOpenAt(slot, now)
	m := &model.Session{
		ID:        s.newID(),
		Slot:      slot,
		Creator:   creator,
		Players:   []model.Player{{ID: s.newID(), DisplayName: creator}},
		OpenAt:    openAt,
		ExpiresAt: openAt.Add(s.opts.OpenWindow),
		CreatedAt: now,
	}

	s.insert(m)

	out := m.Clone()
	return &out, nil
}

// Join appends a new player to the session.
func (s *Store) Join(sessionID, displayName string) (*model.Session, *model.Player, error) {
	m, ok := s.index[sessionID]
	if !ok {
		return nil, nil, model.ErrSessionNotFound
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, nil, model.ErrEmptyUsername
	}
	if len(m.Players) >= s.opts.MaxPlayers {
		return nil, nil, model.ErrSessionFull
	}
	if m.HasDisplayName(displayName) {
		return nil, nil, model.ErrDuplicateUsername
	}

	p := model.Player{ID: s.newID(), DisplayName: displayName}
	m.Players = append(m.Players, p)

	out := m.Clone()
	return &out, &p, nil
}

// Leave removes a player. When the last player leaves the session is deleted
// and removed is true; the returned session is then the final state before
// deletion, without players.
func (s *Store) Leave(sessionID, playerID string) (sess *model.Session, removed bool, err error) {
	m, ok := s.index[sessionID]
	if !ok {
		return nil, false, model.ErrSessionNotFound
	}

	i := m.FindPlayer(playerID)
	if i < 0 {
		return nil, false, model.ErrPlayerNotFound
	}

	m.Players = append(m.Players[:i], m.Players[i+1:]...)
	if len(m.Players) == 0 {
		s.delete(sessionID)
		removed = true
	}

	out := m.Clone()
	return &out, removed, nil
}

// Expire deletes the session. Deleting an absent id is a no-op and reports
// false.
func (s *Store) Expire(sessionID string) bool {
	if _, ok := s.index[sessionID]; !ok {
		return false
	}
	s.delete(sessionID)
	return true
}

// ResetAll deletes every session and returns their ids in creation order.
func (s *Store) ResetAll() []string {
	ids := make([]string, 0, len(s.sessions))
	for _, m := range s.sessions {
		ids = append(ids, m.ID)
	}

	s.sessions = nil
	s.index = make(map[string]*model.Session)

	return ids
}

// Get returns a copy of the session.
func (s *Store) Get(sessionID string) (*model.Session, bool) {
	m, ok := s.index[sessionID]
	if !ok {
		return nil, false
	}
	out := m.Clone()
	return &out, true
}

// List returns copies of all sessions in creation order.
func (s *Store) List() []model.Session {
	out := make([]model.Session, 0, len(s.sessions))
	for _, m := range s.sessions {
		out = append(out, m.Clone())
	}
	return out
}

// Restore seeds an empty store from a snapshot. Sessions the board could not
// hold at now are dropped and returned separately. That includes sessions
// created before the last reset boundary.
func (s *Store) Restore(snapshot []model.Session, now time.Time) (kept, dropped []model.Session) {
	for _, in := range snapshot {
		m := in.Clone()
		if !s.restorable(&m, now) {
			dropped = append(dropped, m)
			continue
		}
		s.insert(&m)
		kept = append(kept, m.Clone())
	}
	return kept, dropped
}

func (s *Store) restorable(m *model.Session, now time.Time) bool {
	if m.ID == "" || m.State(now) == model.StateExpired {
		return false
	}
	// booked before the last reset boundary, which cleared it
	if m.CreatedAt.Before(s.resolver.NightEnd(now).AddDate(0, 0, -1)) {
		return false
	}
	if len(m.Players) == 0 || len(m.Players) > s.opts.MaxPlayers {
		return false
	}
	if !m.ExpiresAt.Equal(m.OpenAt.Add(s.opts.OpenWindow)) {
		return false
	}
	if _, ok := s.index[m.ID]; ok {
		return false
	}

	ids := make(map[string]bool, len(m.Players))
	names := make(map[string]bool, len(m.Players))
	for _, p := range m.Players {
		if p.ID == "" || strings.TrimSpace(p.DisplayName) == "" || ids[p.ID] || names[p.DisplayName] {
			return false
		}
		ids[p.ID] = true
		names[p.DisplayName] = true
	}

	for _, other := range s.sessions {
		if other.Slot == m.Slot {
			return false
		}
	}
	return true
}

func (s *Store) insert(m *model.Session) {
	s.sessions = append(s.sessions, m)
	s.index[m.ID] = m
}

func (s *Store) delete(sessionID string) {
	delete(s.index, sessionID)
	for i, m := range s.sessions {
		if m.ID == sessionID {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			return
		}
	}
}
