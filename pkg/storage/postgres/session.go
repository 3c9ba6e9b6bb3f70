package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type sqlDataSession struct {
	ID        string    `db:"id"`
	Slot      string    `db:"slot"`
	Creator   string    `db:"creator"`
	OpenAt    time.Time `db:"open_at"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

var sqlParamsSession = []string{
	"id",
	"slot",
	"creator",
	"open_at",
	"expires_at",
	"created_at",
}

type sqlDataPlayer struct {
	SessionID   string `db:"session_id"`
	ID          string `db:"id"`
	DisplayName string `db:"display_name"`
	Position    int    `db:"position"`
}

var sqlParamsPlayer = []string{
	"session_id",
	"id",
	"display_name",
	"position",
}

func (d *sqlDataSession) Scan(m *model.Session) error {
	d.ID = m.ID
	d.Slot = m.Slot.Label()
	d.Creator = m.Creator
	d.OpenAt = m.OpenAt.UTC()
	d.ExpiresAt = m.ExpiresAt.UTC()
	d.CreatedAt = m.CreatedAt.UTC()

	return nil
}

func (d *sqlDataSession) Model() (*model.Session, error) {
	slot, err := model.ParseSlot(d.Slot)
	if err != nil {
		return nil, err
	}

	m := &model.Session{
		ID:        d.ID,
		Slot:      slot,
		Creator:   d.Creator,
		Players:   make([]model.Player, 0),
		OpenAt:    d.OpenAt,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}

	return m, nil
}

func insertQuery(table string, params []string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(params, ", "),
		":"+strings.Join(params, ", :"),
	)
}

func fetchAllSessions(db *sqlx.DB) ([]model.Session, error) {
	rows := make([]sqlDataSession, 0)
	query := "SELECT * FROM sessions ORDER BY created_at, id"
	if err := db.Select(&rows, query); err != nil {
		return nil, errors.Wrap(err, "failed to fetch all sessions")
	}

	players := make([]sqlDataPlayer, 0)
	query = "SELECT * FROM players ORDER BY session_id, position"
	if err := db.Select(&players, query); err != nil {
		return nil, errors.Wrap(err, "failed to fetch all players")
	}

	models := make([]model.Session, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, d := range rows {
		m, err := d.Model()
		if err != nil {
			return nil, errors.Wrap(err, "failed to convert SQL data to session model")
		}
		index[m.ID] = len(models)
		models = append(models, *m)
	}

	for _, p := range players {
		i, ok := index[p.SessionID]
		if !ok {
			continue
		}
		models[i].Players = append(models[i].Players, model.Player{ID: p.ID, DisplayName: p.DisplayName})
	}

	return models, nil
}

// replaceSessions swaps the stored board for sessions in one transaction.
func replaceSessions(db *sqlx.DB, sessions []model.Session) error {
	tx, err := db.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	// players go with their session
	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		return errors.Wrap(err, "failed to delete sessions")
	}

	for i := range sessions {
		m := &sessions[i]

		d := sqlDataSession{}
		if err := d.Scan(m); err != nil {
			return errors.Wrap(err, "failed to convert session model to SQL data")
		}
		if _, err := tx.NamedExec(insertQuery("sessions", sqlParamsSession), d); err != nil {
			return errors.Wrap(err, "failed to create session")
		}

		for pos, p := range m.Players {
			dp := sqlDataPlayer{SessionID: m.ID, ID: p.ID, DisplayName: p.DisplayName, Position: pos}
			if _, err := tx.NamedExec(insertQuery("players", sqlParamsPlayer), dp); err != nil {
				return errors.Wrap(err, "failed to create player")
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit sessions")
	}

	return nil
}
