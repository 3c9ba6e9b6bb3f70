package cli

import "github.com/fafukeh/AramEnjoyer/config"

type Handler struct {
	Migration *MigrateHandler
	Slots     *SlotsHandler
	Watch     *WatchHandler
}

func NewHandler(c *config.Config) *Handler {
	return &Handler{
		Migration: newMigrateHandler(c),
		Slots:     newSlotsHandler(c),
		Watch:     newWatchHandler(c),
	}
}
