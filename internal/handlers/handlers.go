package handlers

import (
	"time"

	"video-library/internal/database"
	"video-library/internal/library"
	"video-library/internal/media"
	"video-library/internal/player"
	"video-library/internal/startup"
)

type Handlers struct {
	lib       *library.Library
	db        *database.Database
	player    *player.Player
	thumbs    *media.ThumbnailCache
	startedAt time.Time
}

func New(lib *library.Library, db *database.Database, pl *player.Player, config *startup.Config) *Handlers {
	return &Handlers{
		lib:       lib,
		db:        db,
		player:    pl,
		thumbs:    media.NewThumbnailCache(config.ThumbnailDir, config.ThumbnailsEnabled),
		startedAt: time.Now(),
	}
}
