package store

import (
	"time"

	"git.lost.host/meutraa/eote/internal/game"
	"github.com/google/uuid"
)

// Store keeps earlier versions of charts so an edit session can be rolled back.
type Store interface {
	Close() error

	// Save records the chart as it is now.
	Save(chart *game.Chart) (Revision, error)

	// History lists the saved revisions of a chart, newest first.
	History(chart *game.Chart) ([]Revision, error)

	// Latest returns the newest revision, or false if there is none.
	Latest(chart *game.Chart) (Revision, bool, error)

	// Restore decodes the chart stored in a revision.
	Restore(id uuid.UUID) (*game.Chart, error)
}

type Revision struct {
	ID      uuid.UUID
	Sum     string
	Created time.Time
	Notes   int
}
