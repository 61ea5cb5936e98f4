package store

import (
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"git.lost.host/meutraa/eote/internal/game"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"k8s.io/utils/clock"
)

var _ Store = (*DefaultStore)(nil)

//go:embed schema.sql
var schemaSQL string

type DefaultStore struct {
	db    *sql.DB
	clock clock.PassiveClock
}

// Open creates or opens the revision database at path.
func Open(path string, cl clock.PassiveClock) (*DefaultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	if err := db.Ping(); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// sqlite has a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); nil != err {
			db.Close()
			return nil, fmt.Errorf("unable to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create schema: %w", err)
	}

	if nil == cl {
		cl = clock.RealClock{}
	}
	return &DefaultStore{db: db, clock: cl}, nil
}

func (s *DefaultStore) Close() error {
	if nil == s.db {
		return nil
	}
	return s.db.Close()
}

// Sum identifies a chart across edits by the song it is for.
func Sum(c *game.Chart) string {
	sum := sha256.Sum256([]byte(c.Title() + "\x00" + c.Artist() + "\x00" + c.AudioReference()))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *DefaultStore) Save(c *game.Chart) (Revision, error) {
	data, err := json.Marshal(c)
	if nil != err {
		return Revision{}, fmt.Errorf("unable to marshal chart: %w", err)
	}
	rev := Revision{
		ID:      uuid.New(),
		Sum:     Sum(c),
		Created: s.clock.Now().UTC(),
		Notes:   c.Len(),
	}
	_, err = s.db.Exec(
		"insert into revisions(id, sum, created, notes, chart) values(?, ?, ?, ?, ?)",
		rev.ID.String(), rev.Sum, rev.Created.UnixNano(), rev.Notes, data,
	)
	if nil != err {
		return Revision{}, fmt.Errorf("unable to save revision: %w", err)
	}
	return rev, nil
}

func scanRevision(rows interface{ Scan(...any) error }) (Revision, error) {
	var rev Revision
	var id string
	var created int64
	if err := rows.Scan(&id, &rev.Sum, &created, &rev.Notes); nil != err {
		return rev, err
	}
	parsed, err := uuid.Parse(id)
	if nil != err {
		return rev, fmt.Errorf("unable to parse revision id %q: %w", id, err)
	}
	rev.ID = parsed
	rev.Created = time.Unix(0, created).UTC()
	return rev, nil
}

func (s *DefaultStore) History(c *game.Chart) ([]Revision, error) {
	rows, err := s.db.Query(
		"select id, sum, created, notes from revisions where sum = ? order by created desc, rowid desc",
		Sum(c),
	)
	if nil != err {
		return nil, fmt.Errorf("unable to load revisions: %w", err)
	}
	defer rows.Close()

	revisions := []Revision{}
	for rows.Next() {
		rev, err := scanRevision(rows)
		if nil != err {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

func (s *DefaultStore) Latest(c *game.Chart) (Revision, bool, error) {
	row := s.db.QueryRow(
		"select id, sum, created, notes from revisions where sum = ? order by created desc, rowid desc limit 1",
		Sum(c),
	)
	rev, err := scanRevision(row)
	if err == sql.ErrNoRows {
		return Revision{}, false, nil
	}
	if nil != err {
		return Revision{}, false, fmt.Errorf("unable to load latest revision: %w", err)
	}
	return rev, true, nil
}

func (s *DefaultStore) Restore(id uuid.UUID) (*game.Chart, error) {
	var data []byte
	err := s.db.QueryRow("select chart from revisions where id = ?", id.String()).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no revision %v", id)
	}
	if nil != err {
		return nil, fmt.Errorf("unable to load revision %v: %w", id, err)
	}
	var chart game.Chart
	if err := json.Unmarshal(data, &chart); nil != err {
		return nil, fmt.Errorf("unable to decode revision %v: %w", id, err)
	}
	return &chart, nil
}
