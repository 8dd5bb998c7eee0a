package store

import (
	"context"
	"database/sql"
	errs "errors"
	"fmt"
	"strings"
	"time"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
	"github.com/franklinbaldo/aleph-the-game/internal/util"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrNoChange = errs.New("no change")

// DB wraps gorm.DB for repositories and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error   { return d.sql.Close() }
func (d *DB) Gorm() *gorm.DB { return d.gorm }

// Open connects to DB per config.
func Open(ctx context.Context, cfg util.Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	// Postgres-only
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(10)
	sdb.SetMaxIdleConns(5)
	if err := sdb.PingContext(ctx); err != nil {
		return nil, err
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}

// Run is one playthrough archived for later reading.
type Run struct {
	ID        uuid.UUID
	Language  string
	Obsession int
	Visits    int
	Ended     bool
}

// RunRepo basic operations.
type RunRepo struct{ db *DB }

func NewRunRepo(db *DB) *RunRepo { return &RunRepo{db: db} }

func (r *RunRepo) Create(ctx context.Context, language string) (Run, error) {
	id := uuid.New()
	err := r.db.gorm.WithContext(ctx).Exec(`INSERT INTO runs(id, language, obsession, visits, ended) VALUES(?,?,?,?,?)`,
		id, language, 100, 0, false).Error
	if err != nil {
		return Run{}, wrap(err, "create run")
	}
	return Run{ID: id, Language: language, Obsession: 100}, nil
}

func (r *RunRepo) UpdateProgress(ctx context.Context, id uuid.UUID, obsession, visits int, ended bool) error {
	err := r.db.gorm.WithContext(ctx).Exec(`UPDATE runs SET obsession = ?, visits = ?, ended = ? WHERE id = ?`,
		obsession, visits, ended, id).Error
	return wrap(err, "update run")
}

func (r *RunRepo) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	row := r.db.gorm.WithContext(ctx).Raw(`SELECT id, language, obsession, visits, ended FROM runs WHERE id = ?`, id).Row()
	var rr Run
	if err := row.Scan(&rr.ID, &rr.Language, &rr.Obsession, &rr.Visits, &rr.Ended); err != nil {
		return Run{}, wrap(err, "get run")
	}
	return rr, nil
}

// SegmentRepo archives transcript segments as they are appended.
type SegmentRepo struct{ db *DB }

func NewSegmentRepo(db *DB) *SegmentRepo { return &SegmentRepo{db: db} }

func (s *SegmentRepo) Insert(ctx context.Context, tx *gorm.DB, runID uuid.UUID, idx int, seg engine.StorySegment) error {
	err := tx.Exec(`INSERT INTO segments(id, run_id, idx, sender, body, stamp, image_prompt, music_prompt, tone)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		seg.ID, runID, idx, string(seg.Sender), strings.Join(seg.Lines, "\n"), seg.Timestamp,
		seg.ImagePrompt, seg.MusicPrompt, seg.Tone).Error
	return wrap(err, "insert segment")
}

func (s *SegmentRepo) BulkInsert(ctx context.Context, db *DB, runID uuid.UUID, from int, segs []engine.StorySegment) error {
	if len(segs) == 0 {
		return nil
	}
	return db.WithTx(ctx, func(tx *gorm.DB) error {
		for i, seg := range segs {
			if err := s.Insert(ctx, tx, runID, from+i, seg); err != nil {
				return err
			}
		}
		return nil
	})
}

// SettingsRepo persists the single-row player preferences.
type SettingsRepo struct{ db *DB }

func NewSettingsRepo(db *DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (sr *SettingsRepo) Upsert(ctx context.Context, language string, narration bool) error {
	err := sr.db.gorm.WithContext(ctx).Exec(`INSERT INTO settings(id, language, narration) VALUES (1,?,?)
	ON CONFLICT (id) DO UPDATE SET language=EXCLUDED.language, narration=EXCLUDED.narration`, language, narration).Error
	return wrap(err, "upsert settings")
}

func (sr *SettingsRepo) Get(ctx context.Context) (language string, narration bool, err error) {
	row := sr.db.gorm.WithContext(ctx).Raw(`SELECT language, narration FROM settings WHERE id = 1`).Row()
	if err := row.Scan(&language, &narration); err != nil {
		if err == sql.ErrNoRows {
			return "English", false, nil
		}
		return "", false, wrap(err, "get settings")
	}
	return language, narration, nil
}

func (sr *SettingsRepo) ToggleNarration(ctx context.Context) error {
	err := sr.db.gorm.WithContext(ctx).Exec(`UPDATE settings SET narration = NOT narration WHERE id = 1`).Error
	return wrap(err, "toggle narration")
}

// Helper error wrap
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
