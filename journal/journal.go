// journal/journal.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package journal records ground events in a MySQL database. Boarding
// and pushback sessions each get a UUID so that a session's events can be
// retrieved together.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/groundsim/groundsim/log"
	"github.com/groundsim/groundsim/sim"
)

var (
	MaxAttempts          = 5
	DelayBetweenAttempts = 10 * time.Second
)

// GroundEvent is one row of the ground_events table.
type GroundEvent struct {
	ID              uint   `gorm:"primaryKey"`
	Session         string `gorm:"size:36;index"`
	Kind            string `gorm:"size:32;index"`
	Passengers      int
	PassengerTarget int
	Cargo           float64
	CargoTarget     float64
	Heading         float64
	Message         string    `gorm:"size:255"`
	OccurredAt      time.Time `gorm:"index"`
	CreatedAt       time.Time
}

func (GroundEvent) TableName() string { return "ground_events" }

// Connect opens the database, retrying while the server is unreachable.
func Connect(ctx context.Context, dsn string, lg *log.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	cfg := &gorm.Config{
		Logger: logger.New(gormWriter{lg}, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var err error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		var db *gorm.DB
		if db, err = gorm.Open(mysql.Open(dsn), cfg); err == nil {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.SetMaxOpenConns(4)
				sqlDB.SetMaxIdleConns(4)
			}
			return db, nil
		}

		lg.Warnf("Attempt %d/%d to connect to database failed: %v", attempt, MaxAttempts, err)
		if attempt == MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(DelayBetweenAttempts):
		}
	}
	return nil, fmt.Errorf("database connect: %w", err)
}

// Journal drains an event stream subscription into the database.
type Journal struct {
	db  *gorm.DB
	sub *sim.EventsSubscription
	lg  *log.Logger

	boardingSession string
	pushbackSession string
}

// New migrates the schema and subscribes to the event stream.
func New(db *gorm.DB, es *sim.EventStream, lg *log.Logger) (*Journal, error) {
	if err := db.AutoMigrate(&GroundEvent{}); err != nil {
		return nil, fmt.Errorf("ground_events migration: %w", err)
	}
	return newJournal(db, es, lg), nil
}

func newJournal(db *gorm.DB, es *sim.EventStream, lg *log.Logger) *Journal {
	return &Journal{db: db, sub: es.Subscribe("journal"), lg: lg}
}

// Rows converts events to table rows, assigning sessions: a boarding
// session runs from BoardingStarted to BoardingFinished and a pushback
// session from the tug being called or attached until it detaches.
func (j *Journal) Rows(events []sim.Event) []GroundEvent {
	var rows []GroundEvent
	for _, e := range events {
		var session string
		switch e.Type {
		case sim.BoardingStartedEvent:
			j.boardingSession = uuid.New().String()
			session = j.boardingSession
		case sim.BoardingStepEvent, sim.BoardingCompleteSoundEvent:
			session = j.boardingSession
		case sim.BoardingFinishedEvent:
			session = j.boardingSession
			j.boardingSession = ""
		case sim.TugCalledEvent, sim.TugAttachedEvent:
			if j.pushbackSession == "" {
				j.pushbackSession = uuid.New().String()
			}
			session = j.pushbackSession
		case sim.PushbackPausedEvent, sim.PushbackResumedEvent:
			session = j.pushbackSession
		case sim.TugDetachedEvent:
			session = j.pushbackSession
			j.pushbackSession = ""
		}

		rows = append(rows, GroundEvent{
			Session:         session,
			Kind:            e.Type.String(),
			Passengers:      e.Passengers,
			PassengerTarget: e.PassengerTarget,
			Cargo:           e.Cargo,
			CargoTarget:     e.CargoTarget,
			Heading:         e.Heading,
			Message:         e.Message,
			OccurredAt:      e.Time,
		})
	}
	return rows
}

// Flush writes all events posted since the last flush.
func (j *Journal) Flush(ctx context.Context) error {
	rows := j.Rows(j.sub.Get())
	if len(rows) == 0 {
		return nil
	}
	if err := j.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("ground_events insert: %w", err)
	}
	j.lg.Debug("journal flushed", slog.Int("events", len(rows)))
	return nil
}

// Run flushes periodically until ctx is canceled, then flushes once more
// and unsubscribes. Write errors are logged and the failed batch is
// dropped.
func (j *Journal) Run(ctx context.Context, interval time.Duration) error {
	defer j.sub.Unsubscribe()

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			// Use a fresh context so the final batch is not canceled.
			fctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := j.Flush(fctx); err != nil {
				j.lg.Errorf("journal: %v", err)
			}
			return nil
		case <-t.C:
			if err := j.Flush(ctx); err != nil {
				j.lg.Errorf("journal: %v", err)
			}
		}
	}
}

// gormWriter routes gorm's log output to our logger.
type gormWriter struct {
	lg *log.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.lg.Warnf(format, args...)
}
