package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// BadgerStore implements Store on top of BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	log logrus.FieldLogger

	stopGC context.CancelFunc
	gcDone sync.WaitGroup
}

// BadgerOptions tunes a BadgerStore.
type BadgerOptions struct {
	// Path is the data directory.
	Path string
	// GCInterval is how often the value log is garbage collected.
	// Zero disables the GC loop.
	GCInterval time.Duration
}

// NewBadgerStore opens a BadgerDB at the configured path and starts the
// value-log GC loop.
func NewBadgerStore(opts BadgerOptions, logger logrus.FieldLogger) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	bopts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(bopts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", opts.Path, err)
	}
	logger.WithField("path", opts.Path).Info("BadgerDB opened successfully")

	s := &BadgerStore{
		db:     db,
		log:    logger.WithField("component", "storage"),
		stopGC: func() {},
	}

	if opts.GCInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		s.stopGC = cancel
		s.gcDone.Add(1)
		go s.runGC(ctx, opts.GCInterval)
	}

	return s, nil
}

// Get reads one document.
func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.db.IsClosed() {
		return nil, false, ErrClosed
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to read key from BadgerDB")
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites one document.
func (s *BadgerStore) Set(ctx context.Context, key string, value []byte) error {
	if s.db.IsClosed() {
		return ErrClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value))
	})
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to write key to BadgerDB")
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	s.log.WithFields(logrus.Fields{
		"key":   key,
		"bytes": len(value),
	}).Debug("Key written")
	return nil
}

// Close stops the GC loop and closes the database.
func (s *BadgerStore) Close() error {
	s.stopGC()
	s.gcDone.Wait()

	s.log.Info("Closing BadgerDB...")
	if err := s.db.Close(); err != nil {
		s.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	s.log.Info("BadgerDB closed.")
	return nil
}

// runGC periodically reclaims value-log space until ctx is cancelled.
func (s *BadgerStore) runGC(ctx context.Context, interval time.Duration) {
	defer s.gcDone.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := s.db.RunValueLogGC(0.7)
			switch {
			case err == nil:
				s.log.Info("BadgerDB GC completed")
			case errors.Is(err, badger.ErrNoRewrite):
				s.log.Debug("BadgerDB GC: no rewrite needed")
			default:
				s.log.WithError(err).Warn("BadgerDB GC failed")
			}
		case <-ctx.Done():
			s.log.Debug("Stopping BadgerDB GC loop")
			return
		}
	}
}

// --- BadgerDB Internal Logger ---

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
