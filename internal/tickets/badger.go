package tickets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/filex"
	"github.com/campusdesk/campusdesk/internal/logging"
	"github.com/dgraph-io/badger/v3"
)

const (
	keyPrefix     = "ticket:"
	gcInterval    = 10 * time.Minute
	gcDiscardRate = 0.5
)

// BadgerStore keeps tickets in a Badger database, one JSON value per
// "ticket:<id>" key.
type BadgerStore struct {
	db     *badger.DB
	logger logging.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// OpenBadgerStore opens (creating if needed) the database in dir and starts
// value log garbage collection.
func OpenBadgerStore(dir string, l logging.Logger) (*BadgerStore, error) {
	path, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("badger: %w", err)
	}

	logger := l.With("module", "ticket_store")

	opts := badger.DefaultOptions(path)
	opts.Logger = &badgerLogger{logger: logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go s.gcLoop()

	logger.Info(context.Background(), "badger ticket store opened", "dir", path)
	return s, nil
}

func ticketKey(id string) []byte {
	return []byte(keyPrefix + id)
}

func (s *BadgerStore) Create(_ context.Context, t *Ticket) error {
	value, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode ticket: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(ticketKey(t.ID), value)
	})
}

func (s *BadgerStore) Get(_ context.Context, id string) (*Ticket, error) {
	var t *Ticket
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		t, err = getTicket(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns every ticket ordered by creation time.
func (s *BadgerStore) List(_ context.Context) ([]*Ticket, error) {
	out := []*Ticket{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var t Ticket
			if err := json.Unmarshal(value, &t); err != nil {
				return fmt.Errorf("decode ticket %s: %w", it.Item().Key(), err)
			}
			out = append(out, &t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *BadgerStore) UpdateStatus(_ context.Context, id, status string) (*Ticket, error) {
	var t *Ticket
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		t, err = getTicket(txn, id)
		if err != nil {
			return err
		}
		t.Status = status

		value, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode ticket: %w", err)
		}
		return txn.Set(ticketKey(id), value)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Close stops garbage collection and closes the database.
func (s *BadgerStore) Close() error {
	close(s.stopCh)
	<-s.doneCh

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

func getTicket(txn *badger.Txn, id string) (*Ticket, error) {
	item, err := txn.Get(ticketKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}

	var t Ticket
	if err := json.Unmarshal(value, &t); err != nil {
		return nil, fmt.Errorf("decode ticket %s: %w", id, err)
	}
	return &t, nil
}

func (s *BadgerStore) gcLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for {
				if err := s.db.RunValueLogGC(gcDiscardRate); err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						s.logger.Error(context.Background(), "value log gc failed", "error", err)
					}
					break
				}
			}
		case <-s.stopCh:
			return
		}
	}
}

// badgerLogger adapts logging.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger logging.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(context.Background(), fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(context.Background(), fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(context.Background(), fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(context.Background(), fmt.Sprintf(format, args...))
}
