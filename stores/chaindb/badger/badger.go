package badger

import (
	"context"
	"net/http"
	"os"

	badgerdb "github.com/dgraph-io/badger/v3"

	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/ulogger"
)

type Store struct {
	db     *badgerdb.DB
	path   string
	logger ulogger.Logger
}

func New(logger ulogger.Logger, path string) (*Store, error) {
	logger.Infof("[Badger] opening %s", path)

	opts := badgerdb.DefaultOptions(path)
	opts.Logger = badgerLogger{logger}

	db, err := badgerdb.Open(opts)
	if err != nil {
		if os.IsPermission(err) || os.IsNotExist(err) {
			return nil, errors.NewStorageIOError("cannot open badger at %s", path, err)
		}

		return nil, errors.NewStorageUnusableError("cannot open badger at %s", path, err)
	}

	return &Store{
		db:     db,
		path:   path,
		logger: logger,
	}, nil
}

func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte

	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)

		return err
	})
	if err != nil {
		if err == badgerdb.ErrKeyNotFound {
			return nil, errors.NewNotFoundError("key not found", err)
		}

		return nil, errors.NewStorageError("get failed", err)
	}

	return value, nil
}

func (s *Store) Set(key, value []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return errors.NewStorageError("set failed", err)
	}

	return nil
}

func (s *Store) Has(key []byte) (bool, error) {
	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	switch {
	case err == nil:
		return true, nil
	case err == badgerdb.ErrKeyNotFound:
		return false, nil
	}

	return false, errors.NewStorageError("has failed", err)
}

func (s *Store) Delete(key []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return errors.NewStorageError("delete failed", err)
	}

	return nil
}

func (s *Store) Close() error {
	s.logger.Infof("[Badger] closing %s", s.path)

	if err := s.db.Close(); err != nil {
		return errors.NewStorageError("close failed", err)
	}

	return nil
}

func (s *Store) Destroy() error {
	s.logger.Warnf("[Badger] destroying all data at %s", s.path)

	if err := os.RemoveAll(s.path); err != nil {
		return errors.NewStorageIOError("cannot remove %s", s.path, err)
	}

	return nil
}

func (s *Store) Health(_ context.Context) (int, string, error) {
	if s.db.IsClosed() {
		return http.StatusServiceUnavailable, "badger closed", errors.NewStorageError("badger closed")
	}

	return http.StatusOK, "OK", nil
}

// badgerLogger adapts ulogger to badger's logger interface.
type badgerLogger struct {
	l ulogger.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{})   { b.l.Errorf(format, args...) }
func (b badgerLogger) Warningf(format string, args ...interface{}) { b.l.Warnf(format, args...) }
func (b badgerLogger) Infof(format string, args ...interface{})    { b.l.Debugf(format, args...) }
func (b badgerLogger) Debugf(format string, args ...interface{})   { b.l.Debugf(format, args...) }
