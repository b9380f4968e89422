package leveldb

import (
	"context"
	"net/http"
	"os"

	ldb "github.com/btcsuite/goleveldb/leveldb"
	ldberrors "github.com/btcsuite/goleveldb/leveldb/errors"

	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/ulogger"
)

type Store struct {
	db     *ldb.DB
	path   string
	logger ulogger.Logger
}

func New(logger ulogger.Logger, path string) (*Store, error) {
	logger.Infof("[LevelDB] opening %s", path)

	db, err := ldb.OpenFile(path, nil)
	if err != nil {
		switch {
		case ldberrors.IsCorrupted(err):
			return nil, errors.NewStorageUnusableError("leveldb at %s is corrupted", path, err)
		case os.IsPermission(err), os.IsNotExist(err):
			return nil, errors.NewStorageIOError("cannot open leveldb at %s", path, err)
		}

		return nil, errors.NewStorageError("cannot open leveldb at %s", path, err)
	}

	return &Store{
		db:     db,
		path:   path,
		logger: logger,
	}, nil
}

func (s *Store) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if err != nil {
		if err == ldb.ErrNotFound {
			return nil, errors.NewNotFoundError("key not found", err)
		}

		return nil, errors.NewStorageError("get failed", err)
	}

	return value, nil
}

func (s *Store) Set(key, value []byte) error {
	if err := s.db.Put(key, value, nil); err != nil {
		return errors.NewStorageError("put failed", err)
	}

	return nil
}

func (s *Store) Has(key []byte) (bool, error) {
	found, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.NewStorageError("has failed", err)
	}

	return found, nil
}

func (s *Store) Delete(key []byte) error {
	if err := s.db.Delete(key, nil); err != nil {
		return errors.NewStorageError("delete failed", err)
	}

	return nil
}

func (s *Store) Close() error {
	s.logger.Infof("[LevelDB] closing %s", s.path)

	if err := s.db.Close(); err != nil {
		return errors.NewStorageError("close failed", err)
	}

	return nil
}

func (s *Store) Destroy() error {
	s.logger.Warnf("[LevelDB] destroying all data at %s", s.path)

	if err := os.RemoveAll(s.path); err != nil {
		return errors.NewStorageIOError("cannot remove %s", s.path, err)
	}

	return nil
}

func (s *Store) Health(_ context.Context) (int, string, error) {
	if _, err := s.db.GetProperty("leveldb.stats"); err != nil {
		return http.StatusServiceUnavailable, "leveldb unavailable", err
	}

	return http.StatusOK, "OK", nil
}
