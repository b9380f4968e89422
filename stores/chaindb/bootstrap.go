package chaindb

import (
	"os"
	"strconv"

	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/settings"
	"github.com/karbo-project/walletnode/ulogger"
)

// CurrentSchemaVersion is persisted in the store and checked on every
// startup. Stores written with a different version are reset.
const CurrentSchemaVersion = 3

var schemaVersionKey = []byte("schema_version")

// Bootstrap prepares the data directory, opens the configured engine and
// verifies the schema marker, resetting the store when the on-disk schema is
// incompatible. The returned handle is owned by the caller.
func Bootstrap(logger ulogger.Logger, tSettings *settings.Settings) (Store, error) {
	cfg := tSettings.ChainDB

	if cfg.UseDefaultDataDir {
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, errors.NewStorageIOError("cannot create data directory %s", cfg.DataDir, err)
		}
	} else {
		info, err := os.Stat(cfg.DataDir)
		if err != nil || !info.IsDir() {
			return nil, errors.NewConfigurationError("data directory does not exist: %s", cfg.DataDir)
		}
	}

	store, err := NewStore(logger, cfg.Engine, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	store, err = checkSchemaVersion(logger, store, cfg)
	if err != nil {
		return nil, err
	}

	return store, nil
}

// checkSchemaVersion reads the persisted marker and performs the
// destroy-and-reinit cycle on mismatch. Chain history is discarded on reset;
// the embedded node resynchronises from the network afterwards.
func checkSchemaVersion(logger ulogger.Logger, store Store, cfg settings.ChainDBSettings) (Store, error) {
	raw, err := store.Get(schemaVersionKey)

	switch {
	case err == nil:
		version, parseErr := strconv.Atoi(string(raw))
		if parseErr == nil && version == CurrentSchemaVersion {
			return store, nil
		}

		logger.Warnf("[ChainDB] schema version %q does not match %d, resetting store", raw, CurrentSchemaVersion)

	case errors.Is(err, errors.ErrNotFound):
		// fresh store, stamp it
		if err = store.Set(schemaVersionKey, []byte(strconv.Itoa(CurrentSchemaVersion))); err != nil {
			_ = store.Close()
			return nil, err
		}

		return store, nil

	default:
		_ = store.Close()
		return nil, errors.NewStorageError("cannot read schema version", err)
	}

	if err = store.Close(); err != nil {
		return nil, err
	}

	if err = store.Destroy(); err != nil {
		return nil, err
	}

	if err = os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, errors.NewStorageIOError("cannot recreate data directory %s", cfg.DataDir, err)
	}

	store, err = NewStore(logger, cfg.Engine, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	if err = store.Set(schemaVersionKey, []byte(strconv.Itoa(CurrentSchemaVersion))); err != nil {
		_ = store.Close()
		return nil, err
	}

	return store, nil
}
