package chaindb

import (
	"github.com/karbo-project/walletnode/errors"
	badgerstore "github.com/karbo-project/walletnode/stores/chaindb/badger"
	leveldbstore "github.com/karbo-project/walletnode/stores/chaindb/leveldb"
	"github.com/karbo-project/walletnode/ulogger"
)

func NewStore(logger ulogger.Logger, engine, path string) (Store, error) {
	switch engine {
	case "leveldb":
		return leveldbstore.New(logger, path)
	case "badger":
		return badgerstore.New(logger, path)
	}

	return nil, errors.NewConfigurationError("unknown chaindb engine: %s", engine)
}
