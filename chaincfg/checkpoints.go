package chaincfg

import (
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/karbo-project/walletnode/errors"
	"github.com/karbo-project/walletnode/ulogger"
)

// CheckpointSet is an ordered height to block-hash mapping consulted by the
// embedded core's validation path. It is populated once by LoadCheckpoints
// and must not be mutated afterwards; reads are safe from any goroutine.
type CheckpointSet struct {
	checkpoints map[uint32]chainhash.Hash
	heights     []uint32 // sorted ascending
	allowReorg  bool
}

// CheckpointOptions selects one of the mutually exclusive load modes.
type CheckpointOptions struct {
	Disabled   bool
	Testnet    bool
	AllowReorg bool
}

func NewCheckpointSet(allowReorg bool) *CheckpointSet {
	return &CheckpointSet{
		checkpoints: make(map[uint32]chainhash.Hash),
		allowReorg:  allowReorg,
	}
}

// AddCheckpoint registers a pin. It is meant to be called at load time only;
// a conflicting pin for an already-registered height is rejected.
func (c *CheckpointSet) AddCheckpoint(height uint32, hash *chainhash.Hash) error {
	if hash == nil {
		return errors.NewInvalidArgumentError("checkpoint at height %d has no hash", height)
	}

	if existing, ok := c.checkpoints[height]; ok {
		if !existing.IsEqual(hash) {
			return errors.NewInvalidArgumentError("conflicting checkpoint for height %d", height)
		}

		return nil
	}

	c.checkpoints[height] = *hash

	i := sort.Search(len(c.heights), func(i int) bool { return c.heights[i] >= height })
	c.heights = append(c.heights, 0)
	copy(c.heights[i+1:], c.heights[i:])
	c.heights[i] = height

	return nil
}

func (c *CheckpointSet) Len() int {
	return len(c.heights)
}

// IsInCheckpointZone reports whether height is at or below the newest pin.
func (c *CheckpointSet) IsInCheckpointZone(height uint32) bool {
	if len(c.heights) == 0 {
		return false
	}

	return height <= c.heights[len(c.heights)-1]
}

// Check verifies a block hash against the pin for its height. Heights
// without a pin always pass.
func (c *CheckpointSet) Check(height uint32, hash *chainhash.Hash) bool {
	expected, ok := c.checkpoints[height]
	if !ok {
		return true
	}

	return expected.IsEqual(hash)
}

// IsAlternativeBlockAllowed reports whether an alternative block at
// altHeight may be considered while the chain tip is at tipHeight. With
// reorg allowed every depth passes; otherwise alternatives at or below the
// newest pin not above the current tip are rejected.
func (c *CheckpointSet) IsAlternativeBlockAllowed(tipHeight, altHeight uint32) bool {
	if altHeight == 0 {
		return false
	}

	if c.allowReorg {
		return true
	}

	pin := uint32(0)
	for _, h := range c.heights {
		if h > tipHeight {
			break
		}
		pin = h
	}

	return altHeight > pin
}

// LoadCheckpoints assembles the checkpoint set for the embedded node. Modes:
// disabled and testnet produce an empty set; otherwise the builtin list is
// loaded and a best-effort DNS lookup may add newer pins on top.
func LoadCheckpoints(logger ulogger.Logger, params *Params, opts CheckpointOptions) (*CheckpointSet, error) {
	set := NewCheckpointSet(opts.AllowReorg)

	if opts.AllowReorg {
		logger.Warnf("deep reorganization is allowed")
	}

	switch {
	case opts.Disabled:
		logger.Infof("loading without checkpoints")
		return set, nil
	case opts.Testnet:
		logger.Infof("running in testnet mode, no checkpoints")
		return set, nil
	}

	for _, checkpoint := range params.Checkpoints {
		if err := set.AddCheckpoint(checkpoint.Height, checkpoint.Hash); err != nil {
			return nil, err
		}
	}

	loadCheckpointsFromDNS(logger, params, set)

	logger.Infof("loaded %d checkpoints", set.Len())

	return set, nil
}

// loadCheckpointsFromDNS augments the set with TXT records of the form
// "height:hash". Failure to resolve or malformed records are non-fatal.
func loadCheckpointsFromDNS(logger ulogger.Logger, params *Params, set *CheckpointSet) {
	if params.CheckpointDNSSeed == "" {
		return
	}

	records, err := net.LookupTXT(params.CheckpointDNSSeed)
	if err != nil {
		logger.Warnf("checkpoint DNS lookup failed for %s: %v", params.CheckpointDNSSeed, err)
		return
	}

	added := 0

	for _, record := range records {
		height, hash, err := parseCheckpointRecord(record)
		if err != nil {
			logger.Warnf("skipping checkpoint record %q: %v", record, err)
			continue
		}

		if err = set.AddCheckpoint(height, hash); err != nil {
			logger.Warnf("skipping checkpoint record %q: %v", record, err)
			continue
		}

		added++
	}

	if added > 0 {
		logger.Infof("added %d checkpoints from DNS", added)
	}
}

func parseCheckpointRecord(record string) (uint32, *chainhash.Hash, error) {
	heightStr, hashStr, found := strings.Cut(record, ":")
	if !found {
		return 0, nil, errors.NewInvalidArgumentError("expected height:hash")
	}

	height, err := strconv.ParseUint(heightStr, 10, 32)
	if err != nil {
		return 0, nil, errors.NewInvalidArgumentError("bad height %q", heightStr, err)
	}

	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		return 0, nil, errors.NewInvalidArgumentError("bad hash %q", hashStr, err)
	}

	return uint32(height), hash, nil
}
