package node

import (
	"context"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/mock"

	"github.com/karbo-project/walletnode/model"
)

// MockCore implements the Core interface for testing.
type MockCore struct {
	mock.Mock
}

func NewMockCore() *MockCore {
	return &MockCore{}
}

func (m *MockCore) Load(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCore) Save(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCore) Rewind(ctx context.Context, height uint32) error {
	args := m.Called(ctx, height)
	return args.Error(0)
}

func (m *MockCore) SetLocalBlockchainUpdatedCallback(fn func(height uint32)) {
	m.Called(fn)
}

func (m *MockCore) SetLastKnownBlockHeightUpdatedCallback(fn func(height uint32)) {
	m.Called(fn)
}

func (m *MockCore) Height() uint32 {
	args := m.Called()
	return args.Get(0).(uint32)
}

func (m *MockCore) TopBlockHeaderInfo() model.BlockHeaderInfo {
	args := m.Called()
	return args.Get(0).(model.BlockHeaderInfo)
}

func (m *MockCore) ChainTransactionCount() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockCore) PoolTransactionCount() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockCore) AlternativeBlockCount() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockCore) NextBlockDifficulty() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockCore) MinimalFee() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockCore) AlreadyGeneratedCoins() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockCore) NextBlockReward() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockCore) CurrentBlockMajorVersion() uint8 {
	args := m.Called()
	return args.Get(0).(uint8)
}

func (m *MockCore) HandleIncomingBlock(ctx context.Context, blockBlob []byte) (uint32, error) {
	args := m.Called(ctx, blockBlob)

	if args.Error(1) != nil {
		return 0, args.Error(1)
	}

	return args.Get(0).(uint32), args.Error(1)
}

func (m *MockCore) GetBlockTemplate(ctx context.Context, req *model.BlockTemplateRequest) (*model.BlockTemplate, error) {
	args := m.Called(ctx, req)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*model.BlockTemplate), args.Error(1)
}

func (m *MockCore) HandleBlockFound(ctx context.Context, tmpl *model.BlockTemplate) error {
	args := m.Called(ctx, tmpl)
	return args.Error(0)
}

func (m *MockCore) BlockLongHash(ctx context.Context, blockBlob []byte) (*chainhash.Hash, error) {
	args := m.Called(ctx, blockBlob)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*chainhash.Hash), args.Error(1)
}

// MockObserver records events delivered by a node for inspection in tests.
type MockObserver struct {
	mu sync.Mutex

	PeerCounts   []int
	LocalHeights []uint32
	KnownHeights []uint32
	Connectivity []bool
}

func NewMockObserver() *MockObserver {
	return &MockObserver{}
}

func (o *MockObserver) PeerCountUpdated(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.PeerCounts = append(o.PeerCounts, count)
}

func (o *MockObserver) LocalBlockchainUpdated(height uint32) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.LocalHeights = append(o.LocalHeights, height)
}

func (o *MockObserver) LastKnownBlockHeightUpdated(height uint32) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.KnownHeights = append(o.KnownHeights, height)
}

func (o *MockObserver) ConnectionStatusUpdated(connected bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.Connectivity = append(o.Connectivity, connected)
}

// Snapshot returns copies of the recorded event slices.
func (o *MockObserver) Snapshot() (peerCounts []int, localHeights, knownHeights []uint32, connectivity []bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]int(nil), o.PeerCounts...),
		append([]uint32(nil), o.LocalHeights...),
		append([]uint32(nil), o.KnownHeights...),
		append([]bool(nil), o.Connectivity...)
}
