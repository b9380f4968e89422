package p2p

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/karbo-project/walletnode/model"
)

// Mock implements a mock version of the ServerI interface for testing.
type Mock struct {
	mock.Mock
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Init(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Mock) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Mock) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Mock) BlockTopicName() string {
	args := m.Called()
	return args.String(0)
}

func (m *Mock) TxTopicName() string {
	args := m.Called()
	return args.String(0)
}

func (m *Mock) SetTopicHandler(ctx context.Context, topicName string, handler Handler) error {
	args := m.Called(ctx, topicName, handler)
	return args.Error(0)
}

func (m *Mock) Publish(ctx context.Context, topicName string, msgBytes []byte) error {
	args := m.Called(ctx, topicName, msgBytes)
	return args.Error(0)
}

func (m *Mock) ConnectionCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *Mock) OutgoingConnectionCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *Mock) WhitePeerlistSize() int {
	args := m.Called()
	return args.Int(0)
}

func (m *Mock) GreyPeerlistSize() int {
	args := m.Called()
	return args.Int(0)
}

func (m *Mock) Connections() []model.ConnectionRecord {
	args := m.Called()

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).([]model.ConnectionRecord)
}

func (m *Mock) SetPeerCountCallback(fn func(count int)) {
	m.Called(fn)
}
