package rpc

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Mock implements a mock version of the ClientI interface for testing.
type Mock struct {
	mock.Mock
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetBlockTemplate(ctx context.Context, req *GetBlockTemplateRequest) (*GetBlockTemplateResponse, error) {
	args := m.Called(ctx, req)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*GetBlockTemplateResponse), args.Error(1)
}

func (m *Mock) SubmitBlock(ctx context.Context, blockBlobHex string) (*StatusResponse, error) {
	args := m.Called(ctx, blockBlobHex)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*StatusResponse), args.Error(1)
}

func (m *Mock) GetInfo(ctx context.Context) (*GetInfoResponse, error) {
	args := m.Called(ctx)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*GetInfoResponse), args.Error(1)
}

func (m *Mock) GetConnections(ctx context.Context) (*GetConnectionsResponse, error) {
	args := m.Called(ctx)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*GetConnectionsResponse), args.Error(1)
}
