package mocks

import (
	"context"

	"archiv/internal/model"
	"archiv/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentService) Open(ctx context.Context, filename string) (*service.OpenedDocument, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OpenedDocument), args.Error(1)
}

func (m *MockDocumentService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
