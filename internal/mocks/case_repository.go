package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"edulegal/internal/domain"
)

type CaseRepository struct {
	mock.Mock
}

func (m *CaseRepository) Create(ctx context.Context, c *domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *CaseRepository) List(ctx context.Context, filter domain.CaseFilter) ([]domain.Case, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

func (m *CaseRepository) Update(ctx context.Context, c *domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CaseRepository) Stats(ctx context.Context) (*domain.CaseStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CaseStats), args.Error(1)
}

type ComplaintRepository struct {
	mock.Mock
}

func (m *ComplaintRepository) Create(ctx context.Context, c *domain.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Complaint), args.Error(1)
}

func (m *ComplaintRepository) List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Complaint), args.Error(1)
}

func (m *ComplaintRepository) Update(ctx context.Context, c *domain.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ComplaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
