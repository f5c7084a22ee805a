package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"edulegal/internal/domain"
)

type NoteRepository struct {
	mock.Mock
}

func (m *NoteRepository) Create(ctx context.Context, note *domain.CaseNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CaseNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CaseNote), args.Error(1)
}

func (m *NoteRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.CaseNote, error) {
	args := m.Called(ctx, caseID)
	return args.Get(0).([]domain.CaseNote), args.Error(1)
}

func (m *NoteRepository) Update(ctx context.Context, note *domain.CaseNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NoteRepository) DeleteByCase(ctx context.Context, caseID uuid.UUID) error {
	args := m.Called(ctx, caseID)
	return args.Error(0)
}

type DocumentRepository struct {
	mock.Mock
}

func (m *DocumentRepository) Create(ctx context.Context, doc *domain.CaseDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CaseDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CaseDocument), args.Error(1)
}

func (m *DocumentRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.CaseDocument, error) {
	args := m.Called(ctx, caseID)
	return args.Get(0).([]domain.CaseDocument), args.Error(1)
}

func (m *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *DocumentRepository) DeleteByCase(ctx context.Context, caseID uuid.UUID) error {
	args := m.Called(ctx, caseID)
	return args.Error(0)
}

type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Create(ctx context.Context, activity *domain.CaseActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *ActivityRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.CaseActivity, error) {
	args := m.Called(ctx, caseID)
	return args.Get(0).([]domain.CaseActivity), args.Error(1)
}

func (m *ActivityRepository) DeleteByCase(ctx context.Context, caseID uuid.UUID) error {
	args := m.Called(ctx, caseID)
	return args.Error(0)
}
