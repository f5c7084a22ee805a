package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"edulegal/internal/domain"
)

type ForumRepository struct {
	mock.Mock
}

func (m *ForumRepository) CreatePost(ctx context.Context, post *domain.ForumPost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *ForumRepository) GetPost(ctx context.Context, id uuid.UUID) (*domain.ForumPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ForumPost), args.Error(1)
}

func (m *ForumRepository) ListPosts(ctx context.Context, filter domain.PostFilter, params domain.PaginationParams) ([]domain.ForumPost, int64, error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).([]domain.ForumPost), args.Get(1).(int64), args.Error(2)
}

func (m *ForumRepository) UpdatePost(ctx context.Context, post *domain.ForumPost) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *ForumRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ForumRepository) CreateComment(ctx context.Context, comment *domain.ForumComment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *ForumRepository) GetComment(ctx context.Context, id uuid.UUID) (*domain.ForumComment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ForumComment), args.Error(1)
}

func (m *ForumRepository) ListComments(ctx context.Context, postID uuid.UUID) ([]domain.ForumComment, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]domain.ForumComment), args.Error(1)
}

func (m *ForumRepository) UpdateComment(ctx context.Context, comment *domain.ForumComment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *ForumRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ForumRepository) DeleteCommentsByPost(ctx context.Context, postID uuid.UUID) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}
