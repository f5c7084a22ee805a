package forum_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"edulegal/internal/domain"
	"edulegal/internal/mocks"
	"edulegal/internal/service/forum"
)

func newUser(role domain.Role) *domain.User {
	return &domain.User{ID: uuid.New(), Name: "Officer Okafor", Email: "okafor@example.com", Role: role}
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	author := newUser(domain.RoleLegalOfficer)

	t.Run("Anonymous post hides the author", func(t *testing.T) {
		forumRepo := new(mocks.ForumRepository)
		svc := forum.NewService(forumRepo, new(mocks.CaseRepository))

		forumRepo.On("CreatePost", ctx, mock.MatchedBy(func(p *domain.ForumPost) bool {
			return p.AuthorID == author.ID && p.Anonymous && p.Category == domain.ForumGeneral
		})).Return(nil).Once()

		post, err := svc.CreatePost(ctx, author, domain.CreatePostInput{
			Title:     "Handling retaliation claims",
			Content:   "How do we document follow-up interviews?",
			Anonymous: true,
		})

		require.NoError(t, err)
		assert.Nil(t, post.Author)
		forumRepo.AssertExpectations(t)
	})

	t.Run("Linked case must exist", func(t *testing.T) {
		forumRepo := new(mocks.ForumRepository)
		caseRepo := new(mocks.CaseRepository)
		svc := forum.NewService(forumRepo, caseRepo)
		caseID := uuid.New()

		caseRepo.On("GetByID", ctx, caseID).Return(nil, nil).Once()

		_, err := svc.CreatePost(ctx, author, domain.CreatePostInput{
			Title:   "Case 12 strategy",
			Content: "Thoughts?",
			CaseID:  &caseID,
		})

		assert.ErrorIs(t, err, forum.ErrCaseNotFound)
		forumRepo.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
	})

	t.Run("Unknown category", func(t *testing.T) {
		svc := forum.NewService(new(mocks.ForumRepository), new(mocks.CaseRepository))

		_, err := svc.CreatePost(ctx, author, domain.CreatePostInput{
			Title:    "Hello",
			Content:  "World",
			Category: "gossip",
		})

		assert.ErrorIs(t, err, forum.ErrInvalidCategory)
	})
}

func TestGetPostMasksAnonymousComments(t *testing.T) {
	ctx := context.Background()
	forumRepo := new(mocks.ForumRepository)
	svc := forum.NewService(forumRepo, new(mocks.CaseRepository))

	postID := uuid.New()
	named := &domain.UserRef{ID: uuid.New(), Name: "Admin Achieng"}
	forumRepo.On("GetPost", ctx, postID).Return(&domain.ForumPost{ID: postID, Author: named}, nil).Once()
	forumRepo.On("ListComments", ctx, postID).Return([]domain.ForumComment{
		{ID: uuid.New(), PostID: postID, Author: named},
		{ID: uuid.New(), PostID: postID, Author: named, Anonymous: true},
	}, nil).Once()

	post, err := svc.GetPost(ctx, postID)

	require.NoError(t, err)
	require.Len(t, post.Comments, 2)
	assert.Equal(t, int64(2), post.CommentCount)
	assert.NotNil(t, post.Author)
	assert.NotNil(t, post.Comments[0].Author)
	assert.Nil(t, post.Comments[1].Author)
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	author := newUser(domain.RoleLegalOfficer)
	postID := uuid.New()

	t.Run("Author deletes with comments", func(t *testing.T) {
		forumRepo := new(mocks.ForumRepository)
		svc := forum.NewService(forumRepo, new(mocks.CaseRepository))

		forumRepo.On("GetPost", ctx, postID).Return(&domain.ForumPost{ID: postID, AuthorID: author.ID}, nil).Once()
		forumRepo.On("DeleteCommentsByPost", ctx, postID).Return(nil).Once()
		forumRepo.On("DeletePost", ctx, postID).Return(nil).Once()

		require.NoError(t, svc.DeletePost(ctx, author, postID))
		forumRepo.AssertExpectations(t)
	})

	t.Run("Other officer is forbidden", func(t *testing.T) {
		forumRepo := new(mocks.ForumRepository)
		svc := forum.NewService(forumRepo, new(mocks.CaseRepository))

		forumRepo.On("GetPost", ctx, postID).Return(&domain.ForumPost{ID: postID, AuthorID: author.ID}, nil).Once()

		err := svc.DeletePost(ctx, newUser(domain.RoleLegalOfficer), postID)

		assert.ErrorIs(t, err, forum.ErrForbidden)
		forumRepo.AssertNotCalled(t, "DeletePost", mock.Anything, mock.Anything)
	})

	t.Run("Admin may delete any post", func(t *testing.T) {
		forumRepo := new(mocks.ForumRepository)
		svc := forum.NewService(forumRepo, new(mocks.CaseRepository))

		forumRepo.On("GetPost", ctx, postID).Return(&domain.ForumPost{ID: postID, AuthorID: author.ID}, nil).Once()
		forumRepo.On("DeleteCommentsByPost", ctx, postID).Return(nil).Once()
		forumRepo.On("DeletePost", ctx, postID).Return(nil).Once()

		require.NoError(t, svc.DeletePost(ctx, newUser(domain.RoleAdmin), postID))
	})

	t.Run("Missing post", func(t *testing.T) {
		forumRepo := new(mocks.ForumRepository)
		svc := forum.NewService(forumRepo, new(mocks.CaseRepository))

		forumRepo.On("GetPost", ctx, postID).Return(nil, nil).Once()

		assert.ErrorIs(t, svc.DeletePost(ctx, author, postID), domain.ErrPostNotFound)
	})
}

func TestUpdateComment(t *testing.T) {
	ctx := context.Background()
	author := newUser(domain.RoleLegalOfficer)
	commentID := uuid.New()

	forumRepo := new(mocks.ForumRepository)
	svc := forum.NewService(forumRepo, new(mocks.CaseRepository))

	forumRepo.On("GetComment", ctx, commentID).Return(&domain.ForumComment{
		ID:        commentID,
		AuthorID:  author.ID,
		Message:   "first draft",
		Anonymous: true,
		Author:    author.Ref(),
	}, nil).Once()
	forumRepo.On("UpdateComment", ctx, mock.MatchedBy(func(c *domain.ForumComment) bool {
		return c.Message == "edited"
	})).Return(nil).Once()

	comment, err := svc.UpdateComment(ctx, author, commentID, domain.UpdateCommentInput{Message: "edited"})

	require.NoError(t, err)
	assert.Equal(t, "edited", comment.Message)
	assert.Nil(t, comment.Author)
	forumRepo.AssertExpectations(t)
}

func TestListPostsClampsPagination(t *testing.T) {
	ctx := context.Background()
	forumRepo := new(mocks.ForumRepository)
	svc := forum.NewService(forumRepo, new(mocks.CaseRepository))

	forumRepo.On("ListPosts", ctx, domain.PostFilter{}, domain.PaginationParams{Page: 1, PageSize: 100}).
		Return([]domain.ForumPost{{ID: uuid.New(), Anonymous: true, Author: &domain.UserRef{Name: "x"}}}, int64(101), nil).Once()

	page, err := svc.ListPosts(ctx, domain.PostFilter{}, domain.PaginationParams{Page: 0, PageSize: 500})

	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.Nil(t, page.Data[0].Author)
}
