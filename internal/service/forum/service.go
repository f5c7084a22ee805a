package forum

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"edulegal/internal/domain"
	"edulegal/internal/pkg/validate"
	"edulegal/internal/repository"
)

var (
	ErrForbidden       = errors.New("only the author or an admin can modify this entry")
	ErrInvalidCategory = errors.New("category must be one of: general, legal_advice, case_discussion, announcement")
	ErrCaseNotFound    = errors.New("linked case not found")
)

type Service interface {
	ListPosts(ctx context.Context, filter domain.PostFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.ForumPost], error)
	GetPost(ctx context.Context, id uuid.UUID) (*domain.ForumPost, error)
	CreatePost(ctx context.Context, actor *domain.User, input domain.CreatePostInput) (*domain.ForumPost, error)
	UpdatePost(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdatePostInput) (*domain.ForumPost, error)
	DeletePost(ctx context.Context, actor *domain.User, id uuid.UUID) error

	AddComment(ctx context.Context, actor *domain.User, postID uuid.UUID, input domain.CreateCommentInput) (*domain.ForumComment, error)
	UpdateComment(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateCommentInput) (*domain.ForumComment, error)
	DeleteComment(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

type service struct {
	forumRepo repository.ForumRepository
	caseRepo  repository.CaseRepository
}

func NewService(forumRepo repository.ForumRepository, caseRepo repository.CaseRepository) Service {
	return &service{
		forumRepo: forumRepo,
		caseRepo:  caseRepo,
	}
}

func (s *service) ListPosts(ctx context.Context, filter domain.PostFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.ForumPost], error) {
	if filter.Category != nil && !filter.Category.IsValid() {
		return domain.PaginatedResponse[domain.ForumPost]{}, ErrInvalidCategory
	}
	params.Validate()

	posts, total, err := s.forumRepo.ListPosts(ctx, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.ForumPost]{}, goerr.Wrap(err, "failed to list posts")
	}
	for i := range posts {
		maskPost(&posts[i])
	}

	return domain.NewPaginatedResponse(posts, params.Page, params.PageSize, total), nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*domain.ForumPost, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.forumRepo.ListComments(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list comments", goerr.V("post_id", id))
	}
	for i := range comments {
		maskComment(&comments[i])
	}
	post.Comments = comments
	post.CommentCount = int64(len(comments))

	maskPost(post)
	return post, nil
}

func (s *service) CreatePost(ctx context.Context, actor *domain.User, input domain.CreatePostInput) (*domain.ForumPost, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	category := domain.ForumGeneral
	if input.Category != "" {
		if !input.Category.IsValid() {
			return nil, ErrInvalidCategory
		}
		category = input.Category
	}

	if input.CaseID != nil {
		c, err := s.caseRepo.GetByID(ctx, *input.CaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load linked case", goerr.V("case_id", *input.CaseID))
		}
		if c == nil {
			return nil, ErrCaseNotFound
		}
	}

	post := &domain.ForumPost{
		ID:        uuid.New(),
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  actor.ID,
		Category:  category,
		CaseID:    input.CaseID,
		Anonymous: input.Anonymous,
		Author:    actor.Ref(),
		Comments:  []domain.ForumComment{},
	}

	if err := s.forumRepo.CreatePost(ctx, post); err != nil {
		return nil, goerr.Wrap(err, "failed to create post")
	}

	maskPost(post)
	return post, nil
}

func (s *service) UpdatePost(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdatePostInput) (*domain.ForumPost, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.Category != nil && !input.Category.IsValid() {
		return nil, ErrInvalidCategory
	}

	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, post.AuthorID) {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Category != nil {
		post.Category = *input.Category
	}
	if input.Anonymous != nil {
		post.Anonymous = *input.Anonymous
	}

	if err := s.forumRepo.UpdatePost(ctx, post); err != nil {
		return nil, goerr.Wrap(err, "failed to update post", goerr.V("post_id", id))
	}

	maskPost(post)
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, post.AuthorID) {
		return ErrForbidden
	}

	if err := s.forumRepo.DeleteCommentsByPost(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete post comments", goerr.V("post_id", id))
	}
	if err := s.forumRepo.DeletePost(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete post", goerr.V("post_id", id))
	}
	return nil
}

func (s *service) AddComment(ctx context.Context, actor *domain.User, postID uuid.UUID, input domain.CreateCommentInput) (*domain.ForumComment, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.ForumComment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  actor.ID,
		Message:   input.Message,
		Anonymous: input.Anonymous,
		Author:    actor.Ref(),
	}

	if err := s.forumRepo.CreateComment(ctx, comment); err != nil {
		return nil, goerr.Wrap(err, "failed to create comment", goerr.V("post_id", postID))
	}

	maskComment(comment)
	return comment, nil
}

func (s *service) UpdateComment(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateCommentInput) (*domain.ForumComment, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	comment, err := s.loadComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, comment.AuthorID) {
		return nil, ErrForbidden
	}

	comment.Message = input.Message
	if err := s.forumRepo.UpdateComment(ctx, comment); err != nil {
		return nil, goerr.Wrap(err, "failed to update comment", goerr.V("comment_id", id))
	}

	maskComment(comment)
	return comment, nil
}

func (s *service) DeleteComment(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	comment, err := s.loadComment(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, comment.AuthorID) {
		return ErrForbidden
	}

	if err := s.forumRepo.DeleteComment(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete comment", goerr.V("comment_id", id))
	}
	return nil
}

func (s *service) loadPost(ctx context.Context, id uuid.UUID) (*domain.ForumPost, error) {
	post, err := s.forumRepo.GetPost(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load post", goerr.V("post_id", id))
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (s *service) loadComment(ctx context.Context, id uuid.UUID) (*domain.ForumComment, error) {
	comment, err := s.forumRepo.GetComment(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load comment", goerr.V("comment_id", id))
	}
	if comment == nil {
		return nil, domain.ErrCommentNotFound
	}
	return comment, nil
}

func canModify(actor *domain.User, authorID uuid.UUID) bool {
	return actor != nil && (actor.ID == authorID || actor.Role == domain.RoleAdmin)
}

func maskPost(p *domain.ForumPost) {
	if p.Anonymous {
		p.Author = nil
	}
}

func maskComment(c *domain.ForumComment) {
	if c.Anonymous {
		c.Author = nil
	}
}
