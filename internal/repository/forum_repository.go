package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"edulegal/internal/domain"
)

type ForumRepository interface {
	CreatePost(ctx context.Context, post *domain.ForumPost) error
	GetPost(ctx context.Context, id uuid.UUID) (*domain.ForumPost, error)
	ListPosts(ctx context.Context, filter domain.PostFilter, params domain.PaginationParams) ([]domain.ForumPost, int64, error)
	UpdatePost(ctx context.Context, post *domain.ForumPost) error
	DeletePost(ctx context.Context, id uuid.UUID) error

	CreateComment(ctx context.Context, comment *domain.ForumComment) error
	GetComment(ctx context.Context, id uuid.UUID) (*domain.ForumComment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]domain.ForumComment, error)
	UpdateComment(ctx context.Context, comment *domain.ForumComment) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
	DeleteCommentsByPost(ctx context.Context, postID uuid.UUID) error
}

type forumRepository struct {
	db *sqlx.DB
}

func NewForumRepository(db *sqlx.DB) ForumRepository {
	return &forumRepository{db: db}
}

type postRow struct {
	domain.ForumPost
	AuthorRef refColumns `db:"author"`
}

func (row postRow) toDomain() domain.ForumPost {
	p := row.ForumPost
	p.Author = row.AuthorRef.toRef(&p.AuthorID)
	return p
}

type commentRow struct {
	domain.ForumComment
	AuthorRef refColumns `db:"author"`
}

func (row commentRow) toDomain() domain.ForumComment {
	c := row.ForumComment
	c.Author = row.AuthorRef.toRef(&c.AuthorID)
	return c
}

const postSelect = `
	SELECT p.*,
		(SELECT COUNT(*) FROM forum_comments fc WHERE fc.post_id = p.post_id) AS comment_count,
		u.name AS "author.name", u.email AS "author.email", u.role AS "author.role"
	FROM forum_posts p
	LEFT JOIN users u ON u.user_id = p.author_id`

func (r *forumRepository) CreatePost(ctx context.Context, post *domain.ForumPost) error {
	query := `
		INSERT INTO forum_posts (post_id, title, content, author_id, category, case_id, anonymous)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		post.ID, post.Title, post.Content, post.AuthorID, post.Category, post.CaseID, post.Anonymous,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
}

func (r *forumRepository) GetPost(ctx context.Context, id uuid.UUID) (*domain.ForumPost, error) {
	var row postRow
	err := r.db.GetContext(ctx, &row, postSelect+` WHERE p.post_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := row.toDomain()
	return &p, nil
}

func (r *forumRepository) ListPosts(ctx context.Context, filter domain.PostFilter, params domain.PaginationParams) ([]domain.ForumPost, int64, error) {
	params.Validate()

	var w whereBuilder
	if filter.Category != nil {
		w.add("p.category = $%d", *filter.Category)
	}
	if filter.CaseID != nil {
		w.add("p.case_id = $%d", *filter.CaseID)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM forum_posts p`+w.String(), w.args...); err != nil {
		return nil, 0, err
	}

	args := append(w.args, params.PageSize, params.Offset())
	query := postSelect + w.String() + ` ORDER BY p.created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}

	posts := make([]domain.ForumPost, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toDomain())
	}
	return posts, total, nil
}

func (r *forumRepository) UpdatePost(ctx context.Context, post *domain.ForumPost) error {
	query := `
		UPDATE forum_posts
		SET title = $2, content = $3, category = $4, anonymous = $5, updated_at = NOW()
		WHERE post_id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		post.ID, post.Title, post.Content, post.Category, post.Anonymous,
	).Scan(&post.UpdatedAt)
}

func (r *forumRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM forum_posts WHERE post_id = $1`, id)
	return err
}

func (r *forumRepository) CreateComment(ctx context.Context, comment *domain.ForumComment) error {
	query := `
		INSERT INTO forum_comments (comment_id, post_id, author_id, message, anonymous)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		comment.ID, comment.PostID, comment.AuthorID, comment.Message, comment.Anonymous,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
}

func (r *forumRepository) GetComment(ctx context.Context, id uuid.UUID) (*domain.ForumComment, error) {
	query := `
		SELECT c.*,
			u.name AS "author.name", u.email AS "author.email", u.role AS "author.role"
		FROM forum_comments c
		LEFT JOIN users u ON u.user_id = c.author_id
		WHERE c.comment_id = $1`

	var row commentRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := row.toDomain()
	return &c, nil
}

func (r *forumRepository) ListComments(ctx context.Context, postID uuid.UUID) ([]domain.ForumComment, error) {
	query := `
		SELECT c.*,
			u.name AS "author.name", u.email AS "author.email", u.role AS "author.role"
		FROM forum_comments c
		LEFT JOIN users u ON u.user_id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC`

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, err
	}

	comments := make([]domain.ForumComment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.toDomain())
	}
	return comments, nil
}

func (r *forumRepository) UpdateComment(ctx context.Context, comment *domain.ForumComment) error {
	query := `
		UPDATE forum_comments
		SET message = $2, updated_at = NOW()
		WHERE comment_id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query, comment.ID, comment.Message).Scan(&comment.UpdatedAt)
}

func (r *forumRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM forum_comments WHERE comment_id = $1`, id)
	return err
}

func (r *forumRepository) DeleteCommentsByPost(ctx context.Context, postID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM forum_comments WHERE post_id = $1`, postID)
	return err
}
