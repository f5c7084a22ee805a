package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

type ForumCategory string

const (
	ForumGeneral        ForumCategory = "general"
	ForumLegalAdvice    ForumCategory = "legal_advice"
	ForumCaseDiscussion ForumCategory = "case_discussion"
	ForumAnnouncement   ForumCategory = "announcement"
)

func (c ForumCategory) IsValid() bool {
	switch c {
	case ForumGeneral, ForumLegalAdvice, ForumCaseDiscussion, ForumAnnouncement:
		return true
	default:
		return false
	}
}

type ForumPost struct {
	ID        uuid.UUID     `json:"id" db:"post_id"`
	Title     string        `json:"title" db:"title"`
	Content   string        `json:"content" db:"content"`
	AuthorID  uuid.UUID     `json:"-" db:"author_id"`
	Category  ForumCategory `json:"category" db:"category"`
	CaseID    *uuid.UUID    `json:"caseId" db:"case_id"`
	Anonymous bool          `json:"anonymous" db:"anonymous"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`

	Author       *UserRef       `json:"author" db:"-"`
	CommentCount int64          `json:"commentCount" db:"comment_count"`
	Comments     []ForumComment `json:"comments,omitempty" db:"-"`
}

type ForumComment struct {
	ID        uuid.UUID `json:"id" db:"comment_id"`
	PostID    uuid.UUID `json:"post" db:"post_id"`
	AuthorID  uuid.UUID `json:"-" db:"author_id"`
	Message   string    `json:"message" db:"message"`
	Anonymous bool      `json:"anonymous" db:"anonymous"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Author *UserRef `json:"author" db:"-"`
}

type CreatePostInput struct {
	Title     string        `json:"title" validate:"required,max=200"`
	Content   string        `json:"content" validate:"required,max=20000"`
	Category  ForumCategory `json:"category"`
	CaseID    *uuid.UUID    `json:"caseId"`
	Anonymous bool          `json:"anonymous"`
}

type UpdatePostInput struct {
	Title     *string        `json:"title" validate:"omitempty,min=1,max=200"`
	Content   *string        `json:"content" validate:"omitempty,min=1,max=20000"`
	Category  *ForumCategory `json:"category"`
	Anonymous *bool          `json:"anonymous"`
}

type CreateCommentInput struct {
	Message   string `json:"message" validate:"required,min=1,max=5000"`
	Anonymous bool   `json:"anonymous"`
}

type UpdateCommentInput struct {
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

type PostFilter struct {
	Category *ForumCategory
	CaseID   *uuid.UUID
}
