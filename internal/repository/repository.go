package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"edulegal/internal/domain"
)

type Repositories struct {
	User         UserRepository
	Case         CaseRepository
	Complaint    ComplaintRepository
	Note         NoteRepository
	Document     DocumentRepository
	Activity     ActivityRepository
	Notification NotificationRepository
	Forum        ForumRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Case:         NewCaseRepository(db),
		Complaint:    NewComplaintRepository(db),
		Note:         NewNoteRepository(db),
		Document:     NewDocumentRepository(db),
		Activity:     NewActivityRepository(db),
		Notification: NewNotificationRepository(db),
		Forum:        NewForumRepository(db),
	}
}

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err comes from a Postgres unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// refColumns scans a joined user aliased as "<prefix>.name", "<prefix>.email"
// and "<prefix>.role".
type refColumns struct {
	Name  sql.NullString `db:"name"`
	Email sql.NullString `db:"email"`
	Role  sql.NullString `db:"role"`
}

func (c refColumns) toRef(id *uuid.UUID) *domain.UserRef {
	if id == nil || !c.Name.Valid {
		return nil
	}
	return &domain.UserRef{
		ID:    *id,
		Name:  c.Name.String,
		Email: c.Email.String,
		Role:  domain.Role(c.Role.String),
	}
}

// whereBuilder collects numbered Postgres placeholders.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (w *whereBuilder) add(format string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) raw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
