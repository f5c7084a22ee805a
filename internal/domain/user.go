package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID   `json:"id" db:"user_id"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	PasswordHash string      `json:"-" db:"password_hash" masq:"secret"`
	Role         Role        `json:"role" db:"role"`
	Preferences  Preferences `json:"preferences" db:"preferences"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}

type CreateUserInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AssignRoleInput struct {
	Role string `json:"role" validate:"required"`
}

// UserRef is the embedded form of a user on cases, notes and forum entries.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Role  Role      `json:"role,omitempty"`
}

func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (u *User) IsStaff() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleLegalOfficer)
}

// Preferences are per-user UI and notification settings, stored as JSONB.
type Preferences struct {
	EmailNotifications bool   `json:"emailNotifications"`
	Language           string `json:"language"`
	Theme              string `json:"theme"`
}

type UpdatePreferencesInput struct {
	EmailNotifications *bool   `json:"emailNotifications"`
	Language           *string `json:"language" validate:"omitempty,oneof=en es fr sw"`
	Theme              *string `json:"theme" validate:"omitempty,oneof=light dark system"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		EmailNotifications: true,
		Language:           "en",
		Theme:              "system",
	}
}

func (p Preferences) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Preferences) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = DefaultPreferences()
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("preferences: unsupported column type")
	}
	prefs := DefaultPreferences()
	if err := json.Unmarshal(data, &prefs); err != nil {
		return err
	}
	*p = prefs
	return nil
}

// NormalizeEmail is applied before every lookup so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
