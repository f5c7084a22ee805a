package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type NotificationType string

const (
	NotifInfo    NotificationType = "info"
	NotifWarning NotificationType = "warning"
	NotifSuccess NotificationType = "success"
	NotifError   NotificationType = "error"
)

type EntityType string

const (
	EntityCase   EntityType = "case"
	EntityForum  EntityType = "forum"
	EntityUser   EntityType = "user"
	EntitySystem EntityType = "system"
)

type Notification struct {
	ID                uuid.UUID        `json:"id" db:"notification_id"`
	UserID            uuid.UUID        `json:"user" db:"user_id"`
	Type              NotificationType `json:"type" db:"type"`
	Title             string           `json:"title" db:"title"`
	Message           string           `json:"message" db:"message"`
	Read              bool             `json:"read" db:"is_read"`
	RelatedEntityType EntityType       `json:"relatedEntityType" db:"related_entity_type"`
	RelatedEntityID   *uuid.UUID       `json:"relatedEntityId" db:"related_entity_id"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
}
