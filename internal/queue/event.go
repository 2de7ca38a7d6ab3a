// Package queue defines the domain events this service emits and publishes
// them to RabbitMQ.
package queue

import "time"

// Routing keys; each is also the name of a durable queue.
const (
    InvitationCreated = "invitation.created"
    TemplateSaved     = "template.saved"
    TemplateUploaded  = "template.uploaded"
)

// InvitationCreatedEvent is published after the invitation and its default
// rows are committed.
type InvitationCreatedEvent struct {
    InvitationID uint64    `json:"invitation_id"`
    UserID       uint64    `json:"user_id"`
    TemplateID   string    `json:"template_id"`
    ManName      string    `json:"man_name"`
    WomanName    string    `json:"woman_name"`
    CreatedAt    time.Time `json:"created_at"`
}

// TemplateSavedEvent is published when a user bookmarks a template.
type TemplateSavedEvent struct {
    UserID     uint64    `json:"user_id"`
    TemplateID string    `json:"template_id"`
    SavedAt    time.Time `json:"saved_at"`
}

// TemplateUploadedEvent is published when an admin adds a template.
type TemplateUploadedEvent struct {
    TemplateID string    `json:"template_id"`
    Title      string    `json:"title"`
    Type       string    `json:"type"`
    Price      int64     `json:"price"`
    UploadedAt time.Time `json:"uploaded_at"`
}
