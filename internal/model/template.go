package model

import "time"

// Template kinds.  Admins set the kind at upload and may change it on update.
const (
    TemplateFree    = "free"
    TemplatePremium = "premium"
)

// Template is a marketplace item.  ID is a UUID string so dependents can
// reference templates assigned outside this service.
type Template struct {
    ID            string    `json:"id"`
    Title         string    `json:"title"`
    Description   string    `json:"description"`
    Type          string    `json:"type"`
    FilePath      string    `json:"file_path"`
    ThumbnailPath *string   `json:"thumbnail_path"`
    Price         int64     `json:"price"` // stored only, never charged
    FlagActive    bool      `json:"flag_active"`
    CreatedAt     time.Time `json:"created_at"`
    UpdatedAt     time.Time `json:"updated_at"`
}

// IsPremium reports whether the template requires a price.
func (t Template) IsPremium() bool { return t.Type == TemplatePremium }

// SavedTemplate is a user bookmark of a template, unique per pair.
type SavedTemplate struct {
    ID         uint64    `json:"id"`
    UserID     uint64    `json:"user_id"`
    TemplateID string    `json:"template_id"`
    CreatedAt  time.Time `json:"created_at"`
}
