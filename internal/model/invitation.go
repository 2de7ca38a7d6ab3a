package model

import "time"

// Invitation ("undangan") is one couple's wedding page.  Every descriptive
// column is NOT NULL; creation fills the optional ones with defaults.
type Invitation struct {
    ID            uint64    `json:"id"`
    UserID        uint64    `json:"user_id"`
    TemplateID    string    `json:"template_id"`
    CoverImage    string    `json:"cover_image"`
    ManName       string    `json:"man_name"`
    ManNickname   string    `json:"man_nickname"`
    ManIG         string    `json:"man_ig"`
    ManAddress    string    `json:"man_address"`
    ManFather     string    `json:"man_father"`
    ManMother     string    `json:"man_mother"`
    WomanName     string    `json:"woman_name"`
    WomanNickname string    `json:"woman_nickname"`
    WomanIG       string    `json:"woman_ig"`
    WomanAddress  string    `json:"woman_address"`
    WomanFather   string    `json:"woman_father"`
    WomanMother   string    `json:"woman_mother"`
    CreatedAt     time.Time `json:"created_at"`
    UpdatedAt     time.Time `json:"updated_at"`
}

// InvitationDetail is an invitation with its four child collections loaded.
// JSON keys follow the resource names used in routes.
type InvitationDetail struct {
    Invitation
    Events       []Event        `json:"acara"`
    Stories      []Story        `json:"story"`
    Gallery      []GalleryImage `json:"galery"`
    BankAccounts []BankAccount  `json:"rekening"`
}
