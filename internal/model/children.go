package model

import "time"

// Event ("acara") is a scheduled part of the wedding (akad, resepsi, ...).
type Event struct {
    ID           uint64    `json:"id"`
    InvitationID uint64    `json:"undangan_id"`
    Title        string    `json:"title"`
    Desc         string    `json:"desc"`
    Date         time.Time `json:"date"`
    Icon         string    `json:"icon"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}

// Story is a captioned image on the couple's timeline.
type Story struct {
    ID           uint64    `json:"id"`
    InvitationID uint64    `json:"undangan_id"`
    Title        string    `json:"title"`
    Desc         string    `json:"desc"`
    Image        string    `json:"image"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}

// GalleryImage ("galery") holds an image path only.
type GalleryImage struct {
    ID           uint64    `json:"id"`
    InvitationID uint64    `json:"undangan_id"`
    Image        string    `json:"image"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}

// BankAccount ("rekening") holds transfer details shown to guests.
type BankAccount struct {
    ID            uint64    `json:"id"`
    InvitationID  uint64    `json:"undangan_id"`
    AccountName   string    `json:"account_name"`
    AccountNumber string    `json:"account_number"`
    Bank          string    `json:"bank"`
    CreatedAt     time.Time `json:"created_at"`
    UpdatedAt     time.Time `json:"updated_at"`
}

// Bank is an entry of the admin-managed bank list users pick from.
type Bank struct {
    ID         uint64    `json:"id"`
    Name       string    `json:"name"`
    Image      string    `json:"image"`
    FlagActive bool      `json:"flag_active"`
    CreatedAt  time.Time `json:"created_at"`
    UpdatedAt  time.Time `json:"updated_at"`
}
