package models

import "time"

type Book struct {
	UID           string    `json:"uid"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Publisher     string    `json:"publisher"`
	PublishedDate string    `json:"published_date"` // YYYY-MM-DD
	PageCount     int       `json:"page_count"`
	Language      string    `json:"language"`
	UserUID       string    `json:"user_uid,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Review struct {
	UID        string    `json:"uid"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text"`
	BookUID    string    `json:"book_uid"`
	UserUID    string    `json:"user_uid"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
