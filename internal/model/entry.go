package model

import "time"

// Entry is a blog post.  Only published entries are visible on the
// public pages; drafts are reachable through the admin area.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – headline of the post.
//	Body        – post text.
//	PublishedAt – date shown for the post (never in the future).
//	IsPublished – whether visitors can see the entry.
//	UserID      – author, always the admin.
type Entry struct {
	ID          uint64    `json:"id"`           // entries.id
	Title       string    `json:"title"`        // entries.title
	Body        string    `json:"body"`         // entries.body
	PublishedAt time.Time `json:"published_at"` // entries.published_at
	IsPublished bool      `json:"is_published"` // entries.is_published
	UserID      uint64    `json:"user_id"`      // entries.user_id

	// Populated by read models, not stored in the entries table.
	Author       string   `json:"author,omitempty"`
	CommentCount int      `json:"comment_count"`
	Categories   []string `json:"categories,omitempty"`
}

// EntryCategory links an entry to one of its categories
// (`entry_categories` table).
type EntryCategory struct {
	ID         uint64 `json:"id"`          // entry_categories.id
	EntryID    uint64 `json:"entry_id"`    // entry_categories.entry_id
	CategoryID uint64 `json:"category_id"` // entry_categories.category_id
}
