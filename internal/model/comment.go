package model

import "time"

// Comment is a visitor's reaction to an entry, optionally answered
// by the admin through Reply.
//
// Fields:
//
//	ID        – primary key identifier.
//	EntryID   – the commented entry.
//	Name      – author name given by the visitor.
//	Email     – optional contact address.
//	Website   – optional homepage URL.
//	Body      – comment text.
//	Reply     – optional admin reply.
//	CreatedAt – time the comment was posted.
type Comment struct {
	ID        uint64    `json:"id"`         // comments.id
	EntryID   uint64    `json:"entry_id"`   // comments.entry_id
	Name      string    `json:"name"`       // comments.name
	Email     string    `json:"email"`      // comments.email
	Website   string    `json:"website"`    // comments.website
	Body      string    `json:"comment"`    // comments.body
	Reply     string    `json:"reply"`      // comments.reply
	CreatedAt time.Time `json:"created_at"` // comments.created_at
}
