package model

// Category is a label attached to entries.  Names are unique.
type Category struct {
	ID   uint64 `json:"id"`   // categories.id
	Name string `json:"name"` // categories.name
}
