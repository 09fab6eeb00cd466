package models

// Teacher represents an instructor record. The (name, phone) pair is unique.
type Teacher struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone"`
}
