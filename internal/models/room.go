package models

// Room represents a physical room. Numbers are unique.
type Room struct {
	ID         int64  `db:"id" json:"id"`
	RoomNumber string `db:"room_number" json:"room_number"`
}
