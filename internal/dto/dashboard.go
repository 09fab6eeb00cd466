package dto

// TeacherOccupancy lists the batches occupying one teacher in a slot.
type TeacherOccupancy struct {
	BatchID     int64  `json:"batch_id"`
	CourseName  string `json:"course"`
	BatchNumber string `json:"batch_number"`
	RoomNumber  string `json:"room"`
}

// TeacherAvailability reports one teacher's busy/free status for a slot.
type TeacherAvailability struct {
	TeacherID   int64              `json:"teacher_id"`
	TeacherName string             `json:"teacher_name"`
	Status      string             `json:"status"`
	Batches     []TeacherOccupancy `json:"batches"`
}

// AvailabilityBoard is the dashboard payload for one day and timeframe.
type AvailabilityBoard struct {
	Day            string                `json:"day"`
	TimeframeLabel string                `json:"timeframe"`
	StartTime      string                `json:"start_time"`
	EndTime        string                `json:"end_time"`
	Teachers       []TeacherAvailability `json:"teachers"`
}
