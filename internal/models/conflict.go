package models

// BatchConflict identifies the first detected double-booking: which teacher,
// on which day, against which existing batch.
type BatchConflict struct {
	TeacherID          int64  `json:"teacher_id"`
	Day                string `json:"day"`
	ConflictingBatchID int64  `json:"conflicting_batch"`
	TimeframeLabel     string `json:"timeframe"`
}

// BatchConflictError is returned when a batch collides with an existing one.
type BatchConflictError struct {
	Message  string        `json:"message"`
	Conflict BatchConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *BatchConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
