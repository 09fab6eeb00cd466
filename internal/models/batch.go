package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Batch is a recurring scheduled class: one course, one room, one timeframe,
// a set of weekdays and a set of teachers. Days and teacher ids are genuine
// set-valued columns; membership is always tested exactly, never by substring.
type Batch struct {
	ID          int64          `db:"id" json:"id"`
	CourseID    int64          `db:"course_id" json:"course_id"`
	TimeframeID int64          `db:"timeframe_id" json:"timeframe_id"`
	RoomID      int64          `db:"room_id" json:"room_id"`
	BatchNumber string         `db:"batch_number" json:"batch_number"`
	Days        pq.StringArray `db:"days" json:"days"`
	TeacherIDs  pq.Int64Array  `db:"teacher_ids" json:"teacher_ids"`
	Active      bool           `db:"active" json:"active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// HasTeacher reports exact membership of id in the batch teacher set.
func (b *Batch) HasTeacher(id int64) bool {
	for _, t := range b.TeacherIDs {
		if t == id {
			return true
		}
	}
	return false
}

// HasDay reports exact membership of day in the batch day set.
func (b *Batch) HasDay(day string) bool {
	for _, d := range b.Days {
		if d == day {
			return true
		}
	}
	return false
}

// BatchSlot is the slice of a batch the conflict detector compares against:
// its identity and the resolved timeframe of its weekly slot.
type BatchSlot struct {
	ID             int64  `db:"id"`
	TimeframeLabel string `db:"timeframe_label"`
	StartTime      string `db:"start_time"`
	EndTime        string `db:"end_time"`
}

// BatchDetail is a batch enriched with resolved display fields.
type BatchDetail struct {
	Batch
	CourseName     string   `db:"course_name" json:"course"`
	TimeframeLabel string   `db:"timeframe_label" json:"timeframe"`
	RoomNumber     string   `db:"room_number" json:"room"`
	TeacherNames   []string `db:"-" json:"teacher_names"`
}

// TeacherIDList accepts either a JSON array of integer ids or a single
// comma-separated string of ids. Any other shape is rejected at decode time.
type TeacherIDList []int64

// UnmarshalJSON implements the dual-shape decoding.
func (l *TeacherIDList) UnmarshalJSON(data []byte) error {
	var ids []int64
	if err := json.Unmarshal(data, &ids); err == nil {
		*l = ids
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("teacher_ids must be a list of ints or a comma-separated string")
	}
	ids = ids[:0]
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("teacher_ids contains a non-integer id %q", part)
		}
		ids = append(ids, id)
	}
	*l = ids
	return nil
}
