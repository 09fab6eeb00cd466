package models

// Timeframe is a reusable daily time interval. Start and end are stored in
// canonical 24-hour "HH:MM" form; Label caches the 12-hour display string.
type Timeframe struct {
	ID        int64  `db:"id" json:"id"`
	Label     string `db:"label" json:"timeframe"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}
