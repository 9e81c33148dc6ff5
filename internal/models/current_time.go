package models

import "time"

// CurrentTimeModel Current time specific model
type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
	Date         string `json:"date"`
	Weekday      string `json:"weekday"`
}

// NewCurrentTimeModel describes t the way departure queries see it.
func NewCurrentTimeModel(t time.Time) CurrentTimeModel {
	return CurrentTimeModel{
		ReadableTime: t.Format(time.RFC3339),
		Time:         t.UnixMilli(),
		Date:         t.Format("2006-01-02"),
		Weekday:      t.Weekday().String(),
	}
}
