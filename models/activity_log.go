package models

import (
	"time"
)

// Heartbeat actions written by the scheduled activity job
var ActivityActions = []string{
	"daily_heartbeat",
	"system_check",
	"maintenance_ping",
	"activity_log",
	"health_check",
}

type ActivityLog struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Action    string    `json:"action" gorm:"not null;size:50"`
	Data      JSONData  `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}
