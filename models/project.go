package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/studioaurea/atelier-backend/casing"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectCompleted  ProjectStatus = "completed"
)

// ValidProjectStatus reports whether s is one of the known project statuses.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskDone       TaskStatus = "done"
)

// ValidTaskStatus reports whether s is one of the known task statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskBlocked, TaskDone:
		return true
	}
	return false
}

// Project is the aggregate root. Rooms, tasks, logs and photos live inside
// the project row as JSON columns rather than as independent tables; they are
// only ever read and written as whole collections.
type Project struct {
	ID       uint  `json:"id" db:"id" gorm:"primaryKey"`
	ClientID *uint `json:"clientId" db:"client_id" gorm:"index"`

	Name        string        `json:"name" db:"name" gorm:"type:text;not null"`
	Description string        `json:"description" db:"description" gorm:"type:text"`
	Status      ProjectStatus `json:"status" db:"status" gorm:"type:varchar(50)"`
	Location    string        `json:"location" db:"location" gorm:"type:text"`
	Budget      float64       `json:"budget" db:"budget"`

	// Progress is derived from the task collection; see database/aggregate.go.
	Progress int `json:"progress" db:"progress"`

	Rooms  RoomList  `json:"rooms" db:"rooms" gorm:"type:jsonb"`
	Tasks  TaskList  `json:"tasks" db:"tasks" gorm:"type:jsonb"`
	Logs   LogList   `json:"logs" db:"logs" gorm:"type:jsonb"`
	Photos PhotoList `json:"photos" db:"photos" gorm:"type:jsonb"`

	ReportSettings ReportSettings `json:"reportSettings" db:"report_settings" gorm:"type:jsonb"`
	LastReportDate *time.Time     `json:"lastReportDate" db:"last_report_date"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Room is an embedded record; its id is unique within the owning project.
type Room struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Task is an embedded record. Task ids share one id space across all rooms
// of a project. RoomID is nil for project-wide tasks.
type Task struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	RoomID      *uint      `json:"roomId"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssigneeID  *uint      `json:"assigneeId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Log is a site-diary entry. The log collection is kept newest-first.
type Log struct {
	ID           uint      `json:"id"`
	Text         string    `json:"text"`
	RoomID       *uint     `json:"roomId"`
	PhotoURL     string    `json:"photoUrl,omitempty"`
	PhotoCaption string    `json:"photoCaption,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    uint      `json:"createdBy"`
}

// Photo is derived: one is created for every log that carries a photo URL.
// The photo collection is kept newest-first.
type Photo struct {
	ID        uint      `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	RoomID    *uint     `json:"roomId"`
	LogID     uint      `json:"logId"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy uint      `json:"createdBy"`
}

// TaskInput carries the caller-provided fields for a new task.
type TaskInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	RoomID      *uint      `json:"roomId"`
	DueDate     *time.Time `json:"dueDate"`
	AssigneeID  *uint      `json:"assigneeId"`
}

// LogInput carries the caller-provided fields for a new log entry.
type LogInput struct {
	Text         string `json:"text"`
	RoomID       *uint  `json:"roomId"`
	PhotoURL     string `json:"photoUrl"`
	PhotoCaption string `json:"photoCaption"`
	CreatedBy    uint   `json:"createdBy"`
}

// Collection column types. API-facing JSON uses lowerCamel keys; the stored
// JSON uses snake_case. The casing conversion happens here, at the single
// point where collections cross the persistence boundary.

type RoomList []Room

type TaskList []Task

type LogList []Log

type PhotoList []Photo

// ReportSettings is the project's report configuration, stored wholesale as
// one JSON value. Its shape is caller-defined; recognized keys include
// "enabled", "frequency", "channels" and the one-shot "generateNow".
type ReportSettings map[string]any

func (l RoomList) Value() (driver.Value, error)  { return collectionValue(l) }
func (l *RoomList) Scan(src any) error           { return collectionScan(src, l) }
func (l TaskList) Value() (driver.Value, error)  { return collectionValue(l) }
func (l *TaskList) Scan(src any) error           { return collectionScan(src, l) }
func (l LogList) Value() (driver.Value, error)   { return collectionValue(l) }
func (l *LogList) Scan(src any) error            { return collectionScan(src, l) }
func (l PhotoList) Value() (driver.Value, error) { return collectionValue(l) }
func (l *PhotoList) Scan(src any) error          { return collectionScan(src, l) }

func (s ReportSettings) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return collectionValue(s)
}

func (s *ReportSettings) Scan(src any) error { return collectionScan(src, s) }

// collectionValue marshals v and rewrites every key to the stored snake_case
// convention before handing the JSON to the driver.
func collectionValue(v any) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal collection: %w", err)
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if tree == nil {
		tree = []any{}
	}
	out, err := json.Marshal(casing.SnakeKeys(tree))
	if err != nil {
		return nil, fmt.Errorf("marshal snake collection: %w", err)
	}
	return string(out), nil
}

// collectionScan reads stored snake_case JSON and rewrites every key back to
// the caller-facing lowerCamel convention before decoding into dst.
func collectionScan(src, dst any) error {
	var raw []byte
	switch t := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = t
	case string:
		raw = []byte(t)
	default:
		return fmt.Errorf("unsupported collection column type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("decode stored collection: %w", err)
	}
	out, err := json.Marshal(casing.CamelKeys(tree))
	if err != nil {
		return fmt.Errorf("marshal camel collection: %w", err)
	}
	return json.Unmarshal(out, dst)
}
