package models

import "time"

// TaskFrequency describes how often a task recurs.
type TaskFrequency string

const (
	FrequencyOnce    TaskFrequency = "ONCE"
	FrequencyDaily   TaskFrequency = "DAILY"
	FrequencyWeekly  TaskFrequency = "WEEKLY"
	FrequencyMonthly TaskFrequency = "MONTHLY"
)

// TaskStatus is the state of a task. COMPLETED and CANCELLED are terminal.
type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
	TaskCancelled TaskStatus = "CANCELLED"
)

// Task is a schedulable to-do item, optionally tied to an animal.
type Task struct {
	ID          string        `bson:"id" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     time.Time     `bson:"due_date" json:"dueDate"`
	Frequency   TaskFrequency `bson:"frequency" json:"frequency"`
	Status      TaskStatus    `bson:"status" json:"status"`
	UserID      string        `bson:"user_id" json:"userId"`
	RanchID     string        `bson:"ranch_id" json:"ranchId"`
	CattleID    string        `bson:"cattle_id,omitempty" json:"cattleId,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updatedAt"`
	CompletedAt *time.Time    `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}

// TaskPatch carries the fields of a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Frequency   *TaskFrequency `json:"frequency,omitempty" binding:"omitempty,oneof=ONCE DAILY WEEKLY MONTHLY"`
	Status      *TaskStatus    `json:"status,omitempty"`
	UserID      *string        `json:"userId,omitempty"`
	RanchID     *string        `json:"ranchId,omitempty"`
	CattleID    *string        `json:"cattleId,omitempty"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

// Apply returns a copy of t with the patch merged in.
func (p TaskPatch) Apply(t Task) Task {
	setString(&t.Title, p.Title)
	setString(&t.Description, p.Description)
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Frequency != nil {
		t.Frequency = *p.Frequency
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	setString(&t.UserID, p.UserID)
	setString(&t.RanchID, p.RanchID)
	setString(&t.CattleID, p.CattleID)
	if p.UpdatedAt != nil {
		t.UpdatedAt = *p.UpdatedAt
	}
	if p.CompletedAt != nil {
		ca := *p.CompletedAt
		t.CompletedAt = &ca
	}
	return t
}
