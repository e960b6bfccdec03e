package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	UserID      uint64 `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// TasksLastUpdatedAt changes whenever a task of the project is created,
	// updated or deleted. It only feeds task listing cache keys.
	TasksLastUpdatedAt *time.Time     `gorm:"precision:6" json:"tasks_last_updated_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tasks []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
