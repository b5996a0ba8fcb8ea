// Package model provides the stored object model for the storage module.
package model

import "time"

// Object is a blob stored under (bucket, path).
type Object struct {
	Bucket      string    `gorm:"primaryKey;size:128"   json:"bucket"`
	Path        string    `gorm:"primaryKey;size:512"   json:"path"`
	ContentType string    `gorm:"size:128;not null"     json:"content_type"`
	Size        int64     `gorm:"not null"              json:"size"`
	Data        []byte    `gorm:"not null"              json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime"        json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"        json:"updated_at"`
}

// TableName specifies the table name for Object model.
func (Object) TableName() string {
	return "storage_objects"
}

// UploadOptions control how Upload treats an existing object.
type UploadOptions struct {
	// Overwrite replaces an existing object in place instead of failing.
	Overwrite bool
}
