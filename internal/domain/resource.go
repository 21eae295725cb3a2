package domain

import "time"

type ResourceType string

const (
	TypeFolder ResourceType = "FOLDER"
	TypeFile   ResourceType = "FILE"
)

// Resource is a node in a per-user file tree. Folders and files share the
// same table; ParentID is a self reference (nil for root-level entries).
type Resource struct {
	ID       int64        `json:"id" gorm:"primaryKey"`
	OwnerID  int64        `json:"ownerId" gorm:"index;not null"`
	Owner    *User        `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	ParentID *int64       `json:"parentId" gorm:"index"`
	Parent   *Resource    `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Type     ResourceType `json:"type" gorm:"not null"`
	Mimetype string       `json:"mimetype" gorm:"not null"`
	Name     string       `json:"name" gorm:"not null"`
	Size     int64        `json:"size"`
	FileURL  string       `json:"file_url" gorm:"column:file_url"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
