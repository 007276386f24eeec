package models

import (
	"time"
)

// Client represents a customer of the studio
type Client struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	FullName  string     `gorm:"not null" json:"full_name"`
	Email     string     `gorm:"index" json:"email"`
	Phone     string     `json:"phone"`
	TaxID     *string    `gorm:"column:tax_id" json:"tax_id"`
	Address   *string    `json:"address"`
	Notes     *string    `gorm:"type:text" json:"notes"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Associations
	Projects []Project `gorm:"foreignKey:ClientID" json:"projects,omitempty"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// IsDeleted returns true if the client has been soft-deleted
func (c *Client) IsDeleted() bool {
	return c.DeletedAt != nil
}
