package models

// AuditLog records every data change a session confirmed with the data API.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Action       string `gorm:"type:varchar(64);not null" json:"action"`
	ResourceType string `gorm:"type:varchar(64);not null" json:"resource_type"`
	ResourceID   string `gorm:"type:varchar(64)" json:"resource_id"`
	IPAddress    string `gorm:"type:varchar(64)" json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
