package model

import "time"

// Source — импортированный документ; ID — его BLAKE3-дайджест, поэтому
// повторный импорт того же файла не создаёт новой записи.
type Source struct {
	ID            string `gorm:"primaryKey" json:"id"`
	Name          string `json:"name"`
	SchemaVersion string `json:"schema_version"`
	Size          int    `json:"size"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
