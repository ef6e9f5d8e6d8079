package model

import "time"

// CatalogEntry — серверная запись каталога: действующие значения одного
// подключения без секретов. Уникальна в паре (Owner, NodeID).
type CatalogEntry struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	Owner  string `gorm:"not null;uniqueIndex:idx_catalog_owner_node" json:"-"`
	NodeID string `gorm:"not null;uniqueIndex:idx_catalog_owner_node" json:"node_id"`

	SourceID string  `gorm:"not null;index" json:"source_id"` // ссылка на sources.id
	Source   *Source `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Path     string `gorm:"not null" json:"path"`
	Name     string `gorm:"not null" json:"name"`
	Hostname string `json:"hostname"`
	Protocol string `json:"protocol"`
	Port     int    `json:"port"`

	Info ConnectionInfo `gorm:"type:text;serializer:json" json:"info"`

	Version int64 `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
