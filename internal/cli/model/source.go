package model

// Source — импортированный документ. ID — BLAKE3-дайджест содержимого.
type Source struct {
	ID            string
	Path          string // путь к файлу на момент импорта
	Name          string
	SchemaVersion string
	ImportedAt    int64
}
