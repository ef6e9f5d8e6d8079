package view

import "ConnKeeper/internal/model"

// DecryptedEntry — DTO для отображения записи каталога в CLI с расшифрованным payload.
type DecryptedEntry struct {
	ID        string               `json:"id" yaml:"id"`
	NodeID    string               `json:"node_id" yaml:"node_id"`
	Path      string               `json:"path" yaml:"path"`
	Source    string               `json:"source" yaml:"source"`
	UpdatedAt int64                `json:"updated_at" yaml:"updated_at"`
	Version   int64                `json:"version" yaml:"version"`
	Info      model.ConnectionInfo `json:"info" yaml:"info"`
	// Secrets заполняется только по явному запросу.
	Secrets map[string]string `json:"secrets,omitempty" yaml:"secrets,omitempty"`
}
