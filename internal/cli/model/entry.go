package model

// Entry — запись локального каталога: одно подключение документа.
// Полная действующая запись (с секретами) лежит только в зашифрованном
// Payload; открытыми остаются поля для списка.
type Entry struct {
	ID        string
	NodeID    string // Id узла в документе
	SourceID  string // ссылка на sources.id
	Path      string
	Name      string
	Hostname  string
	Protocol  string
	CreatedAt int64
	UpdatedAt int64
	Version   int64

	PayloadCipher []byte // шифртекст CBOR-записи подключения
	PayloadNonce  []byte // nonce для payload
}
