package domain

import (
	"time"
	"unicode/utf16"
)

// TagPalette задает цвета, из которых назначаются цвета тегов
var TagPalette = []string{"#2563eb", "#1d4ed8", "#0ea5e9", "#0f766e", "#16a34a", "#d97706", "#db2777", "#7c3aed"}

// TagDefinition представляет тег, созданный пользователем
type TagDefinition struct {
	Name      string    `json:"name" yaml:"name"`
	Color     string    `json:"color" yaml:"color"`
	CreatedAt time.Time `json:"created_at" yaml:"createdAt"`
}

// ColorForTag детерминированно выбирает цвет из палитры по имени тега.
// Хеш считается по UTF-16 кодовым единицам с переполнением int32.
func ColorForTag(tag string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(tag)) {
		hash = (hash << 5) - hash + int32(unit)
	}
	idx := int64(hash)
	if idx < 0 {
		idx = -idx
	}
	return TagPalette[idx%int64(len(TagPalette))]
}
