package domain

// SortKey определяет поле сортировки списка
type SortKey string

// Поддерживаемые ключи сортировки
const (
	SortByName        SortKey = "name"
	SortByPosition    SortKey = "position"
	SortByTeam        SortKey = "team"
	SortByHireDate    SortKey = "hireDate"
	SortByPerformance SortKey = "performance"
)

// SortOrder определяет направление сортировки
type SortOrder string

// Направления сортировки
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterCriteria описывает фильтры и сортировку списка сотрудников.
// Пустая строка означает "без ограничения", а не "совпадение с пустым значением".
type FilterCriteria struct {
	Search       string    `json:"search"`
	Team         string    `json:"team"`
	Status       string    `json:"status"`
	Skill        string    `json:"skill"`
	Position     string    `json:"position"`
	OrgUnit      string    `json:"orgUnit"`
	SortBy       SortKey   `json:"sortBy"`
	SortOrder    SortOrder `json:"sortOrder"`
	ShowInactive bool      `json:"showInactive"`
}

// DefaultFilterCriteria возвращает фильтры по умолчанию: без ограничений, сортировка по имени
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		SortBy:    SortByName,
		SortOrder: SortAsc,
	}
}

// Normalize заменяет неизвестные ключи сортировки значениями по умолчанию
func (f FilterCriteria) Normalize() FilterCriteria {
	switch f.SortBy {
	case SortByName, SortByPosition, SortByTeam, SortByHireDate, SortByPerformance:
	default:
		f.SortBy = SortByName
	}
	if f.SortOrder != SortDesc {
		f.SortOrder = SortAsc
	}
	return f
}

// HasActiveFilters сообщает, задан ли хотя бы один фильтр
func (f FilterCriteria) HasActiveFilters() bool {
	return f.Search != "" || f.Team != "" || f.Status != "" || f.Skill != "" ||
		f.Position != "" || f.OrgUnit != "" || f.ShowInactive
}

// ColumnKey идентифицирует колонку таблицы сотрудников
type ColumnKey string

// Колонки таблицы в фиксированном порядке отображения
const (
	ColumnFIO      ColumnKey = "fio"
	ColumnPosition ColumnKey = "position"
	ColumnOrgUnit  ColumnKey = "orgUnit"
	ColumnTeam     ColumnKey = "team"
	ColumnScheme   ColumnKey = "scheme"
	ColumnHourNorm ColumnKey = "hourNorm"
	ColumnStatus   ColumnKey = "status"
	ColumnHireDate ColumnKey = "hireDate"
)

// Column описывает колонку и ее подпись
type Column struct {
	Key   ColumnKey `json:"key"`
	Label string    `json:"label"`
}

// ColumnOrder задает порядок колонок в таблице и в экспорте
var ColumnOrder = []Column{
	{Key: ColumnFIO, Label: "Ф.И.О."},
	{Key: ColumnPosition, Label: "Должность"},
	{Key: ColumnOrgUnit, Label: "Точка оргструктуры"},
	{Key: ColumnTeam, Label: "Команда"},
	{Key: ColumnScheme, Label: "Схема работы"},
	{Key: ColumnHourNorm, Label: "Норма часов"},
	{Key: ColumnStatus, Label: "Статус"},
	{Key: ColumnHireDate, Label: "Дата найма"},
}

// ColumnVisibility хранит признак отображения для каждой колонки
type ColumnVisibility map[ColumnKey]bool

// DefaultColumnVisibility возвращает набор, в котором видны все колонки
func DefaultColumnVisibility() ColumnVisibility {
	v := make(ColumnVisibility, len(ColumnOrder))
	for _, c := range ColumnOrder {
		v[c.Key] = true
	}
	return v
}

// Merge накладывает сохраненные значения поверх текущих, игнорируя неизвестные колонки
func (v ColumnVisibility) Merge(saved ColumnVisibility) ColumnVisibility {
	out := make(ColumnVisibility, len(v))
	for k, visible := range v {
		out[k] = visible
	}
	for k, visible := range saved {
		if _, known := out[k]; known {
			out[k] = visible
		}
	}
	return out
}

// VisibleColumns возвращает видимые колонки в порядке ColumnOrder
func (v ColumnVisibility) VisibleColumns() []Column {
	cols := make([]Column, 0, len(ColumnOrder))
	for _, c := range ColumnOrder {
		if v[c.Key] {
			cols = append(cols, c)
		}
	}
	return cols
}
