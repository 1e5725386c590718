package service

import (
	"fmt"
	"time"

	"github.com/aidar/wfm-roster/internal/domain"
)

// ImportSection is a roster area that accepts CSV uploads.
type ImportSection struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ImportSections lists the accepted sections in menu order.
var ImportSections = []ImportSection{
	{ID: "employees", Label: "Сотрудника"},
	{ID: "skills", Label: "Навыки"},
	{ID: "vacations", Label: "Отпуска"},
	{ID: "preferences", Label: "Смены предпочтений"},
	{ID: "schemes", Label: "Схемы"},
	{ID: "tags", Label: "Теги"},
}

// ImportAck confirms receipt of an uploaded file.
type ImportAck struct {
	Section      string    `json:"section"`
	SectionLabel string    `json:"section_label"`
	FileName     string    `json:"file_name"`
	Size         int64     `json:"size"`
	Message      string    `json:"message"`
	ReceivedAt   time.Time `json:"received_at"`
}

// ImportService acknowledges uploads. Files are not parsed.
type ImportService struct {
	clock Clock
}

// NewImportService creates a new ImportService
func NewImportService(clock Clock) *ImportService {
	return &ImportService{clock: clock}
}

// Acknowledge returns a receipt for a file uploaded into section.
func (s *ImportService) Acknowledge(section, fileName string, size int64) (ImportAck, error) {
	for _, sec := range ImportSections {
		if sec.ID != section {
			continue
		}
		return ImportAck{
			Section:      sec.ID,
			SectionLabel: sec.Label,
			FileName:     fileName,
			Size:         size,
			Message:      fmt.Sprintf("Файл «%s» принят для раздела «%s». Проверка и загрузка будут выполнены отдельно.", fileName, sec.Label),
			ReceivedAt:   s.clock.Now().UTC(),
		}, nil
	}
	return ImportAck{}, domain.ErrUnknownImportSection
}
