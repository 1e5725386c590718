package repository

import (
	"context"

	"github.com/aidar/wfm-roster/internal/domain"
)

// EmployeeRepository определяет методы для работы с данными сотрудников
type EmployeeRepository interface {
	// List возвращает всех сотрудников, включая уволенных
	List(ctx context.Context) ([]*domain.Employee, error)

	// GetByID получает сотрудника по внутреннему ID
	GetByID(ctx context.Context, id string) (*domain.Employee, error)

	// Upsert создает или полностью заменяет записи сотрудников
	Upsert(ctx context.Context, employees []*domain.Employee) error
}

// TeamRepository определяет методы для работы со справочником команд
type TeamRepository interface {
	// List возвращает все команды
	List(ctx context.Context) ([]domain.Team, error)

	// Upsert создает или обновляет команду
	Upsert(ctx context.Context, team domain.Team) error
}

// TagRepository определяет методы для работы с пользовательскими тегами
type TagRepository interface {
	// List возвращает все созданные пользователями теги
	List(ctx context.Context) ([]domain.TagDefinition, error)

	// Create сохраняет новый тег, ErrTagExists если имя занято
	Create(ctx context.Context, tag domain.TagDefinition) error

	// Delete удаляет определение тега (идемпотентно)
	Delete(ctx context.Context, name string) error
}

// PreferencesRepository хранит настройки интерфейса оператора по ключу
type PreferencesRepository interface {
	// Load возвращает сохраненное значение; found=false если значения нет
	Load(ctx context.Context, operatorID, key string) (value string, found bool, err error)

	// Save сохраняет значение, перезаписывая предыдущее
	Save(ctx context.Context, operatorID, key, value string) error
}

// TransactionManager выполняет fn в одной транзакции БД
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
