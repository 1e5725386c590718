package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"github.com/aidar/wfm-roster/internal/config"
	"github.com/aidar/wfm-roster/internal/handler"
	"github.com/aidar/wfm-roster/internal/middleware"
	"github.com/aidar/wfm-roster/internal/repository"
	"github.com/aidar/wfm-roster/internal/service"
)

// Services объединяет сервисы, используемые HTTP слоем
type Services struct {
	Store    *service.Store
	Auth     *service.AuthService
	Roster   *service.RosterService
	Teams    *service.TeamService
	Tags     *service.TagService
	Imports  *service.ImportService
	Sessions *service.SessionManager
}

// NewServices собирает слой сервисов поверх хранилища реестра.
// prefs может быть nil, тогда настройки операторов живут только в памяти.
func NewServices(cfg *config.Config, store *service.Store, prefs repository.PreferencesRepository, clock service.Clock, logger zerolog.Logger) *Services {
	roster := service.NewRosterService(store, clock)
	tags := service.NewTagService(store, clock)

	return &Services{
		Store:   store,
		Auth:    service.NewAuthService(store, clock, cfg.JWT.Secret, cfg.JWT.GetExpiration()),
		Roster:  roster,
		Teams:   service.NewTeamService(store),
		Tags:    tags,
		Imports: service.NewImportService(clock),
		Sessions: service.NewSessionManager(service.SessionDeps{
			Store:       store,
			Roster:      roster,
			Tags:        tags,
			Preferences: prefs,
			Clock:       clock,
			Location:    cfg.Roster.LoadLocation(),
			WizardDelay: cfg.Roster.WizardSubmitDelay,
			Logger:      logger,
		}),
	}
}

// NewRouter настраивает маршруты HTTP API. rateLimiter может быть nil.
func NewRouter(svc *Services, logger zerolog.Logger, rateLimiter *limiter.Limiter) http.Handler {
	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(svc.Auth)
	employeeHandler := handler.NewEmployeeHandler(svc.Sessions, svc.Roster)
	sessionHandler := handler.NewSessionHandler(svc.Sessions)
	teamHandler := handler.NewTeamHandler(svc.Teams)
	tagHandler := handler.NewTagHandler(svc.Tags, svc.Sessions)
	wizardHandler := handler.NewWizardHandler(svc.Sessions)
	transferHandler := handler.NewTransferHandler(svc.Sessions, svc.Imports)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(svc.Auth)

	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	if rateLimiter != nil {
		r.Use(middleware.RateLimit(rateLimiter))
	}

	// Публичные эндпоинты (без авторизации)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		handler.RespondWithJSON(w, r, http.StatusOK, map[string]any{
			"status":         "ok",
			"roster_version": svc.Store.Snapshot().Version,
		})
	})

	// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		// Список и карточка сотрудника
		r.Get("/employees", employeeHandler.List)
		r.Post("/employees/bulk-edit", employeeHandler.BulkEdit)
		r.Get("/employees/{id}", employeeHandler.Get)
		r.Put("/employees/{id}", employeeHandler.Save)

		// Фильтры и колонки оператора
		r.Route("/session", func(r chi.Router) {
			r.Get("/filters", sessionHandler.GetFilters)
			r.Put("/filters", sessionHandler.SetFilters)
			r.Post("/filters/reset", sessionHandler.ResetFilters)
			r.Get("/columns", sessionHandler.GetColumns)
			r.Put("/columns", sessionHandler.SetColumns)
		})

		// Выбор сотрудников для массовых операций
		r.Route("/selection", func(r chi.Router) {
			r.Get("/", sessionHandler.GetSelection)
			r.Post("/toggle", sessionHandler.Toggle)
			r.Post("/all", sessionHandler.ToggleAll)
			r.Delete("/", sessionHandler.ClearSelection)
		})

		// Команды
		r.Get("/teams", teamHandler.ListTeams)
		r.Get("/teams/{id}", teamHandler.GetTeam)

		// Каталог тегов
		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tagHandler.List)
			r.Post("/", tagHandler.Create)
			r.Post("/apply", tagHandler.Apply)
			r.Delete("/{name}", tagHandler.Delete)
		})

		// Мастер быстрого добавления
		r.Route("/wizard", func(r chi.Router) {
			r.Get("/", wizardHandler.Get)
			r.Post("/open", wizardHandler.Open)
			r.Put("/form", wizardHandler.SetForm)
			r.Post("/next", wizardHandler.Next)
			r.Post("/back", wizardHandler.Back)
			r.Post("/submit", wizardHandler.Submit)
			r.Post("/close", wizardHandler.Close)
		})

		// Экспорт и импорт CSV
		r.Get("/export", transferHandler.Export)
		r.Get("/import/sections", transferHandler.ImportSections)
		r.Post("/import", transferHandler.Import)
	})

	return r
}
