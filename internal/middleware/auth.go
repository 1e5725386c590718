package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/aidar/wfm-roster/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

// OperatorKey ключ контекста для оператора, выполняющего запрос
const OperatorKey ContextKey = "operator"

// AuthMiddleware создает middleware для валидации JWT токенов
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, r, "missing authorization header")
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, r, "invalid authorization header format")
				return
			}

			// Валидируем токен
			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				unauthorized(w, r, "invalid or expired token")
				return
			}

			op := service.Operator{ID: claims.OperatorID, Login: claims.Login}
			ctx := WithOperator(r.Context(), op)

			// Логгер запроса дополняем логином оператора
			logger := zerolog.Ctx(ctx).With().Str("operator", op.Login).Logger()
			ctx = logger.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithOperator кладет оператора в контекст
func WithOperator(ctx context.Context, op service.Operator) context.Context {
	return context.WithValue(ctx, OperatorKey, op)
}

// OperatorFromContext извлекает оператора из контекста
func OperatorFromContext(ctx context.Context) (service.Operator, bool) {
	op, ok := ctx.Value(OperatorKey).(service.Operator)
	return op, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// writeError отвечает в формате ошибок API: {"error":{"code","message"}}
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
