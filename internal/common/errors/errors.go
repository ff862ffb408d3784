package errors

import (
	"fmt"
	"time"
)

// ErrorCode identifies a failure class of the claim workflow.
type ErrorCode string

const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeTooManyRequests ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Claim workflow errors.
	ErrCodeNoClicksToClaim    ErrorCode = "NO_CLICKS_TO_CLAIM"
	ErrCodeOracleUnavailable  ErrorCode = "ORACLE_UNAVAILABLE"
	ErrCodeVerificationFailed ErrorCode = "VERIFICATION_FAILED"
	ErrCodeLedgerWriteFailed  ErrorCode = "LEDGER_WRITE_FAILED"

	// Store errors.
	ErrCodePlayerNotFound ErrorCode = "PLAYER_NOT_FOUND"
	ErrCodeDatabaseError  ErrorCode = "DATABASE_ERROR"
	ErrCodeCacheError     ErrorCode = "CACHE_ERROR"
)

// AppError is the typed application error carried from services up to the
// HTTP layer, where Code decides the response status.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the caller may retry without any state having
// changed on the server.
func (e *AppError) IsRetryable() bool {
	return e.Code == ErrCodeOracleUnavailable
}

// IsNotFound проверяет, является ли ошибка ошибкой "не найдено"
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodePlayerNotFound
}

// IsValidation проверяет, является ли ошибка ошибкой валидации
func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation || e.Code == ErrCodeNoClicksToClaim
}

// IsUnauthorized проверяет, является ли ошибка ошибкой авторизации
func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeForbidden
}

// IsInternal проверяет, является ли ошибка внутренней ошибкой
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeDatabaseError ||
		e.Code == ErrCodeCacheError ||
		e.Code == ErrCodeLedgerWriteFailed ||
		e.Code == ErrCodeOracleUnavailable
}

// WithDetail добавляет детальную информацию к ошибке
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID добавляет ID запроса к ошибке
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New создает новую ошибку приложения
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap оборачивает существующую ошибку
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf оборачивает существующую ошибку с форматированием
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Конструкторы для часто используемых ошибок

// NewValidationError создает ошибку валидации
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewUnauthorizedError создает ошибку авторизации
func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason)).
		WithDetail("reason", reason)
}

// NewNoClicksError создает ошибку "нет кликов для клейма"
func NewNoClicksError(player string) *AppError {
	return New(ErrCodeNoClicksToClaim, "No clicks to claim").
		WithDetail("player", player)
}

// NewOracleError создает ошибку недоступности RPC
func NewOracleError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeOracleUnavailable, fmt.Sprintf("Chain oracle call failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewVerificationError создает ошибку верификации клейма
func NewVerificationError(reason string) *AppError {
	return New(ErrCodeVerificationFailed, fmt.Sprintf("Claim verification failed: %s", reason)).
		WithDetail("reason", reason)
}

// NewLedgerWriteError создает ошибку записи в леджер после верификации
func NewLedgerWriteError(player string, err error) *AppError {
	return Wrap(err, ErrCodeLedgerWriteFailed, "Ledger update failed after on-chain verification").
		WithDetail("player", player)
}

// NewDatabaseError создает ошибку базы данных
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewCacheError создает ошибку кэша
func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCacheError, fmt.Sprintf("Cache operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewRateLimitError создает ошибку превышения лимита запросов
func NewRateLimitError(key string) *AppError {
	return New(ErrCodeTooManyRequests, "Rate limit exceeded").
		WithDetail("key", key)
}

// AsAppError приводит ошибку к AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
