package common

import "errors"

type ErrorCode string

const (
	ErrorCodeValidation  ErrorCode = "validation"
	ErrorCodeDuplicate   ErrorCode = "duplicate"
	ErrorCodeStorage     ErrorCode = "storage"
	ErrorCodeConsistency ErrorCode = "consistency"
	ErrorCodeNotFound    ErrorCode = "not_found"
	ErrorCodeInternal    ErrorCode = "internal"

	ErrorCodeUnauthorized ErrorCode = "unauthorized"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

func NewServiceError(code ErrorCode, message string) error {
	return &ServiceError{Code: code, Message: message}
}

// WrapServiceError 附带底层错误，便于日志排查，Message 仍是对外信息。
func WrapServiceError(code ErrorCode, message string, cause error) error {
	return &ServiceError{Code: code, Message: message, Cause: cause}
}

func NewValidationError(message string) error {
	return NewServiceError(ErrorCodeValidation, message)
}

func NewDuplicateError(message string) error {
	return NewServiceError(ErrorCodeDuplicate, message)
}

func NewStorageError(message string, cause error) error {
	return WrapServiceError(ErrorCodeStorage, message, cause)
}

func NewConsistencyError(message string) error {
	return NewServiceError(ErrorCodeConsistency, message)
}

func NewNotFoundError(message string) error {
	return NewServiceError(ErrorCodeNotFound, message)
}

func NewInternalError(message string) error {
	return NewServiceError(ErrorCodeInternal, message)
}

func NewUnauthorizedError(message string) error {
	return NewServiceError(ErrorCodeUnauthorized, message)
}

func AsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}

// IsCode 判断错误是否属于指定类别。
func IsCode(err error, code ErrorCode) bool {
	if serviceErr, ok := AsServiceError(err); ok {
		return serviceErr.Code == code
	}
	return false
}
