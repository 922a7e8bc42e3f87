package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile       ErrorCategory = "file"
	CategoryParse      ErrorCategory = "parse"
	CategoryValidation ErrorCategory = "validation"
	CategoryStore      ErrorCategory = "store"
	CategoryExport     ErrorCategory = "export"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileAccessDenied ErrorCode = "file_access_denied"
	CodeFileNotFound     ErrorCode = "file_not_found"
	CodeEmptyFile        ErrorCode = "empty_file"

	// Parse errors
	CodeInvalidFormat        ErrorCode = "invalid_format"
	CodeParsingError         ErrorCode = "parsing_error"
	CodeMissingRequiredField ErrorCode = "missing_required_field"
	CodeEmptyRequiredField   ErrorCode = "empty_required_field"

	// Validation errors
	CodeInvalidDateFormat      ErrorCode = "invalid_date_format"
	CodeInvalidAmountFormat    ErrorCode = "invalid_amount_format"
	CodeInvalidTransactionType ErrorCode = "invalid_transaction_type"
	CodeInvalidData            ErrorCode = "invalid_data"

	// Store errors
	CodeDuplicateTransaction ErrorCode = "duplicate_transaction"
	CodeDecodingFailed       ErrorCode = "decoding_failed"

	// Export errors
	CodeUnsupportedFormat ErrorCode = "unsupported_format"
	CodeWriteFailed       ErrorCode = "write_failed"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// ExchangeError is the base error type for all application errors
type ExchangeError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *ExchangeError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *ExchangeError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *ExchangeError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryStore:
		return 4
	case CategoryExport:
		return 5
	case CategoryInternal:
		return 6
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *ExchangeError) WithContext(key string, value interface{}) *ExchangeError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ExchangeError) WithSuggestion(suggestion string) *ExchangeError {
	e.Suggestion = suggestion
	return e
}

// New creates a new ExchangeError
func New(category ErrorCategory, code ErrorCode, message string) *ExchangeError {
	return &ExchangeError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with ExchangeError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *ExchangeError {
	if err == nil {
		return nil
	}

	return &ExchangeError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *ExchangeError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFileAccessDenied:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeEmptyFile:
		message = "CSV file is empty."
		suggestion = "ensure the file contains at least one data row"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *ExchangeError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	if path != "" {
		result = result.WithContext("file_path", path)
	}
	return result.WithSuggestion(suggestion)
}

// RowError creates a parse error for a single CSV row, tagged with its
// 1-based line number. Row errors are recovered locally by the import
// pipeline: they are collected, the row is skipped and processing continues.
func RowError(code ErrorCode, line int, field, value string, err error) *ExchangeError {
	var message string
	var suggestion string

	switch code {
	case CodeMissingRequiredField:
		message = fmt.Sprintf("Line %d: missing required field '%s'", line, field)
		suggestion = "ensure the row has values for all required columns"
	case CodeEmptyRequiredField:
		message = fmt.Sprintf("Line %d: required field '%s' is empty", line, field)
		suggestion = "provide a value for this required field"
	case CodeInvalidDateFormat:
		message = fmt.Sprintf("Line %d: invalid date format '%s'", line, value)
		suggestion = "use a date format like 2024-01-15 or 01/15/2024"
	case CodeInvalidAmountFormat:
		message = fmt.Sprintf("Line %d: invalid amount format '%s'", line, value)
		suggestion = "use decimal amounts like 1234.56, $1,234.56 or -4.50"
	case CodeInvalidTransactionType:
		message = fmt.Sprintf("Line %d: invalid transaction type '%s'", line, value)
		suggestion = "use income, expense or transfer"
	case CodeDuplicateTransaction:
		message = fmt.Sprintf("Line %d: duplicate transaction", line)
		suggestion = "the same transaction already exists in the store"
	default:
		message = fmt.Sprintf("Line %d: invalid data in field '%s': '%s'", line, field, value)
		suggestion = "correct the data format or remove the invalid entry"
	}

	var result *ExchangeError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("line", line).
		WithContext("field", field).
		WithContext("value", value)
}

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, field string, value interface{}, err error) *ExchangeError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidDateFormat:
		message = fmt.Sprintf("invalid date in field '%s': %v", field, value)
		suggestion = "use date format YYYY-MM-DD or MM/DD/YYYY"
	case CodeInvalidAmountFormat:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "ensure amounts are valid decimal numbers (e.g., '12.34')"
	case CodeInvalidTransactionType:
		message = fmt.Sprintf("invalid transaction type in field '%s': %v", field, value)
		suggestion = "use income, expense or transfer"
	case CodeMissingRequiredField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *ExchangeError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// StoreError creates a persistence-related error
func StoreError(code ErrorCode, operation string, err error) *ExchangeError {
	var message string
	var suggestion string

	switch code {
	case CodeDuplicateTransaction:
		message = fmt.Sprintf("duplicate transaction during %s", operation)
		suggestion = "the same transaction already exists in the store"
	case CodeDecodingFailed:
		message = fmt.Sprintf("failed to decode stored record during %s", operation)
		suggestion = "the stored data may be corrupted; verify the store contents"
	default:
		message = fmt.Sprintf("store error during %s", operation)
		suggestion = "check the store connection and try again"
	}

	var result *ExchangeError
	if err != nil {
		result = Wrap(err, CategoryStore, code, message)
	} else {
		result = New(CategoryStore, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// ExportError creates an export-related error
func ExportError(code ErrorCode, detail string, err error) *ExchangeError {
	var message string
	var suggestion string

	switch code {
	case CodeUnsupportedFormat:
		message = fmt.Sprintf("no serializer for export format '%s'", detail)
		suggestion = "use the csv export format"
	case CodeWriteFailed:
		message = fmt.Sprintf("failed to write export file: %s", detail)
		suggestion = "check disk space and directory permissions"
	default:
		message = fmt.Sprintf("export error: %s", detail)
		suggestion = "check the export settings and try again"
	}

	var result *ExchangeError
	if err != nil {
		result = Wrap(err, CategoryExport, code, message)
	} else {
		result = New(CategoryExport, code, message)
	}

	return result.WithSuggestion(suggestion)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *ExchangeError {
	message := fmt.Sprintf("unexpected error during %s", operation)

	var result *ExchangeError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// ErrorSummary provides a summary of multiple errors
type ErrorSummary struct {
	Total      int                   `json:"total"`
	ByCategory map[ErrorCategory]int `json:"by_category"`
	ByCode     map[ErrorCode]int     `json:"by_code"`
	Errors     []*ExchangeError      `json:"errors"`
}

// NewErrorSummary creates a new error summary
func NewErrorSummary(errs []*ExchangeError) *ErrorSummary {
	summary := &ErrorSummary{
		Total:      len(errs),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errs,
	}

	for _, err := range errs {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	return summary
}

// Error returns a formatted error message for the summary
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// HasCode checks if the summary contains errors with the given code
func (es *ErrorSummary) HasCode(code ErrorCode) bool {
	count, exists := es.ByCode[code]
	return exists && count > 0
}

// Utility functions

// IsExchangeError checks if an error is an ExchangeError
func IsExchangeError(err error) bool {
	_, ok := err.(*ExchangeError)
	return ok
}

// AsExchangeError extracts an ExchangeError from an error chain
func AsExchangeError(err error) (*ExchangeError, bool) {
	var exchangeErr *ExchangeError
	if errors.As(err, &exchangeErr) {
		return exchangeErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given error code
func HasCode(err error, code ErrorCode) bool {
	if exchangeErr, ok := AsExchangeError(err); ok {
		return exchangeErr.Code == code
	}
	return false
}
