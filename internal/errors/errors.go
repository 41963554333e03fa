package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidEmailFormat is returned when an email does not look like local@domain.tld.
	ErrInvalidEmailFormat = errors.New("Please enter a valid email address (e.g., user@example.com)")
	// ErrInvalidEmailDomain is returned when the email domain has fewer than 2 or more than 3 labels.
	ErrInvalidEmailDomain = errors.New("Please use a valid email domain (e.g., gmail.com, company.co.uk).")
	// ErrDuplicateEmail is returned when another account already uses the email.
	ErrDuplicateEmail = errors.New("This email is already registered.")
	// ErrDuplicateUsername is returned when another account already uses the username.
	ErrDuplicateUsername = errors.New("A user with that username already exists.")
	// ErrPasswordMismatch is returned when the password confirmation differs.
	ErrPasswordMismatch = errors.New("The two password fields didn't match.")
	// ErrPasswordTooShort is returned when the password is shorter than the minimum.
	ErrPasswordTooShort = errors.New("This password is too short. It must contain at least 8 characters.")
	// ErrUsernameRequired is returned when the username is blank after trimming.
	ErrUsernameRequired = errors.New("username is required")

	// ErrAccountNotFound is returned when an account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrPostNotFound is returned when a post is not found.
	ErrPostNotFound = errors.New("post not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateCategory is returned when a category name is already taken.
	ErrDuplicateCategory = errors.New("category already exists")
	// ErrCategoryNameRequired is returned when a category name is blank after trimming.
	ErrCategoryNameRequired = errors.New("category name is required")
	// ErrTitleRequired is returned when a post title is blank after trimming.
	ErrTitleRequired = errors.New("post title is required")
	// ErrCategoryInUse is returned when deleting a category that posts still reference.
	ErrCategoryInUse = errors.New("category is used by posts")
	// ErrInvalidStatus is returned when a post status is neither Draft nor Published.
	ErrInvalidStatus = errors.New("status must be Draft or Published")
	// ErrUnknownCategory is returned when a post references a missing category.
	ErrUnknownCategory = errors.New("selected category does not exist")

	// ErrStorageDisabled is returned when object storage is not configured.
	ErrStorageDisabled = errors.New("image storage is not configured")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrInvalidEmailFormat, http.StatusBadRequest, "INVALID_EMAIL_FORMAT"},
	{ErrInvalidEmailDomain, http.StatusBadRequest, "INVALID_EMAIL_DOMAIN"},
	{ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
	{ErrDuplicateUsername, http.StatusConflict, "DUPLICATE_USERNAME"},
	{ErrPasswordMismatch, http.StatusBadRequest, "PASSWORD_MISMATCH"},
	{ErrPasswordTooShort, http.StatusBadRequest, "PASSWORD_TOO_SHORT"},
	{ErrUsernameRequired, http.StatusBadRequest, "USERNAME_REQUIRED"},
	{ErrAccountNotFound, http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
	{ErrPostNotFound, http.StatusNotFound, "POST_NOT_FOUND"},
	{ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
	{ErrDuplicateCategory, http.StatusConflict, "DUPLICATE_CATEGORY"},
	{ErrCategoryInUse, http.StatusConflict, "CATEGORY_IN_USE"},
	{ErrCategoryNameRequired, http.StatusBadRequest, "CATEGORY_NAME_REQUIRED"},
	{ErrTitleRequired, http.StatusBadRequest, "TITLE_REQUIRED"},
	{ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{ErrUnknownCategory, http.StatusBadRequest, "UNKNOWN_CATEGORY"},
	{ErrStorageDisabled, http.StatusServiceUnavailable, "STORAGE_DISABLED"},
}

// MapErrorToHTTP maps domain errors (possibly wrapped) to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, m.err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
