// Package apierror defines the error envelope returned by every API route.
package apierror

const (
	CodeProjectNotFound = "PROJECT_NOT_FOUND"
	CodeIssueNotFound   = "ISSUE_NOT_FOUND"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
	CodeAuthentication  = "AUTHENTICATION_ERROR"
	CodeAuthorization   = "AUTHORIZATION_ERROR"
	CodeConflict        = "CONFLICT"
	CodeRateLimited     = "RATE_LIMITED"
)

// Detail is the inner object of an error response.
type Detail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Body is the JSON body {"error": {...}}.
type Body struct {
	Error Detail `json:"error"`
}

func New(code, message string) Body {
	return Body{Error: Detail{Code: code, Message: message}}
}
