package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorDetail carries the stable code/type pair plus a human-readable
// message and remediation suggestion for auth failures.
type ErrorDetail struct {
	Code       string `json:"code"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// AuthErrorResponse is the body of every authentication/authorization
// failure.
type AuthErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// APIResponse is the body of successful API responses
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

// ValidationErrorResponse is the body of request validation failures
type ValidationErrorResponse struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a success response with the
// {status, message, data} shape
func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) error {
	return WriteJSON(w, status, APIResponse{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// WriteList writes a success response carrying a collection and its count
func WriteList(w http.ResponseWriter, message string, data interface{}, count int) error {
	return WriteJSON(w, http.StatusOK, APIResponse{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
		Count:   &count,
	})
}

// WriteAuthError writes a structured authentication/authorization
// failure body
func WriteAuthError(w http.ResponseWriter, status int, code, errType, message, suggestion string) error {
	return WriteJSON(w, status, AuthErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:       code,
			Type:       errType,
			Message:    message,
			Suggestion: suggestion,
		},
	})
}

// WriteValidationError writes a 400 response with per-field messages
func WriteValidationError(w http.ResponseWriter, fields map[string]string) error {
	return WriteJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Status:  http.StatusBadRequest,
		Message: "Validation Error",
		Errors:  fields,
	})
}

// WriteBadRequest writes a 400 Bad Request response
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusBadRequest, APIResponse{
		Status:  http.StatusBadRequest,
		Message: message,
	})
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return WriteJSON(w, http.StatusNotFound, APIResponse{
		Status:  http.StatusNotFound,
		Message: message,
	})
}

// WriteConflict writes a 409 Conflict response
func WriteConflict(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusConflict, APIResponse{
		Status:  http.StatusConflict,
		Message: message,
	})
}

// WriteInternalServerError writes a 500 Internal Server Error response.
// Internals never leak through this path.
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteJSON(w, http.StatusInternalServerError, APIResponse{
		Status:  http.StatusInternalServerError,
		Message: message,
	})
}
