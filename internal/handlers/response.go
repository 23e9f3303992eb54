package handlers

import (
	"encoding/json"
	"net/http"

	"course-qa/internal/utils"
)

// ErrorPayload is the error half of the response envelope. Only the code
// and public message cross the wire; origin errors stay in the logs.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool          `json:"success"`
	Data    interface{}   `json:"data,omitempty"`
	Error   *ErrorPayload `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

func writeAppError(w http.ResponseWriter, appErr *utils.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(utils.AppErrorToHTTPStatus(appErr.Code))
	_ = json.NewEncoder(w).Encode(Envelope{
		Success: false,
		Error:   &ErrorPayload{Code: appErr.Code, Message: appErr.Message},
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeAppError(w, utils.NewValidationError(message))
}

// respondActorResult maps an actor reply onto the envelope: an *AppError
// becomes the error half, anything else is a success payload.
func respondActorResult(w http.ResponseWriter, result interface{}) {
	if appErr, ok := result.(*utils.AppError); ok {
		writeAppError(w, appErr)
		return
	}
	writeData(w, http.StatusOK, result)
}
