package dto

import "github.com/yukikurage/team-task-tracker/internal/utils"

// Response is the envelope of every successful response
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewResponse wraps data with a message
func NewResponse(message string, data interface{}) Response {
	return Response{Message: message, Data: data}
}

// Pagination is the metadata attached to list responses
type Pagination = utils.PaginationResponse
