package dto

// APIResponse is the success envelope
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Crop deleted successfully"`
	Data    interface{} `json:"data,omitempty"`
}

// MessageResponse carries only a message
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Logged out successfully"`
}

// NewSuccessResponse wraps data in the success envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// NewMessageResponse builds a message-only success envelope
func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}
