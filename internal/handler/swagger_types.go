package handler

import "github.com/google/uuid"

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@brokerdesk.local"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required" example:"Nimal Perera"`
	Email    string `json:"email" binding:"required" example:"nimal@brokerdesk.local"`
	Password string `json:"password" binding:"required" example:"changeme"`
	Role     string `json:"role" binding:"required" example:"underwriter"`
}

// UpdateUserRequest represents the update user request body.
type UpdateUserRequest struct {
	Name     *string `json:"name" example:"Nimal Perera"`
	Email    *string `json:"email" example:"nimal@brokerdesk.local"`
	Role     *string `json:"role" example:"manager"`
	IsActive *bool   `json:"is_active" example:"true"`
	Password *string `json:"password" example:"newsecret"`
}

// UserStatusRequest sets an account active or inactive. Either field may be used.
type UserStatusRequest struct {
	Status   string `json:"status" example:"inactive"`
	IsActive *bool  `json:"is_active" example:"false"`
}

// --- Response Types ---

// CreatedIDResponse carries the ID of a newly created resource.
type CreatedIDResponse struct {
	ID uuid.UUID `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Cache  string `json:"cache,omitempty" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// PagedResponse wraps a paginated list.
type PagedResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
	Meta    *PagMeta    `json:"meta"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
