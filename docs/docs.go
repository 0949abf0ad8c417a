// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "Token pair"}, "401": {"description": "Invalid credentials"}, "403": {"description": "User inactive"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh tokens", "responses": {"200": {"description": "Token pair"}, "401": {"description": "Invalid or expired token"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "Current user"}}}},
        "/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "List of users"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create a user", "responses": {"201": {"description": "User created"}, "409": {"description": "Email already exists"}}}
        },
        "/users/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get user by ID", "responses": {"200": {"description": "User details"}, "404": {"description": "User not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update a user", "responses": {"200": {"description": "User updated"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Delete a user", "responses": {"200": {"description": "User deleted"}}}
        },
        "/users/{id}/status": {"patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Activate or deactivate a user", "responses": {"200": {"description": "User updated"}}}},
        "/clients": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "List clients", "responses": {"200": {"description": "Clients"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Create a client", "responses": {"201": {"description": "Client created"}, "409": {"description": "Policy number already exists"}}}
        },
        "/clients/export": {"get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Export clients", "responses": {"200": {"description": "Export file"}}}},
        "/clients/search": {"post": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Search clients", "responses": {"200": {"description": "Matching clients"}}}},
        "/clients/with-documents": {"post": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Create a client with documents", "responses": {"201": {"description": "Client created"}}}},
        "/clients/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Get client by ID", "responses": {"200": {"description": "Client"}, "404": {"description": "Client not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Update a client", "responses": {"200": {"description": "Client updated"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Delete a client", "responses": {"200": {"description": "Client deleted"}}}
        },
        "/clients/{id}/with-documents": {"put": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Update a client with documents", "responses": {"200": {"description": "Client updated"}}}},
        "/clients/{id}/documents": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "List a client's documents", "responses": {"200": {"description": "Documents"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Upload a client document", "responses": {"201": {"description": "Stored"}}}
        },
        "/clients/{id}/documents/{name}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "View a client document", "responses": {"200": {"description": "Document"}, "404": {"description": "Document not found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Remove a client document", "responses": {"200": {"description": "Removed"}}}
        },
        "/clients/{id}/documents/{name}/download": {"get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Download a client document", "responses": {"200": {"description": "Document"}}}},
        "/clients/{id}/documents/{name}/access": {"get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Document access report", "responses": {"200": {"description": "Access report"}}}},
        "/documents/temp": {"post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Upload a document before the client exists", "responses": {"201": {"description": "Stored"}}}},
        "/test-file-access": {"get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Path diagnostics", "responses": {"200": {"description": "Diagnostics"}}}},
        "/repair-all-documents": {"post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Repair document paths", "responses": {"200": {"description": "Repair report"}}}},
        "/dashboard/overview": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Client book overview", "responses": {"200": {"description": "Overview"}}}},
        "/dashboard/admin": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Account overview", "responses": {"200": {"description": "Account overview"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "BrokerDesk API",
	Description:      "Back-office API for insurance brokerage client records and their documents.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
