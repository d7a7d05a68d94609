// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/hr_backend/main.go -o cmd/docs
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
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Operator login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/google/login-url": {"get": {"tags": ["auth"], "summary": "Google consent URL", "responses": {"200": {"description": "OK"}}}},
        "/auth/google/exchange-code": {"post": {"tags": ["auth"], "summary": "Exchange a Google authorization code", "responses": {"200": {"description": "OK"}}}},
        "/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List operators", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create an operator account", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/users/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Current operator", "responses": {"200": {"description": "OK"}}}},
        "/users/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get an operator by ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update an operator's name", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/departments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "List departments", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Create a department", "responses": {"201": {"description": "Created"}, "409": {"description": "Duplicate name"}}}
        },
        "/departments/export": {"get": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Export departments", "produces": ["application/octet-stream"], "responses": {"200": {"description": "OK"}}}},
        "/departments/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Get a department", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Rename a department or change its manager", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Delete an empty department", "responses": {"204": {"description": "No Content"}, "409": {"description": "Department not empty"}}}
        },
        "/departments/{id}/merge": {"post": {"security": [{"BearerAuth": []}], "tags": ["departments"], "summary": "Merge a department into another", "responses": {"200": {"description": "OK"}}}},
        "/employees": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "List employees", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "Create an employee", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}}
        },
        "/employees/managers": {"get": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "List employees eligible as managers", "responses": {"200": {"description": "OK"}}}},
        "/employees/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "Get an employee", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "Replace an employee's details", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "Delete an employee", "responses": {"204": {"description": "No Content"}}}
        },
        "/employees/bulk/status": {"post": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "Set the status of many employees", "responses": {"200": {"description": "OK"}}}},
        "/employees/bulk/move": {"post": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "Move many employees to a department", "responses": {"200": {"description": "OK"}}}},
        "/employees/bulk/delete": {"post": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "Delete many employees", "responses": {"200": {"description": "OK"}}}},
        "/employees/import": {"post": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "Import employees from CSV", "consumes": ["multipart/form-data"], "responses": {"200": {"description": "OK"}}}},
        "/employees/export": {"get": {"security": [{"BearerAuth": []}], "tags": ["employees"], "summary": "Export employees", "responses": {"200": {"description": "OK"}}}},
        "/reconciliation/recount": {"post": {"security": [{"BearerAuth": []}], "tags": ["reconciliation"], "summary": "Recompute every department member count", "responses": {"200": {"description": "OK"}}}},
        "/reconciliation/legacy": {"get": {"security": [{"BearerAuth": []}], "tags": ["reconciliation"], "summary": "Plan the legacy department reference migration", "responses": {"200": {"description": "OK"}}}},
        "/reconciliation/legacy/apply": {"post": {"security": [{"BearerAuth": []}], "tags": ["reconciliation"], "summary": "Apply the legacy department reference migration", "responses": {"200": {"description": "OK"}}}},
        "/reconciliation/departments/{id}/adjust": {"post": {"security": [{"BearerAuth": []}], "tags": ["reconciliation"], "summary": "Apply a manual delta to a department's member count", "responses": {"204": {"description": "No Content"}}}},
        "/audit": {"get": {"security": [{"BearerAuth": []}], "tags": ["audit"], "summary": "Recent audit events", "responses": {"200": {"description": "OK"}}}},
        "/stream": {"get": {"security": [{"BearerAuth": []}], "tags": ["audit"], "summary": "Live change stream", "produces": ["text/event-stream"], "responses": {"200": {"description": "OK"}}}},
        "/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Workforce summary", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "HR Admin API",
	Description:      "Employees, departments and member count reconciliation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
