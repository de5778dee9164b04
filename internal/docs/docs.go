// Package docs holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o internal/docs
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.CredentialsRequest"}}],
                "responses": {
                    "200": {"description": "User authenticated", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Auth service unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.CredentialsRequest"}}],
                "responses": {
                    "201": {"description": "User registered", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                    "400": {"description": "Invalid input or signup rejected", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout user",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Signed out", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Load the dashboard",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Dashboard"},
                    "502": {"description": "Data service error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Get dashboard totals",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Totals and breakdowns"},
                    "409": {"description": "Dashboard not loaded", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["transactions"],
                "summary": "List transactions",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "income or expense", "name": "type", "in": "query"},
                    {"type": "string", "description": "Category label, uncategorized for none", "name": "category", "in": "query"},
                    {"type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Transactions"},
                    "409": {"description": "Dashboard not loaded", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["transactions"],
                "summary": "Create a transaction",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateTransactionRequest"}}],
                "responses": {
                    "201": {"description": "Transaction created"},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Dashboard not loaded", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Data service error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/transactions/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["transactions"],
                "summary": "Category filter options",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Category labels", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/transactions/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["transactions"],
                "summary": "Update a transaction amount",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Transaction ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateTransactionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Transaction updated"},
                    "404": {"description": "Transaction not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["transactions"],
                "summary": "Delete a transaction",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Transaction ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Transaction deleted"},
                    "404": {"description": "Transaction not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/breakdown/{kind}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["transactions"],
                "summary": "Category breakdown",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "income or expense", "name": "kind", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Breakdown"}
                }
            }
        },
        "/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "List categories",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "income or expense", "name": "type", "in": "query"}],
                "responses": {
                    "200": {"description": "Categories"}
                }
            }
        },
        "/savings-goals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["savings"],
                "summary": "List savings goals",
                "produces": ["application/json"],
                "parameters": [{"type": "boolean", "description": "Refetch from the data service", "name": "refresh", "in": "query"}],
                "responses": {
                    "200": {"description": "Savings goals"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["savings"],
                "summary": "Create a savings goal",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateGoalRequest"}}],
                "responses": {
                    "201": {"description": "Goal created"},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/savings-goals/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["savings"],
                "summary": "Delete a savings goal",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Goal ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Goal deleted", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "404": {"description": "Goal not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/savings-goals/{id}/top-up": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["savings"],
                "summary": "Top up a savings goal",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Goal ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Goal after top-up"},
                    "404": {"description": "Goal not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Data service error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/savings-goals/{id}/progress": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["savings"],
                "summary": "Savings goal progress",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Goal ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Progress", "schema": {"$ref": "#/definitions/handlers.ProgressResponse"}}
                }
            }
        },
        "/activity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["activity"],
                "summary": "List activity",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Audit entries"}
                }
            }
        }
    },
    "definitions": {
        "handlers.CredentialsRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 255},
                "password": {"type": "string", "maxLength": 128}
            }
        },
        "handlers.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "handlers.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "integer"},
                "user": {"$ref": "#/definitions/handlers.UserResponse"}
            }
        },
        "handlers.CreateTransactionRequest": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "amount": {"type": "string"},
                "description": {"type": "string", "maxLength": 500},
                "type": {"type": "string", "enum": ["income", "expense"]},
                "category_id": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "handlers.UpdateTransactionRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"}
            }
        },
        "handlers.CreateGoalRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "target_amount": {"type": "string"},
                "current_amount": {"type": "string"},
                "willing_to_add": {"type": "string"},
                "target_date": {"type": "string"},
                "category": {"type": "string"}
            }
        },
        "handlers.ProgressResponse": {
            "type": "object",
            "properties": {
                "goal_id": {"type": "string"},
                "progress": {"type": "number"}
            }
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handlers.ErrorDetail"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the session token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "fintrack API",
	Description:      "fintrack tracks income, expenses and savings goals on top of a hosted data and auth service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
