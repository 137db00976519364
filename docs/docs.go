// Package docs registers the OpenAPI document served at /swagger/*.
// Regenerate with `swag init -g cmd/server/main.go`.
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
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/v1/auth/teacher": {
            "post": {
                "tags": ["auth"], "summary": "Teacher login",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.teacherLoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}
            }
        },
        "/v1/sessions": {
            "post": {
                "tags": ["sessions"], "summary": "Start a new playthrough", "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/v1/sessions/{id}": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["sessions"], "summary": "Get the derived view of a session", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}], "tags": ["sessions"], "summary": "Reset a session to onboarding and erase its snapshot", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/sessions/{id}/events": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["sessions"], "summary": "Apply a UI event to a session",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.eventRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/v1/sessions/{id}/certificate.png": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["sessions"], "summary": "Download the completion certificate", "produces": ["image/png"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "409": {"description": "Conflict"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/v1/classroom/sessions": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["classroom"], "summary": "List persisted sessions, most recent first", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/v1/classroom/sessions/{id}/journal": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["classroom"], "summary": "Play journal of one session", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.tokenResponse": {"type": "object", "properties": {"token": {"type": "string"}}},
        "handler.teacherLoginRequest": {"type": "object", "required": ["password"], "properties": {"password": {"type": "string"}}},
        "handler.eventRequest": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "type": {"type": "string", "enum": ["set_name", "select_avatar", "enroll", "dismiss_overlay", "roll_dice", "graduate", "choose_option", "view_account_book", "write_diary", "view_result", "back_to_account_book", "start_compound", "set_years", "set_rate", "open_quiz", "submit_answer", "claim_certificate"]},
                "name": {"type": "string", "maxLength": 40},
                "avatar": {"type": "string", "enum": ["jjangi", "eongi", "rami"]},
                "situation": {"type": "integer", "minimum": 1},
                "option": {"type": "string"},
                "text": {"type": "string", "maxLength": 2000},
                "years": {"type": "integer", "minimum": 1, "maximum": 30},
                "rate": {"type": "number"},
                "blank": {"type": "string", "enum": ["blank1", "blank2", "blank3"]},
                "word": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Compound Interest School API",
	Description:      "Game-session service for the compound interest classroom game.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
