// Package docs registers the OpenAPI description served at /swagger.
// Regenerate the full model definitions with `swag init -g cmd/api/main.go`.
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
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Create an account", "responses": {"201": {"description": "Created"}, "409": {"description": "Email already in use"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Rotate the refresh token", "responses": {"200": {"description": "OK"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Revoke the refresh token", "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current account", "responses": {"200": {"description": "OK"}}}},
        "/accounts/{id}/role": {"put": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Change an account's role", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/profiles": {"get": {"security": [{"BearerAuth": []}], "tags": ["profiles"], "summary": "Member directory", "responses": {"200": {"description": "OK"}}}},
        "/profiles/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["profiles"], "summary": "Own profile", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["profiles"], "summary": "Update own profile", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/profiles/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["profiles"], "summary": "Get a profile", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/friends": {"get": {"security": [{"BearerAuth": []}], "tags": ["friends"], "summary": "Friends and pending requests", "responses": {"200": {"description": "OK"}}}},
        "/friends/requests": {"post": {"security": [{"BearerAuth": []}], "tags": ["friends"], "summary": "Send a friend request", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/friends/{id}/accept": {"post": {"security": [{"BearerAuth": []}], "tags": ["friends"], "summary": "Accept a friend request", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Invalid state"}}}},
        "/friends/{id}/decline": {"post": {"security": [{"BearerAuth": []}], "tags": ["friends"], "summary": "Decline a friend request", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Invalid state"}}}},
        "/friends/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["friends"], "summary": "Remove a friend or cancel a request", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/messages": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["messages"], "summary": "Message feed", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["messages"], "summary": "Post a message", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/messages/visibility-options": {"get": {"security": [{"BearerAuth": []}], "tags": ["messages"], "summary": "Visibility tiers the caller may publish at", "responses": {"200": {"description": "OK"}}}},
        "/messages/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["messages"], "summary": "Get a message", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/events": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Events of a month", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Add an event", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/mailing-lists": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["mailing-lists"], "summary": "List mailing lists", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["mailing-lists"], "summary": "Create a mailing list", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/mailing-lists/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["mailing-lists"], "summary": "Get a mailing list with its members", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/mailing-lists/{id}/join": {"post": {"security": [{"BearerAuth": []}], "tags": ["mailing-lists"], "summary": "Join a mailing list", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/mailing-lists/{id}/members/me": {"delete": {"security": [{"BearerAuth": []}], "tags": ["mailing-lists"], "summary": "Leave a mailing list", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/mailing-lists/{id}/send": {"post": {"security": [{"BearerAuth": []}], "tags": ["mailing-lists"], "summary": "Broadcast to a mailing list", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}},
        "/notifications": {"get": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "List notifications", "responses": {"200": {"description": "OK"}}}},
        "/notifications/unread-count": {"get": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Unread notification count", "responses": {"200": {"description": "OK"}}}},
        "/notifications/read-all": {"post": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Mark all notifications as read", "responses": {"200": {"description": "OK"}}}},
        "/notifications/{id}/read": {"post": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Mark a notification as read", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
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
	Title:            "Fellowship API",
	Description:      "Church community directory, friendships, messages, calendar and mailing lists.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
