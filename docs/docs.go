// Package docs registers the OpenAPI description served under /swagger/.
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
            "get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/signup": {
            "post": {"tags": ["auth"], "summary": "Sign up as a student or faculty member", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "data contains the user"}, "400": {"description": "error.code: bad_request"}, "409": {"description": "error.code: conflict"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Log in with email and password", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "data contains token and user"}, "401": {"description": "error.code: unauthorized"}}}
        },
        "/events": {
            "get": {"tags": ["events"], "summary": "List events", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "integer", "name": "organizer_id", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "data contains items and pagination"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Create an event", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "data contains the created event"}, "400": {"description": "error.code: bad_request"}, "403": {"description": "error.code: forbidden"}}}
        },
        "/events/{eventID}": {
            "get": {"tags": ["events"], "summary": "Get an event by ID", "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the event"}, "404": {"description": "error.code: not_found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Update event details", "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the updated event"}, "403": {"description": "error.code: forbidden"}, "404": {"description": "error.code: not_found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Delete an event", "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data.status: deleted"}, "409": {"description": "error.code: conflict"}}}
        },
        "/events/{eventID}/availability": {
            "get": {"tags": ["tickets"], "summary": "Get remaining tickets for an event", "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains availability"}, "404": {"description": "error.code: not_found"}}}
        },
        "/events/{eventID}/tickets": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["tickets"], "summary": "Purchase a ticket", "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"201": {"description": "data contains the ticket"}, "404": {"description": "error.code: not_found"}, "409": {"description": "error.code: sold_out"}}}
        },
        "/tickets/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["tickets"], "summary": "List my tickets", "responses": {"200": {"description": "data contains tickets"}}}
        },
        "/tickets/code/{code}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["tickets"], "summary": "Get a ticket by code", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the ticket"}, "404": {"description": "error.code: not_found"}}}
        },
        "/tickets/{ticketID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["tickets"], "summary": "Get a ticket by ID", "parameters": [{"type": "integer", "name": "ticketID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the ticket"}, "404": {"description": "error.code: not_found"}}}
        },
        "/tickets/{ticketID}/cancel": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["tickets"], "summary": "Cancel a ticket", "parameters": [{"type": "integer", "name": "ticketID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the cancelled ticket"}, "409": {"description": "error.code: invalid_state"}}}
        },
        "/tickets/{ticketID}/redeem": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["tickets"], "summary": "Redeem a ticket at the door", "parameters": [{"type": "integer", "name": "ticketID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the used ticket"}, "409": {"description": "error.code: invalid_state"}}}
        },
        "/event-requests": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["event-requests"], "summary": "List event requests",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "data contains items and pagination"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["event-requests"], "summary": "Submit an event request",
                "responses": {"201": {"description": "data contains the pending request"}, "400": {"description": "error.code: bad_request"}}}
        },
        "/event-requests/{requestID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["event-requests"], "summary": "Get an event request", "parameters": [{"type": "integer", "name": "requestID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains the request"}, "403": {"description": "error.code: forbidden"}, "404": {"description": "error.code: not_found"}}}
        },
        "/event-requests/{requestID}/review": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["event-requests"], "summary": "Approve or reject an event request", "parameters": [{"type": "integer", "name": "requestID", "in": "path", "required": true}],
                "responses": {"200": {"description": "data contains request and event"}, "403": {"description": "error.code: forbidden"}, "409": {"description": "error.code: invalid_state"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Campus Booking API",
	Description:      "Event catalog, event request review and ticket booking for a college campus.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
