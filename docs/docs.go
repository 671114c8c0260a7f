// Package docs registers the Swagger spec served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@cardhub.local"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh tokens",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/card-requests": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Create a card request",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/card-requests/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "List card requests",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/card-requests/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Get a card request",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Save one stage of a card request",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/card-requests/{id}/submit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Submit a card request for approval",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/card-requests/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Approve a submitted card request",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/card-requests/{id}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Return a submitted card request for rework",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/card-requests/{id}/assign-card": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Assign a test card to an approved request",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/card-requests/{id}/ship": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Record shipment details and mark the request shipped",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/card-requests/{id}/complete-shipment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Complete a card request",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/card-requests/{id}/stop-fulfillment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Stop fulfillment of an in-flight request",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/card-requests/check-tracking-number": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["card-requests"],
                "summary": "Count how many other shipments reuse the given tracking numbers",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/partners": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lookups"],
                "summary": "List active partners",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/cards/list": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lookups"],
                "summary": "List active card products",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/cards/vault-count": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lookups"],
                "summary": "Count unassigned vault cards for a card profile",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/issuers/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lookups"],
                "summary": "Get an issuer",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/users/testers/{partner_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lookups"],
                "summary": "List a partner's active testers",
                "parameters": [{"name": "partner_id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/test-cases/filter/terminal": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["lookups"],
                "summary": "List test cases for a terminal type",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard/fulfillment": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Fulfillment summary",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and JWT token."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "CardHub API",
	Description:      "Test card issuance admin console API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
