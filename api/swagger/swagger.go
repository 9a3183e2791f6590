package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student ID Card API",
        "description": "Generates, previews, exports and persists student identity cards",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Cards", "description": "Card lifecycle"},
        {"name": "Preview", "description": "Active preview selection"},
        {"name": "Export", "description": "Downloadable card artifacts"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/cards": {
            "get": {
                "tags": ["Cards"],
                "summary": "List saved cards, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Cards"],
                "summary": "Create a card from form input",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCardRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/cards/preview": {
            "get": {
                "tags": ["Preview"],
                "summary": "Current active preview",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No active preview"}
                }
            }
        },
        "/api/v1/cards/{id}": {
            "get": {
                "tags": ["Cards"],
                "summary": "Get a saved card",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Cards"],
                "summary": "Request deletion (deferred behind confirmation)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Deletion pending confirmation"}
                }
            }
        },
        "/api/v1/cards/{id}/render": {
            "get": {
                "tags": ["Cards"],
                "summary": "Derived display values (valid-until, payload, tags)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/cards/{id}/preview": {
            "post": {
                "tags": ["Preview"],
                "summary": "Select a saved card as the active preview",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/cards/{id}/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the rendered card",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["png", "pdf"], "default": "png"}
                ],
                "responses": {
                    "200": {"description": "Card file attachment"}
                }
            }
        },
        "/api/v1/cards/export/roster": {
            "get": {
                "tags": ["Export"],
                "summary": "Download all saved cards as CSV",
                "responses": {
                    "200": {"description": "CSV attachment"}
                }
            }
        },
        "/api/v1/cards/delete/confirm": {
            "post": {
                "tags": ["Cards"],
                "summary": "Confirm the pending deletion",
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "No deletion pending"}
                }
            }
        },
        "/api/v1/cards/delete/cancel": {
            "post": {
                "tags": ["Cards"],
                "summary": "Cancel the pending deletion",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "StudentRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "rollNumber": {"type": "string"},
                "classDivision": {"type": "string"},
                "allergies": {"type": "array", "items": {"type": "string"}},
                "photo": {"type": "string"},
                "rackNumber": {"type": "string"},
                "busRouteNumber": {"type": "string"},
                "createdAt": {"type": "integer", "format": "int64"},
                "template": {"type": "string", "enum": ["modern", "classic"]}
            }
        },
        "CreateCardRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "rollNumber": {"type": "string"},
                "classDivision": {"type": "string"},
                "allergies": {"type": "array", "items": {"type": "string"}},
                "photo": {"type": "string"},
                "rackNumber": {"type": "string"},
                "busRouteNumber": {"type": "string"},
                "template": {"type": "string", "enum": ["modern", "classic"]}
            },
            "required": ["name", "rollNumber", "classDivision", "photo", "busRouteNumber", "template"]
        },
        "RenderResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "template": {"type": "string"},
                "name": {"type": "string"},
                "rollNumber": {"type": "string"},
                "classDivision": {"type": "string"},
                "rackNumber": {"type": "string"},
                "busRouteNumber": {"type": "string"},
                "validUntil": {"type": "string"},
                "allergyTags": {"type": "array", "items": {"type": "string"}},
                "payload": {"type": "string"},
                "hasPhoto": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
