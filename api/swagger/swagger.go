package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Swed Event Finder API",
        "description": "Event submission, moderation and subscriber notification service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Events", "description": "Event submission and listing"},
        {"name": "Moderation", "description": "One-click approve / reject links"},
        {"name": "Notifications", "description": "Subscriber notification rounds"},
        {"name": "Subscriptions", "description": "Notification subscriptions"},
        {"name": "Retention", "description": "Account retention warnings and cleanup"}
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
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List approved events",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "location", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Submit an event for moderation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Fetch one event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Events"],
                "summary": "Delete an event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/moderate": {
            "get": {
                "tags": ["Moderation"],
                "summary": "Redeem a signed approve or reject link",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "302": {"description": "Approved, redirect to confirmation page"},
                    "200": {"description": "Rejected, inline confirmation"},
                    "400": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown event", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notify": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Run the subscriber notification round for one approved event",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NotifyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Event not approved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subscriptions": {
            "post": {
                "tags": ["Subscriptions"],
                "summary": "Create a notification subscription",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubscriptionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already subscribed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/extend": {
            "get": {
                "tags": ["Retention"],
                "summary": "Extend account retention by one year",
                "parameters": [
                    {"name": "user_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Extended"},
                    "400": {"description": "Malformed account id", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown account", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/retention": {
            "post": {
                "tags": ["Retention"],
                "summary": "Run one retention batch (warn, then delete)",
                "responses": {
                    "200": {"description": "Batch summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "SubmitEventRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "location": {"type": "string"},
                "venue_address": {"type": "string"},
                "starts_at": {"type": "string", "format": "date-time"},
                "ends_at": {"type": "string", "format": "date-time"},
                "organizer_id": {"type": "string"},
                "organizer_email": {"type": "string"},
                "price_cents": {"type": "integer"},
                "currency": {"type": "string"},
                "is_free": {"type": "boolean"},
                "image_url": {"type": "string"}
            },
            "required": ["title", "description", "category", "location", "starts_at", "ends_at", "organizer_id", "organizer_email"]
        },
        "CreateSubscriptionRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "category_filter": {"type": "string"},
                "location_filter": {"type": "string"},
                "keyword_filter": {"type": "string"}
            },
            "required": ["email"]
        },
        "NotifyRequest": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"}
            },
            "required": ["event_id"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
