package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AeroLink API",
        "description": "Flight operations API: airports, fleet, flights, crew rostering and bookings",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "auth", "description": "Authentication and sessions"},
        {"name": "airports", "description": "Airport registry"},
        {"name": "aircraft", "description": "Fleet management"},
        {"name": "flights", "description": "Flight scheduling and search"},
        {"name": "crew", "description": "Crew roster"},
        {"name": "passengers", "description": "Passenger accounts"},
        {"name": "admins", "description": "Admin accounts"},
        {"name": "assignments", "description": "Flight crew assignments"},
        {"name": "bookings", "description": "Seat reservations"},
        {"name": "exports", "description": "Manifest exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a passenger account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email or phone already registered"}
                }
            }
        },
        "/flights": {
            "get": {
                "tags": ["flights"],
                "summary": "List flights",
                "parameters": [
                    {"name": "origin", "in": "query", "type": "string"},
                    {"name": "destination", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["flights"],
                "summary": "Schedule a flight",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings": {
            "post": {
                "tags": ["bookings"],
                "summary": "Reserve a seat",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Seat already booked or flight full"}
                }
            }
        },
        "/flights/{id}/manifest": {
            "post": {
                "tags": ["exports"],
                "summary": "Queue a manifest export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SignupRequest": {
            "type": "object",
            "required": ["email", "password", "fname", "lname", "phone_number"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "fname": {"type": "string"},
                "lname": {"type": "string"},
                "phone_number": {"type": "string"}
            }
        },
        "CreateBookingRequest": {
            "type": "object",
            "required": ["flight_id"],
            "properties": {
                "flight_id": {"type": "string"},
                "seat_number": {"type": "string"},
                "passenger_id": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
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
