package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AI Concierge API",
        "description": "WhatsApp/Telegram concierge for the catechism service",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Webhooks", "description": "Inbound messaging webhooks"},
        {"name": "Sessions", "description": "Admin authentication"},
        {"name": "Renseignements", "description": "Announcement management"},
        {"name": "Catechumenes", "description": "Student roster"},
        {"name": "Classes", "description": "Class catalogue"},
        {"name": "Inscriptions", "description": "Enrollment lifecycle"},
        {"name": "Stats", "description": "Admin dashboard and exports"},
        {"name": "Pages", "description": "Temporary shareable pages"},
        {"name": "Files", "description": "Signed file downloads"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/webhook": {
            "get": {
                "tags": ["Webhooks"],
                "summary": "Webhook verification echo",
                "parameters": [
                    {"name": "hub.verify_token", "in": "query", "type": "string", "required": true},
                    {"name": "hub.challenge", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Challenge echoed"},
                    "403": {"description": "Verification failed"}
                }
            },
            "post": {
                "tags": ["Webhooks"],
                "summary": "Receive a WhatsApp webhook event",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Queued or ignored"},
                    "503": {"description": "Queue full"}
                }
            }
        },
        "/telegram/webhook": {
            "post": {
                "tags": ["Webhooks"],
                "summary": "Receive a Telegram update",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Queued or ignored"},
                    "401": {"description": "Bad secret token"},
                    "503": {"description": "Queue full"}
                }
            }
        },
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Authenticate an admin phone with its access code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/sessions/me": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Current session claims",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/renseignements": {
            "get": {
                "tags": ["Renseignements"],
                "summary": "List renseignements",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "categorie", "in": "query", "type": "string"},
                    {"name": "statut", "in": "query", "type": "string"},
                    {"name": "active_only", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Renseignements"],
                "summary": "Create renseignement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RenseignementRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/renseignements/{id}": {
            "get": {
                "tags": ["Renseignements"],
                "summary": "Get renseignement",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Renseignements"],
                "summary": "Update renseignement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RenseignementRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Renseignements"],
                "summary": "Delete renseignement",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/catechumenes": {
            "get": {
                "tags": ["Catechumenes"],
                "summary": "List catechumenes",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "classe_id", "in": "query", "type": "string"},
                    {"name": "actif", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catechumenes"],
                "summary": "Create catechumene",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes with current headcount",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "annee_scolaire", "in": "query", "type": "string"},
                    {"name": "niveau", "in": "query", "type": "string"},
                    {"name": "actif", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inscriptions": {
            "get": {
                "tags": ["Inscriptions"],
                "summary": "List inscriptions",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "catechumene_id", "in": "query", "type": "string"},
                    {"name": "classe_id", "in": "query", "type": "string"},
                    {"name": "annee_scolaire", "in": "query", "type": "string"},
                    {"name": "statut", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Inscriptions"],
                "summary": "Create inscription",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Already enrolled"}
                }
            }
        },
        "/admin/stats": {
            "get": {
                "tags": ["Stats"],
                "summary": "Admin dashboard counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/stats/export": {
            "get": {
                "tags": ["Stats"],
                "summary": "Export enrollments as csv or pdf",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string"},
                    {"name": "annee_scolaire", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Download token issued"}
                }
            }
        },
        "/pages": {
            "post": {
                "tags": ["Pages"],
                "summary": "Publish a temporary page",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/pages/{token}": {
            "get": {
                "tags": ["Pages"],
                "summary": "Read a temporary page by token",
                "parameters": [{"name": "token", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Expired or unknown"}
                }
            }
        },
        "/files/{token}": {
            "get": {
                "tags": ["Files"],
                "summary": "Download an exported file",
                "parameters": [{"name": "token", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Bad or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "phone": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "RenseignementRequest": {
            "type": "object",
            "properties": {
                "titre": {"type": "string"},
                "contenu": {"type": "string"},
                "categorie": {"type": "string"},
                "priorite": {"type": "string"},
                "date_debut": {"type": "string", "format": "date-time"},
                "date_fin": {"type": "string", "format": "date-time"}
            }
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
