package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Day Results API",
        "description": "Ingestion and aggregation service for lesson completion events",
        "version": "2.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "DayResults", "description": "Submission ingestion and dashboard aggregation"},
        {"name": "Ops", "description": "Liveness and operational endpoints"}
    ],
    "paths": {
        "/": {
            "get": {
                "tags": ["Ops"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Ops"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/day-results": {
            "post": {
                "tags": ["DayResults"],
                "summary": "Ingest a day-results submission",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DayResultsSubmission"}}
                ],
                "responses": {
                    "200": {"description": "Stored", "schema": {"$ref": "#/definitions/OkResponse"}},
                    "400": {"description": "Rejected", "schema": {"$ref": "#/definitions/FailResponse"}}
                }
            },
            "get": {
                "tags": ["DayResults"],
                "summary": "Aggregated day-results views",
                "parameters": [
                    {"name": "mode", "in": "query", "type": "string", "required": true, "enum": ["classes", "sessions"]},
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OkResponse"}},
                    "400": {"description": "Bad mode or missing class", "schema": {"$ref": "#/definitions/FailResponse"}}
                }
            }
        },
        "/day-results/export": {
            "get": {
                "tags": ["DayResults"],
                "summary": "Download class summaries as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "404": {"description": "Exports disabled"}
                }
            }
        }
    },
    "definitions": {
        "DayResultsSubmission": {
            "type": "object",
            "properties": {
                "lessonId": {"type": "string"},
                "classCode": {"type": "string"},
                "participantId": {"type": "string"},
                "completedAt": {"type": "string"},
                "duration_ms": {"type": "number"},
                "score": {"type": "number"},
                "dayResults": {"type": "object"}
            },
            "required": ["lessonId", "dayResults"]
        },
        "OkResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"}
            }
        },
        "FailResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "reason": {"type": "string"},
                "message": {"type": "string"}
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
