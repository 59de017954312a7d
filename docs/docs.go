// Package docs registers the OpenAPI description served under /swagger.
// It mirrors the godoc annotations on the handlers; keep both in sync when routes change.
// Host and schemes are left empty so the UI targets whatever host served it.
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
        "/api/courses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "List courses",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Course"}}
                    }
                }
            }
        },
        "/api/courses/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["courses"],
                "summary": "Get a course",
                "parameters": [
                    {"type": "string", "description": "Course id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Course"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/info": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service identity and document count",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.infoResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/pdf/list": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List documents",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/pdf/{filename}": {
            "get": {
                "description": "Streams the named file inline. Names containing \"..\", \"/\" or \"\\\" are rejected.",
                "produces": ["application/pdf"],
                "tags": ["documents"],
                "summary": "Stream a document",
                "parameters": [
                    {"type": "string", "description": "File name, e.g. ch1.pdf", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/pdfs/{filename}": {
            "get": {
                "description": "Streams the named file inline. Names containing \"..\", \"/\" or \"\\\" are rejected.",
                "produces": ["application/pdf"],
                "tags": ["documents"],
                "summary": "Stream a document",
                "parameters": [
                    {"type": "string", "description": "File name, e.g. ch1.pdf", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "details": {"type": "string"},
                "error": {"type": "string"},
                "method": {"type": "string"},
                "path": {"type": "string"},
                "request_id": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.infoResponse": {
            "type": "object",
            "properties": {
                "environment": {"type": "string"},
                "pdfCount": {"type": "integer"},
                "port": {"type": "string"},
                "server": {"type": "string"},
                "success": {"type": "boolean"},
                "timestamp": {"type": "string"},
                "uptime": {"type": "number"},
                "version": {"type": "string"}
            }
        },
        "handler.listResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "pdfs": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}},
                "success": {"type": "boolean"},
                "timestamp": {"type": "string"}
            }
        },
        "model.Course": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "model.Document": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "lastModified": {"type": "string"},
                "size": {"type": "integer"},
                "title": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo is registered with swag under the default instance name.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Archiv API",
	Description:      "Lists and streams the course PDFs of the Archiv portal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
