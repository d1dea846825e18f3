// Package diagnosis holds the OpenAPI description of the diagnosis service.
package diagnosis

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Fixed status payload; independent of model state",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/dto.StatusResponse"}
                    }
                }
            }
        },
        "/predict": {
            "post": {
                "description": "Classify a base64 image per eye (optionally data-URI prefixed). Each eye is labelled independently: Myopia, Normal, Unknown, Error, or Model Error when no model is loaded.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["diagnosis"],
                "summary": "Diagnose both eyes",
                "parameters": [
                    {
                        "description": "Eye images",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.PredictRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/dto.PredictResponse"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/response.Response"}
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "description": "Checks the model and, when enabled, the result cache",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/response.Response"}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/response.Response"}
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.PredictRequest": {
            "type": "object",
            "required": ["left_eye", "right_eye"],
            "properties": {
                "left_eye": {"type": "string", "example": "data:image/png;base64,iVBORw0KGgo..."},
                "right_eye": {"type": "string"}
            }
        },
        "dto.PredictResponse": {
            "type": "object",
            "properties": {
                "left_diagnosis": {"type": "string", "enum": ["Myopia", "Normal", "Unknown", "Error", "Model Error"]},
                "right_diagnosis": {"type": "string", "enum": ["Myopia", "Normal", "Unknown", "Error", "Model Error"]}
            }
        },
        "dto.StatusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "Backend is running"}
            }
        },
        "response.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/response.ErrorInfo"},
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8001",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Diagnosis API",
	Description:      "Myopia screening from a pair of eye images",
	InfoInstanceName: "diagnosis",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
