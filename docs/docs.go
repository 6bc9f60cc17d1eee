// Package docs registers the OpenAPI document served at /api-docs.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
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
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.HealthResponse"}}
                }
            }
        },
        "/upload/": {
            "post": {
                "description": "Store a PDF receipt and create the purchase record that references it",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Upload a purchase",
                "parameters": [
                    {"type": "string", "description": "Customer name", "name": "customer_name", "in": "formData", "required": true},
                    {"type": "string", "description": "Customer surname", "name": "customer_surname", "in": "formData", "required": true},
                    {"type": "string", "description": "Customer tax code (Codice Fiscale)", "name": "customer_cf", "in": "formData", "required": true},
                    {"type": "string", "description": "Credit card number", "name": "credit_card", "in": "formData", "required": true},
                    {"type": "string", "description": "Product name", "name": "product_name", "in": "formData", "required": true},
                    {"type": "number", "description": "Price", "name": "price", "in": "formData", "required": true},
                    {"type": "string", "description": "Purchase date (YYYY-MM-DD)", "name": "date", "in": "formData", "required": true},
                    {"type": "file", "description": "Receipt PDF", "name": "receipt", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Purchase uploaded", "schema": {"$ref": "#/definitions/model.UploadPurchaseResponse"}},
                    "413": {"description": "Receipt too large", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Missing or malformed fields", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/search": {
            "get": {
                "description": "Case-insensitive substring search, primarily on the customer tax code. No filter returns every purchase.",
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Search purchases",
                "parameters": [
                    {"type": "string", "description": "Tax code substring", "name": "cf", "in": "query"},
                    {"type": "string", "description": "Customer name substring", "name": "name", "in": "query"},
                    {"type": "string", "description": "Customer surname substring", "name": "surname", "in": "query"},
                    {"type": "string", "description": "Credit card substring", "name": "cc", "in": "query"},
                    {"type": "string", "description": "Product name substring", "name": "product", "in": "query"},
                    {"type": "string", "description": "Exact purchase date (YYYY-MM-DD)", "name": "date", "in": "query"},
                    {"type": "integer", "description": "Maximum number of results, 0 for all", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Number of results to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Matching purchases", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.PurchaseResponse"}}},
                    "422": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/purchase/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Get a purchase by ID",
                "parameters": [
                    {"type": "integer", "description": "Purchase ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Purchase details", "schema": {"$ref": "#/definitions/model.PurchaseResponse"}},
                    "404": {"description": "Purchase not found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Invalid purchase ID", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Delete a purchase together with its stored receipt",
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Delete a purchase",
                "parameters": [
                    {"type": "integer", "description": "Purchase ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Purchase deleted", "schema": {"$ref": "#/definitions/model.MessageResponse"}},
                    "404": {"description": "Purchase not found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "422": {"description": "Invalid purchase ID", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.ErrorDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string", "example": "Purchase not found"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/model.ErrorDetail"}}
            }
        },
        "model.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "model.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Purchase deleted successfully"}
            }
        },
        "model.PurchaseResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "customer_name": {"type": "string", "example": "Mario"},
                "customer_surname": {"type": "string", "example": "Rossi"},
                "customer_cf": {"type": "string", "example": "RSSMRA85M01H501Z"},
                "credit_card": {"type": "string", "example": "4111111111111111"},
                "product_name": {"type": "string", "example": "Wireless Headphones"},
                "price": {"type": "number", "example": 99.99},
                "date": {"type": "string", "example": "2024-03-15"},
                "receipt_path": {"type": "string", "example": "./uploads/3f0c1a9e-5b7d-4c1e-9a55-2f8d6b7e4c10.pdf"}
            }
        },
        "model.UploadPurchaseResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Purchase uploaded successfully."},
                "purchase_id": {"type": "integer", "example": 1},
                "receipt_path": {"type": "string", "example": "./uploads/3f0c1a9e-5b7d-4c1e-9a55-2f8d6b7e4c10.pdf"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Purchase Manager API",
	Description:      "Upload, search and delete customer purchases with their PDF receipts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
