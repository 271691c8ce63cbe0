// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "components": {
        "securitySchemes": {
            "SessionCookie": {"type": "apiKey", "in": "cookie", "name": "session"},
            "BearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
        },
        "schemas": {
            "Error": {
                "type": "object",
                "properties": {
                    "success": {"type": "boolean"},
                    "error": {
                        "type": "object",
                        "properties": {
                            "code": {"type": "string"},
                            "message": {"type": "string"},
                            "request_id": {"type": "string"},
                            "details": {"type": "array", "items": {"type": "object"}}
                        }
                    }
                }
            }
        }
    },
    "security": [{"SessionCookie": []}, {"BearerAuth": []}],
    "paths": {
        "/products": {"get": {"tags": ["products"], "summary": "List active products", "security": []}},
        "/products/categories": {"get": {"tags": ["products"], "summary": "Distinct categories of active products", "security": []}},
        "/products/{id}": {"get": {"tags": ["products"], "summary": "Active product by id", "security": []}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Create an account", "security": []}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Start a session", "security": []}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Revoke the current session"}},
        "/auth/user": {
            "get": {"tags": ["auth"], "summary": "Current user"},
            "put": {"tags": ["auth"], "summary": "Update profile"}
        },
        "/cart": {
            "get": {"tags": ["cart"], "summary": "Current cart"},
            "post": {"tags": ["cart"], "summary": "Add a product to the cart"},
            "delete": {"tags": ["cart"], "summary": "Empty the cart"}
        },
        "/cart/{id}": {
            "put": {"tags": ["cart"], "summary": "Set the quantity of a cart line"},
            "delete": {"tags": ["cart"], "summary": "Remove a cart line"}
        },
        "/checkout/summary": {"get": {"tags": ["checkout"], "summary": "Checkout totals"}},
        "/create-payment-intent": {"post": {"tags": ["checkout"], "summary": "Start a payment"}},
        "/create-order": {"post": {"tags": ["checkout"], "summary": "Commit the order"}},
        "/orders": {"get": {"tags": ["orders"], "summary": "The caller's orders"}},
        "/orders/{id}": {"get": {"tags": ["orders"], "summary": "One of the caller's orders"}},
        "/product-requests": {
            "get": {"tags": ["product-requests"], "summary": "The caller's product requests"},
            "post": {"tags": ["product-requests"], "summary": "Ask the store to source a product"}
        },
        "/webhooks/stripe": {"post": {"tags": ["webhooks"], "summary": "Stripe webhook", "security": []}},
        "/admin/stats": {"get": {"tags": ["admin"], "summary": "Dashboard statistics"}},
        "/admin/products": {
            "get": {"tags": ["admin"], "summary": "All products"},
            "post": {"tags": ["admin"], "summary": "Create a product"}
        },
        "/admin/products/{id}": {
            "put": {"tags": ["admin"], "summary": "Update a product"},
            "delete": {"tags": ["admin"], "summary": "Delete a product"}
        },
        "/admin/products/{id}/image-upload": {"post": {"tags": ["admin"], "summary": "Presigned product image upload"}},
        "/admin/orders": {"get": {"tags": ["admin"], "summary": "All orders"}},
        "/admin/orders/{id}": {"get": {"tags": ["admin"], "summary": "Any order"}},
        "/admin/orders/{id}/status": {"put": {"tags": ["admin"], "summary": "Move an order through fulfilment"}},
        "/admin/product-requests": {"get": {"tags": ["admin"], "summary": "All product requests"}},
        "/admin/product-requests/{id}": {"put": {"tags": ["admin"], "summary": "Quote or reject a product request"}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Catalog, cart, checkout and back office API of the storefront.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
