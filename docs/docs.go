// Package docs registers the OpenAPI document served under /swagger.
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
        "/hello": {
            "get": {"tags": ["misc"], "summary": "Hello", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/user/create": {
            "post": {"tags": ["auth"], "summary": "Register a new user", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/connect": {
            "post": {"tags": ["auth"], "summary": "Login", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}
        },
        "/user/password": {
            "post": {"tags": ["auth"], "summary": "Change password", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/user/{user_id}": {
            "get": {"tags": ["users"], "summary": "Get a user profile", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}}
        },
        "/user/update": {
            "post": {"tags": ["users"], "summary": "Update a user profile", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/upload/picture/user/{user_id}": {
            "post": {"tags": ["pictures"], "summary": "Upload a profile picture", "consumes": ["multipart/form-data"], "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}, {"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/picture/user/{user_id}": {
            "get": {"tags": ["pictures"], "summary": "Get a profile picture path", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/departements": {
            "post": {"tags": ["departments"], "summary": "Create a department", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/departements/{department_id}/users/add": {
            "post": {"tags": ["departments"], "summary": "Add users to a department", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "department_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/departements/{department_id}/users/remove": {
            "post": {"tags": ["departments"], "summary": "Remove users from a department", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "department_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/departements/{department_id}/users": {
            "get": {"tags": ["departments"], "summary": "List department members", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "department_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/rh/msg/add": {
            "post": {"tags": ["hr-requests"], "summary": "Open an HR request", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/rh/msg/update": {
            "post": {"tags": ["hr-requests"], "summary": "Edit an HR request", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/rh/msg/remove": {
            "post": {"tags": ["hr-requests"], "summary": "Close an HR request", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/rh/msg": {
            "get": {"tags": ["hr-requests"], "summary": "List HR requests", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ProtoRH API",
	Description:      "HR management backend: identities, sessions, departments and HR requests.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
