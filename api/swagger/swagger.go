package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LearnHub LMS API",
        "description": "Role-based learning platform with admin-moderated teachers, courses and reviews",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Registration, login and profile"},
        {"name": "Admin", "description": "Moderation queues, decisions and dashboards"},
        {"name": "Teacher", "description": "Course authoring and teacher dashboard"},
        {"name": "Student", "description": "Catalog, enrollments and reviews"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials or account not approved"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/stats": {
            "get": {
                "tags": ["Admin"],
                "summary": "Admin dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/teachers": {
            "get": {
                "tags": ["Admin"],
                "summary": "List teacher accounts",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/teachers/{id}/details": {
            "get": {
                "tags": ["Admin"],
                "summary": "Teacher detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/admin/teachers/{id}/status": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Decide a pending teacher",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Status must be approved or rejected"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/admin/courses": {
            "get": {
                "tags": ["Admin"],
                "summary": "List courses for moderation",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/courses/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the course catalog",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/admin/courses/{id}/status": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Decide a pending course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Status must be approved or rejected"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/admin/reviews": {
            "get": {
                "tags": ["Admin"],
                "summary": "List reviews for moderation",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/reviews/{id}/status": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Decide a pending review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Status must be approved or rejected"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/admin/students": {
            "get": {
                "tags": ["Admin"],
                "summary": "List student accounts",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/students/{id}/details": {
            "get": {
                "tags": ["Admin"],
                "summary": "Student detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/teacher/profile": {
            "get": {
                "tags": ["Teacher"],
                "summary": "Own profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Teacher"],
                "summary": "Update own profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/stats": {
            "get": {
                "tags": ["Teacher"],
                "summary": "Teacher dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/courses": {
            "get": {
                "tags": ["Teacher"],
                "summary": "List own courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Teacher"],
                "summary": "Create a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/courses/{id}": {
            "get": {
                "tags": ["Teacher"],
                "summary": "Own course detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "tags": ["Teacher"],
                "summary": "Update an owned course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/student/profile": {
            "get": {
                "tags": ["Student"],
                "summary": "Own profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Student"],
                "summary": "Update own profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/courses": {
            "get": {
                "tags": ["Student"],
                "summary": "Browse the catalog",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/courses/{id}": {
            "get": {
                "tags": ["Student"],
                "summary": "Catalog course detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/student/courses/{id}/enroll": {
            "post": {
                "tags": ["Student"],
                "summary": "Enroll in a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already enrolled"}
                }
            }
        },
        "/student/courses/{id}/progress": {
            "patch": {
                "tags": ["Student"],
                "summary": "Update course progress",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProgressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/student/courses/{id}/reviews": {
            "post": {
                "tags": ["Student"],
                "summary": "Review a course",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReviewRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not enrolled"},
                    "409": {"description": "Already reviewed"}
                }
            }
        },
        "/student/enrollments": {
            "get": {
                "tags": ["Student"],
                "summary": "List own enrollments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/reviews": {
            "get": {
                "tags": ["Student"],
                "summary": "List own reviews",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "teacher", "student"]}
            },
            "required": ["name", "email", "password", "role"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "teacher", "student"]}
            },
            "required": ["email", "password", "role"]
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "bio": {"type": "string"},
                "avatar_url": {"type": "string"}
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["title", "description"]
        },
        "UpdateCourseRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "UpdateProgressRequest": {
            "type": "object",
            "properties": {
                "progress": {"type": "integer", "minimum": 0, "maximum": 100}
            },
            "required": ["progress"]
        },
        "CreateReviewRequest": {
            "type": "object",
            "properties": {
                "rating": {"type": "integer", "minimum": 1, "maximum": 5},
                "comment": {"type": "string"}
            },
            "required": ["rating", "comment"]
        },
        "DecisionRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]}
            },
            "required": ["status"]
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
