package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendance Admin API",
        "description": "Back-office directory and course assignment service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Fields", "description": "Field catalog and weekly schedules"},
        {"name": "Courses", "description": "Course catalog and teacher assignment"},
        {"name": "Users", "description": "Directory and user lifecycle"},
        {"name": "Exports", "description": "Roster exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/fields": {
            "get": {
                "tags": ["Fields"],
                "summary": "List fields",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Fields"],
                "summary": "Create field",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Field"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/fields/{id}": {
            "get": {
                "tags": ["Fields"],
                "summary": "Get field detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Fields"],
                "summary": "Update field and replace its weekly schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Field"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}}
            },
            "delete": {
                "tags": ["Fields"],
                "summary": "Delete field",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "parameters": [
                    {"name": "teacher", "in": "query", "type": "string", "description": "Filter by assigned teacher email"},
                    {"name": "field", "in": "query", "type": "string", "description": "Filter by field name"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Update course",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}}
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/courses/{id}/schedule": {
            "put": {
                "tags": ["Courses"],
                "summary": "Move course onto another schedule slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleEntry"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Entry not in field schedule"}}
            }
        },
        "/courses/{id}/teacher": {
            "put": {
                "tags": ["Courses"],
                "summary": "Assign a teacher to a course",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Course or teacher not found"},
                    "409": {"description": "Transaction aborted"}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Detach a course from its teacher",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "412": {"description": "Course has no assigned teacher"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "Load all users grouped by role",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{email}": {
            "get": {
                "tags": ["Users"],
                "summary": "Resolve a user by email across the role collections",
                "parameters": [{"name": "email", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found in any collection"}}
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete a user profile and its account",
                "parameters": [{"name": "email", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/users/students": {
            "post": {
                "tags": ["Users"],
                "summary": "Create a student with its sign-in account",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Account already exists"}}
            }
        },
        "/users/students/{email}": {
            "put": {
                "tags": ["Users"],
                "summary": "Update a student profile",
                "parameters": [{"name": "email", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/users/teachers": {
            "post": {
                "tags": ["Users"],
                "summary": "Create a teacher with its sign-in account",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Account already exists"}}
            }
        },
        "/users/teachers/{email}": {
            "put": {
                "tags": ["Users"],
                "summary": "Update a teacher profile",
                "parameters": [{"name": "email", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/users/admins": {
            "post": {
                "tags": ["Users"],
                "summary": "Create an administrator with its sign-in account",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Account already exists"}}
            }
        },
        "/users/{email}/active": {
            "put": {
                "tags": ["Users"],
                "summary": "Activate or deactivate a user",
                "parameters": [{"name": "email", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/{email}/image": {
            "post": {
                "tags": ["Users"],
                "summary": "Upload a profile image",
                "parameters": [{"name": "email", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}}
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete a profile image",
                "parameters": [{"name": "email", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/users/{email}/fields/{fieldId}": {
            "put": {
                "tags": ["Users"],
                "summary": "Assign a field to a teacher",
                "responses": {"204": {"description": "Assigned"}}
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Remove a field from a teacher",
                "responses": {"204": {"description": "Removed"}}
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Request a roster export",
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "Validation error"}}
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Get export job status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via its signed token",
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "File"}, "401": {"description": "Invalid or expired token"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ScheduleEntry": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "room": {"type": "string"},
                "isRecurring": {"type": "boolean"}
            }
        },
        "Field": {
            "type": "object",
            "properties": {
                "fieldId": {"type": "string"},
                "fieldName": {"type": "string"},
                "department": {"type": "string"},
                "description": {"type": "string"},
                "weeklySchedule": {"type": "array", "items": {"$ref": "#/definitions/ScheduleEntry"}}
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
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
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
