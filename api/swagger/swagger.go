package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "BrightSteps Records API",
        "description": "Class, student and progress records for special education groups",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Classes", "description": "Teaching group management"},
        {"name": "Students", "description": "Student profiles"},
        {"name": "Progress", "description": "Competency progress tracking"},
        {"name": "Lessons", "description": "Saved lesson plans"},
        {"name": "Cards", "description": "Custom picture cards"},
        {"name": "Generate", "description": "AI lesson, goal plan and schedule generation"}
    ],
    "paths": {
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes with student counts",
                "parameters": [
                    {"name": "lang", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/classes/{id}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get class with roster",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "lang", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Classes"],
                "summary": "Update class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete empty class",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Class still has students"}
                }
            }
        },
        "/classes/{id}/progress": {
            "get": {
                "tags": ["Progress"],
                "summary": "Class progress matrix",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}/progress/export": {
            "get": {
                "tags": ["Progress"],
                "summary": "Class progress as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": false, "type": "string", "description": "csv (default) or pdf"}
                ],
                "responses": {
                    "200": {"description": "Progress matrix download"}
                }
            }
        },
        "/classes/{id}/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "List class lessons, newest first",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Lessons"],
                "summary": "Save lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLessonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/classes/{id}/lessons/generate": {
            "post": {
                "tags": ["Generate"],
                "summary": "Generate and save a lesson plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateLessonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "429": {"description": "Rate limited upstream"},
                    "502": {"description": "Upstream failure"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "classId", "in": "query", "type": "string"},
                    {"name": "lang", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Unknown class"}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "lang", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student and progress",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/students/{id}/progress": {
            "get": {
                "tags": ["Progress"],
                "summary": "Student progress per subcategory",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "lang", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Unknown student"}
                }
            },
            "post": {
                "tags": ["Progress"],
                "summary": "Record partial progress update",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetProgressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing subcategory"}
                }
            }
        },
        "/students/{id}/progress/{subcategoryId}/plan": {
            "delete": {
                "tags": ["Progress"],
                "summary": "Clear goal plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "subcategoryId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Cleared"},
                    "404": {"description": "No progress recorded"}
                }
            }
        },
        "/students/{id}/progress/{subcategoryId}/plan/generate": {
            "post": {
                "tags": ["Generate"],
                "summary": "Generate and store a goal plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "subcategoryId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "429": {"description": "Rate limited upstream"}
                }
            }
        },
        "/lessons/{id}": {
            "patch": {
                "tags": ["Lessons"],
                "summary": "Update lesson content or visual schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLessonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "No fields to update"}
                }
            },
            "delete": {
                "tags": ["Lessons"],
                "summary": "Delete lesson",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/lessons/{id}/export": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Lesson as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF download"}
                }
            }
        },
        "/cards": {
            "get": {
                "tags": ["Cards"],
                "summary": "List custom cards",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Cards"],
                "summary": "Create custom card",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCardRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid image"}
                }
            }
        },
        "/cards/{id}": {
            "delete": {
                "tags": ["Cards"],
                "summary": "Delete custom card",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/pictograms": {
            "get": {
                "tags": ["Generate"],
                "summary": "Best pictogram for a keyword",
                "parameters": [
                    {"name": "keyword", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK, data null when no match"}
                }
            }
        },
        "/generate/visual-schedule": {
            "post": {
                "tags": ["Generate"],
                "summary": "Generate visual schedule steps",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VisualScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "CreateClassRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "age_range": {"type": "string"}
            }
        },
        "StudentRequest": {
            "type": "object",
            "required": ["class_id", "first_name", "last_name", "date_of_birth"],
            "properties": {
                "class_id": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "date_of_birth": {"type": "string", "format": "date-time"},
                "diagnoses": {"type": "array", "items": {"type": "string"}},
                "strengths": {"type": "array", "items": {"type": "string"}},
                "challenges": {"type": "array", "items": {"type": "string"}},
                "interests": {"type": "array", "items": {"type": "string"}},
                "sensory_needs": {"type": "array", "items": {"type": "string"}},
                "communication_style": {"type": "string"},
                "support_strategies": {"type": "array", "items": {"type": "string"}},
                "triggers": {"type": "array", "items": {"type": "string"}},
                "calming_strategies": {"type": "array", "items": {"type": "string"}},
                "teacher_notes": {"type": "string"}
            }
        },
        "SetProgressRequest": {
            "type": "object",
            "required": ["subcategory_id"],
            "properties": {
                "subcategory_id": {"type": "string"},
                "level": {"type": "integer"},
                "completed": {"type": "boolean"},
                "plan": {"type": "string"}
            }
        },
        "CreateLessonRequest": {
            "type": "object",
            "required": ["topic", "objective", "content"],
            "properties": {
                "topic": {"type": "string"},
                "objective": {"type": "string"},
                "content": {"type": "string"},
                "curriculum_area": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "UpdateLessonRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "visual_schedule": {"type": "string"}
            }
        },
        "GenerateLessonRequest": {
            "type": "object",
            "required": ["topic", "objective"],
            "properties": {
                "topic": {"type": "string"},
                "objective": {"type": "string"},
                "curriculum_area": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "CreateCardRequest": {
            "type": "object",
            "required": ["name", "image_data"],
            "properties": {
                "name": {"type": "string"},
                "image_data": {"type": "string", "description": "base64 image data URI"}
            }
        },
        "VisualScheduleRequest": {
            "type": "object",
            "required": ["activity"],
            "properties": {
                "activity": {"type": "string"}
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
                "status": {"type": "integer"},
                "retry_after_seconds": {"type": "number"}
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
