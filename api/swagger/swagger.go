package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Observation Analytics API",
        "description": "Scoped analytics, dashboards and reports over classroom observations",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Analytics",
            "description": "Scoped metrics, trends and comparisons"
        },
        {
            "name": "Dashboard",
            "description": "Period dashboard"
        },
        {
            "name": "Reports",
            "description": "Template reports and exports"
        },
        {
            "name": "Settings",
            "description": "Per-user preferences"
        },
        {
            "name": "System",
            "description": "Health and metrics"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Degraded"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/analytics/overview": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Metrics, key trends and guidance",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "dateFrom",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "dateTo",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "subject",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string",
                            "enum": [
                                "DRAFT",
                                "IN_PROGRESS",
                                "COMPLETED",
                                "CANCELLED"
                            ]
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "observerId",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/metrics": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Performance metrics",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "dateFrom",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "dateTo",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "subject",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string",
                            "enum": [
                                "DRAFT",
                                "IN_PROGRESS",
                                "COMPLETED",
                                "CANCELLED"
                            ]
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "observerId",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/geographic": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Geographic performance",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "dateFrom",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "dateTo",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "subject",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string",
                            "enum": [
                                "DRAFT",
                                "IN_PROGRESS",
                                "COMPLETED",
                                "CANCELLED"
                            ]
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "observerId",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "entityType",
                        "in": "query",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "zone",
                            "province",
                            "department",
                            "cluster",
                            "school"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/subjects": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Subject performance",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "dateFrom",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "dateTo",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "subject",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string",
                            "enum": [
                                "DRAFT",
                                "IN_PROGRESS",
                                "COMPLETED",
                                "CANCELLED"
                            ]
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "observerId",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/timeseries": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Key metric time series",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "dateFrom",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "dateTo",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "subject",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string",
                            "enum": [
                                "DRAFT",
                                "IN_PROGRESS",
                                "COMPLETED",
                                "CANCELLED"
                            ]
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "observerId",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "granularity",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "daily",
                            "weekly",
                            "monthly",
                            "quarterly"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/trends": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Trend analysis with forecast",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "dateFrom",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "dateTo",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "subject",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string",
                            "enum": [
                                "DRAFT",
                                "IN_PROGRESS",
                                "COMPLETED",
                                "CANCELLED"
                            ]
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "observerId",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "metric",
                        "in": "query",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "session_count",
                            "completed_sessions",
                            "average_score",
                            "completion_rate",
                            "improvement_plans",
                            "average_duration"
                        ]
                    },
                    {
                        "name": "granularity",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "daily",
                            "weekly",
                            "monthly",
                            "quarterly"
                        ]
                    },
                    {
                        "name": "periods",
                        "in": "query",
                        "type": "integer",
                        "minimum": 1,
                        "maximum": 60
                    },
                    {
                        "name": "prediction",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/seasonal": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Seasonal analysis",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "dateFrom",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "dateTo",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "grade",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "subject",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string",
                            "enum": [
                                "DRAFT",
                                "IN_PROGRESS",
                                "COMPLETED",
                                "CANCELLED"
                            ]
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "observerId",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "string"
                        },
                        "collectionFormat": "multi"
                    },
                    {
                        "name": "metric",
                        "in": "query",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "session_count",
                            "completed_sessions",
                            "average_score",
                            "completion_rate",
                            "improvement_plans",
                            "average_duration"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/realtime": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Today's metrics",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/compare": {
            "post": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Compare entities",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CompareRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": [
                    "Dashboard"
                ],
                "summary": "Composed dashboard",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "timePeriod",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "last_7_days",
                            "last_30_days",
                            "last_90_days",
                            "last_year",
                            "custom"
                        ]
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "format": "date"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/reports/templates": {
            "get": {
                "tags": [
                    "Reports"
                ],
                "summary": "Report templates available to the caller",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/reports/generate": {
            "post": {
                "tags": [
                    "Reports"
                ],
                "summary": "Generate a template report",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/GenerateReportRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Report file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Required section could not be produced",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/reports/custom": {
            "post": {
                "tags": [
                    "Reports"
                ],
                "summary": "Generate a custom report",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CustomReportRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Report file",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Required section could not be produced",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/settings/{key}": {
            "get": {
                "tags": [
                    "Settings"
                ],
                "summary": "Get preference",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "key",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "dashboard.default_period",
                            "reports.locale"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not set",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Settings"
                ],
                "summary": "Store preference",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "key",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateSettingRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid argument",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Settings"
                ],
                "summary": "Remove preference",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "key",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Removed"
                    }
                }
            }
        }
    },
    "definitions": {
        "Filter": {
            "type": "object",
            "properties": {
                "dateFrom": {
                    "type": "string",
                    "format": "date"
                },
                "dateTo": {
                    "type": "string",
                    "format": "date"
                },
                "grades": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "subjects": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "statuses": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "observerIds": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "CompareRequest": {
            "type": "object",
            "required": [
                "entityIds",
                "entityType"
            ],
            "properties": {
                "entityIds": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "entityType": {
                    "type": "string"
                },
                "metrics": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "filter": {
                    "$ref": "#/definitions/Filter"
                }
            }
        },
        "GenerateReportRequest": {
            "type": "object",
            "required": [
                "templateId",
                "format"
            ],
            "properties": {
                "templateId": {
                    "type": "string",
                    "enum": [
                        "summary",
                        "detailed",
                        "trend",
                        "comparison"
                    ]
                },
                "format": {
                    "type": "string",
                    "enum": [
                        "tabular",
                        "spreadsheet",
                        "document"
                    ]
                },
                "filter": {
                    "$ref": "#/definitions/Filter"
                },
                "entityType": {
                    "type": "string"
                },
                "entityIds": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "locale": {
                    "type": "string",
                    "enum": [
                        "en",
                        "km"
                    ]
                }
            }
        },
        "CustomReportRequest": {
            "type": "object",
            "required": [
                "sections",
                "format"
            ],
            "properties": {
                "sections": {
                    "type": "array",
                    "items": {
                        "type": "string",
                        "enum": [
                            "metrics",
                            "trends",
                            "geographic",
                            "subjects",
                            "comparison",
                            "summary"
                        ]
                    }
                },
                "format": {
                    "type": "string",
                    "enum": [
                        "tabular",
                        "spreadsheet",
                        "document"
                    ]
                },
                "filter": {
                    "$ref": "#/definitions/Filter"
                },
                "entityType": {
                    "type": "string"
                },
                "entityIds": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "locale": {
                    "type": "string",
                    "enum": [
                        "en",
                        "km"
                    ]
                }
            }
        },
        "UpdateSettingRequest": {
            "type": "object",
            "required": [
                "value"
            ],
            "properties": {
                "value": {
                    "type": "string"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
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
