// Package docs registers the Swagger document served at /swagger.
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
        "/locations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Filter catalog locations",
                "parameters": [
                    {"type": "string", "description": "Country name or 'all'", "name": "country", "in": "query"},
                    {"type": "string", "description": "Category substring or 'all'", "name": "category", "in": "query"},
                    {"type": "string", "description": "Lower reference year or 'all'", "name": "year_min", "in": "query"},
                    {"type": "string", "description": "Upper reference year or 'all'", "name": "year_max", "in": "query"},
                    {"type": "boolean", "description": "Only environmental declarations", "name": "declaration_only", "in": "query"},
                    {"type": "string", "description": "Free-text product query", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FilterResult"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/markers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Filter catalog locations and spread co-located markers",
                "parameters": [
                    {"type": "string", "description": "Country name or 'all'", "name": "country", "in": "query"},
                    {"type": "string", "description": "Category substring or 'all'", "name": "category", "in": "query"},
                    {"type": "string", "description": "Lower reference year or 'all'", "name": "year_min", "in": "query"},
                    {"type": "string", "description": "Upper reference year or 'all'", "name": "year_max", "in": "query"},
                    {"type": "boolean", "description": "Only environmental declarations", "name": "declaration_only", "in": "query"},
                    {"type": "string", "description": "Free-text product query", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FilterResult"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/new-arrivals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Locations sorted newest first",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of locations", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Location"}}}
                }
            }
        },
        "/facets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locations"],
                "summary": "Filter values present in the catalogs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Facets"}}
                }
            }
        },
        "/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Fuzzy product name search over the general catalog",
                "parameters": [
                    {"type": "string", "description": "Product query", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "description": "Maximum number of hits", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.SearchHit"}}}
                }
            }
        },
        "/sessions": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Open a search/selection session",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/sessions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Current session state",
                "parameters": [{"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["sessions"],
                "summary": "Close a session",
                "parameters": [{"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/sessions/{id}/query": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Record a query keystroke",
                "parameters": [{"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Clear the query and selection",
                "parameters": [{"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/sessions/{id}/select": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Select a location",
                "parameters": [{"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/sessions/{id}/filters": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Replace the structural filters",
                "parameters": [{"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/sessions/{id}/events": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Send a reset message (filters_reset, search_cleared, all_markers_requested)",
                "parameters": [{"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/sessions/{id}/markers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Placed markers for the session's current criteria",
                "parameters": [{"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FilterResult"}}, "404": {"description": "Not Found"}}
            }
        }
    },
    "definitions": {
        "models.Location": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "product_name": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "country": {"type": "string"},
                "reference_year": {"description": "year number or \"all\""},
                "is_declaration": {"type": "boolean"},
                "source_catalog": {"type": "string", "enum": ["general", "declaration"]},
                "categories": {"type": "array", "items": {"type": "string"}},
                "industry_solution": {"type": "string"},
                "document_url": {"type": "string"},
                "company_name": {"type": "string"},
                "description": {"type": "string"},
                "image_url": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "models.FilterStats": {
            "type": "object",
            "properties": {
                "declaration_total": {"type": "integer"},
                "declaration_kept_by_year": {"type": "integer"}
            }
        },
        "models.FilterResult": {
            "type": "object",
            "properties": {
                "locations": {"type": "array", "items": {"$ref": "#/definitions/models.Location"}},
                "stats": {"$ref": "#/definitions/models.FilterStats"}
            }
        },
        "models.MatchResult": {
            "type": "object",
            "properties": {
                "is_match": {"type": "boolean"},
                "score": {"type": "number"},
                "rule": {"type": "string", "enum": ["none", "exact", "vendor", "initial"]}
            }
        },
        "models.SearchHit": {
            "type": "object",
            "properties": {
                "location": {"$ref": "#/definitions/models.Location"},
                "match": {"$ref": "#/definitions/models.MatchResult"}
            }
        },
        "models.Facets": {
            "type": "object",
            "properties": {
                "countries": {"type": "array", "items": {"type": "string"}},
                "categories": {"type": "array", "items": {"type": "string"}},
                "min_year": {"description": "year number or \"all\""},
                "max_year": {"description": "year number or \"all\""}
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
	Title:            "EPD Map API",
	Description:      "Filtering, fuzzy search and marker placement over the product and environmental-declaration catalogs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
