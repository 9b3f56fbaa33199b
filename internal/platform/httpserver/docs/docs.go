// Package docs holds the generated swagger registration for the Tollyhub
// engagement API. Regenerate with swag init when routes change.
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
        "/api/v1/engagement/points/grant": {
            "post": {
                "produces": ["application/json"],
                "tags": ["engagement"],
                "summary": "Grant points for a confirmed user action",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/v1/engagement/streaks/check-in": {
            "post": {
                "produces": ["application/json"],
                "tags": ["engagement"],
                "summary": "Record a daily streak check-in",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/v1/engagement/users/{user_id}/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["engagement"],
                "summary": "Points, level, streak and badges for one user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/v1/engagement/users/{user_id}/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["engagement"],
                "summary": "Newest-first ledger history with keyset cursor",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/v1/engagement/users/{user_id}/active-today": {
            "get": {
                "produces": ["application/json"],
                "tags": ["engagement"],
                "summary": "Whether the user has checked in today",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/v1/engagement/leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["engagement"],
                "summary": "Deterministic point ranking, all-time or windowed",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tollyhub Engagement API",
	Description:      "Gamification engine endpoints: points, streaks, leaderboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
