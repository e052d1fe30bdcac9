package server

import (
	"encoding/json"
	"net/http"
	"sync"
)

// openAPIDocument is built on first use and shared read-only afterwards.
var openAPIDocument = sync.OnceValue(func() []byte {
	errorResponse := map[string]any{
		"description": "Invalid upload",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Error"},
			},
		},
	}
	uploadBody := map[string]any{
		"required": true,
		"content": map[string]any{
			"multipart/form-data": map[string]any{
				"schema": map[string]any{
					"type":     "object",
					"required": []string{"file"},
					"properties": map[string]any{
						"file": map[string]any{"type": "string", "format": "binary"},
					},
				},
			},
		},
	}

	paths := map[string]any{
		"/health": map[string]any{
			"get": map[string]any{
				"summary":     "Liveness probe",
				"operationId": "health",
				"responses": map[string]any{
					"200": map[string]any{"description": "Service is up"},
				},
			},
		},
	}
	for _, route := range uploadRoutes {
		paths[route.path] = map[string]any{
			"post": map[string]any{
				"summary":     route.summary,
				"operationId": route.report,
				"requestBody": uploadBody,
				"responses": map[string]any{
					"200": map[string]any{"description": "Analysis result"},
					"400": errorResponse,
				},
			},
		}
	}

	doc := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "TableLens API",
			"version": "1.0.0",
		},
		"paths": paths,
		"components": map[string]any{
			"schemas": map[string]any{
				"Error": map[string]any{
					"type":       "object",
					"properties": map[string]any{"detail": map[string]any{"type": "string"}},
				},
			},
		},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return b
})

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument())
}
