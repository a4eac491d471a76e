package apiserver

import (
	_ "embed"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPIHandler serves the API description
type OpenAPIHandler struct {
	logger *zap.Logger
	spec   []byte
}

// NewOpenAPIHandler creates a new OpenAPI handler
func NewOpenAPIHandler(logger *zap.Logger) *OpenAPIHandler {
	return &OpenAPIHandler{
		logger: logger.Named("openapi"),
		spec:   openAPISpec,
	}
}

// ServeOpenAPISpec serves the OpenAPI document in YAML format
func (h *OpenAPIHandler) ServeOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.spec); err != nil {
		h.logger.Debug("Failed to write OpenAPI document", zap.Error(err))
	}
}

// ServeSwaggerUI serves a Swagger UI page pointed at the YAML document
func (h *OpenAPIHandler) ServeSwaggerUI(w http.ResponseWriter, r *http.Request) {
	specURL := fmt.Sprintf("%s://%s/api/v1/openapi.yaml", getScheme(r), r.Host)

	html := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Weekly Dish API</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css" />
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: '%s',
                dom_id: '#swagger-ui',
                deepLinking: true,
                docExpansion: 'list',
                displayRequestDuration: true
            });
        };
    </script>
</body>
</html>`, specURL)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// getScheme determines the URL scheme from the request
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return "http"
}
