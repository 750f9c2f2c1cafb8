package servers

import (
	"fmt"

	"pickup/api"

	"github.com/getkin/kin-openapi/openapi3"
)

// GetSwagger returns the OpenAPI specification corresponding to the generated code
// in servers.go. External references are not resolved.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("error loading Swagger: %w", err)
	}
	return swagger, nil
}
