// Package api holds the OpenAPI document of the HTTP interface.
package api

import _ "embed"

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 --config oapi-codegen.yaml openapi.yml

// OpenAPI is the raw openapi.yml document.
//
//go:embed openapi.yml
var OpenAPI []byte
