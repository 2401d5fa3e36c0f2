// Package api embeds the JSON schema that request batches are validated
// against. cmd/homed uses it when server.schema_path is empty.
package api

import _ "embed"

// Schema is the default request batch schema document.
//
//go:embed schema.json
var Schema []byte
