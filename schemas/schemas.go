// Package schemas contains the embedded JSON Schemas used to validate
// galley configuration files and chat model output.
package schemas

import _ "embed"

//go:embed galley.schema.json
var GalleySchemaJSON string

//go:embed judgment.schema.json
var JudgmentSchemaJSON string
