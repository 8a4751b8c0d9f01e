package config

// SchemaID identifies the config file schema within a validator.Compiler.
const SchemaID = "https://run-clang-format.local/config.schema.json"

// Schema is the JSON Schema every config file must satisfy.
const Schema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"title": "run-clang-format configuration",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"executable": {"type": "string", "minLength": 1},
		"extensions": {
			"type": "array",
			"items": {"type": "string", "minLength": 1, "pattern": "^[^.]"}
		},
		"style": {"type": "string"},
		"jobs": {"type": "integer", "minimum": 0},
		"exclude": {"type": "array", "items": {"type": "string"}},
		"color": {"enum": ["auto", "always", "never"]},
		"ignoreFile": {"type": "string"},
		"includeFile": {"type": "string"},
		"recursive": {"type": "boolean"}
	}
}`
