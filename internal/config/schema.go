package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed config.schema.json
var configSchema string

// validateSchema checks the raw JSON document against the embedded schema
// before unmarshalling, so structural mistakes surface with field paths
// instead of zero-valued struct fields.
func validateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("config schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("config does not match schema:\n")
	for i, desc := range result.Errors() {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, desc.Field(), desc.Description()))
	}
	return fmt.Errorf("%s", sb.String())
}
