package config

import (
	// blank import for embeds
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"
)

const (
	jsonschemaOneOf = "number_one_of"
	jsonschemaAnyOf = "number_any_of"
	invalidType     = "invalid_type"
)

//go:embed data/config_schema.json
var schema []byte

// Validate checks raw YAML against the embedded buildgen.yaml schema.
func Validate(contents []byte, filename string) error {
	j, err := yaml.YAMLToJSON(contents)
	if err != nil {
		return &ParseError{Filename: filename, Err: err}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(j),
	)
	if err != nil {
		return &ParseError{Filename: filename, Err: err}
	}
	if result.Valid() {
		return nil
	}
	return toSchemaError(result.Errors(), filename)
}

/*
Choosing the most specific error is adopted from docker-ce's compose schema validator.
https://github.com/docker/docker-ce/blob/f76280404059080d79fcda620caf8cef5a4a22f7/components/cli/cli/compose/schema/schema.go
Which is available under Apache v2 license: https://github.com/docker/docker-ce/blob/master/LICENSE
*/

func toSchemaError(errs []gojsonschema.ResultError, filename string) *SchemaError {
	parent, child := mostSpecificError(errs)
	return &SchemaError{
		Filename: filename,
		Field:    parent.Field(),
		Message:  describe(parent, child),
	}
}

func describe(parent, child gojsonschema.ResultError) string {
	switch parent.Type() {
	case invalidType:
		if expected, ok := parent.Details()["expected"].(string); ok {
			return fmt.Sprintf("must be a %s", humanReadableType(expected))
		}
	case jsonschemaOneOf, jsonschemaAnyOf:
		if child != nil {
			return child.Description()
		}
	case "additional_property_not_allowed":
		if prop, ok := parent.Details()["property"].(string); ok {
			return fmt.Sprintf("unknown option %q", prop)
		}
	}
	return parent.Description()
}

func humanReadableType(definition string) string {
	if strings.HasPrefix(definition, "[") {
		allTypes := strings.Split(definition[1:len(definition)-1], ",")
		for i, t := range allTypes {
			allTypes[i] = humanReadableType(t)
		}
		if len(allTypes) == 1 {
			return allTypes[0]
		}
		return fmt.Sprintf(
			"%s or %s",
			strings.Join(allTypes[0:len(allTypes)-1], ", "),
			allTypes[len(allTypes)-1],
		)
	}
	switch definition {
	case "object":
		return "mapping"
	case "array":
		return "list"
	}
	return definition
}

func mostSpecificError(errs []gojsonschema.ResultError) (gojsonschema.ResultError, gojsonschema.ResultError) {
	best := 0
	for i, err := range errs {
		if specificity(err) > specificity(errs[best]) {
			best = i
			continue
		}
		// Invalid type errors win in a tie-breaker for most specific field name
		if specificity(err) == specificity(errs[best]) &&
			err.Type() == invalidType && errs[best].Type() != invalidType {
			best = i
		}
	}

	if best+1 < len(errs) {
		switch errs[best].Type() {
		case jsonschemaOneOf, jsonschemaAnyOf:
			return errs[best], errs[best+1]
		}
	}
	return errs[best], nil
}

func specificity(err gojsonschema.ResultError) int {
	return len(strings.Split(err.Field(), "."))
}
