// jsonschemagen generates the JSON schemas for the mcp-launch config file
// formats (launch descriptor and host config) into specs/.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"

	googlejsonschema "github.com/google/jsonschema-go/jsonschema"

	"github.com/mcplaunch/mcp-launch/pkg/config"
	"github.com/mcplaunch/mcp-launch/pkg/config/host"
	"github.com/mcplaunch/mcp-launch/pkg/descriptor"
)

// schemaTarget pairs a config file root type with its package location (for
// Go comment extraction) and output file stem.
type schemaTarget struct {
	Root interface{}
	Base string
	Path string
	Stem string
}

func main() {
	targets := []schemaTarget{
		{
			Root: &descriptor.LaunchDescriptorFile{},
			Base: "github.com/mcplaunch/mcp-launch/pkg/descriptor",
			Path: "../../pkg/descriptor",
			Stem: "launch-descriptor-schema",
		},
		{
			Root: &host.HostConfigFile{},
			Base: "github.com/mcplaunch/mcp-launch/pkg/config/host",
			Path: "../../pkg/config/host",
			Stem: "host-config-schema",
		},
	}

	specsDir := filepath.Join("..", "..", "specs")
	if err := os.MkdirAll(specsDir, 0755); err != nil {
		log.Fatalf("Failed to create specs dir: %v", err)
	}

	for _, target := range targets {
		schema := reflectSchema(target)
		fixRequiredFields(schema, target.Root)

		schemaJSON, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal schema for %s: %v", target.Stem, err)
		}

		versionedFile := filepath.Join(specsDir, fmt.Sprintf("%s-%s.json", target.Stem, config.SchemaVersion))
		latestFile := filepath.Join(specsDir, target.Stem+".json")

		for _, out := range []string{versionedFile, latestFile} {
			if err := os.WriteFile(out, schemaJSON, 0644); err != nil {
				log.Fatalf("Failed to write %s: %v", out, err)
			}
			fmt.Printf("Wrote %s\n", out)
		}
	}
}

func reflectSchema(target schemaTarget) *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)

	// Required-ness comes from our jsonschema struct tags, not from the
	// absence of omitempty
	reflector.RequiredFromJSONSchemaTags = true

	// google/jsonschema-go's Schema type cannot be reflected (its fields
	// carry json:"-" tags), but a configSchema is just a JSON Schema object,
	// so an open object schema is the right description for it.
	reflector.Mapper = func(t reflect.Type) *jsonschema.Schema {
		if t == reflect.TypeOf(&googlejsonschema.Schema{}) || t == reflect.TypeOf(googlejsonschema.Schema{}) {
			return &jsonschema.Schema{Type: "object"}
		}
		return nil
	}

	if err := reflector.AddGoComments(target.Base, target.Path); err != nil {
		log.Fatalf("Failed to add Go comments: %v", err)
	}

	return reflector.Reflect(target.Root)
}

// fixRequiredFields post-processes the schema's required lists from the
// jsonschema struct tags. invopop/jsonschema does not understand
// google/jsonschema-go's "required"/"optional" tag values, so we read them
// through reflection and patch the generated definitions.
func fixRequiredFields(schema *jsonschema.Schema, root interface{}) {
	if schema.Definitions == nil {
		return
	}

	t := reflect.TypeOf(root)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	fixRequiredFieldsForType(schema, t)
}

func fixRequiredFieldsForType(schema *jsonschema.Schema, t reflect.Type) {
	if t.Kind() != reflect.Struct {
		return
	}

	def, exists := schema.Definitions[t.Name()]
	if !exists {
		return
	}

	requiredFields := []string{}
	explicitlyOptional := make(map[string]bool)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		jsonName, _, _ := strings.Cut(jsonTag, ",")
		inline := strings.Contains(jsonTag, "inline")

		fieldType := field.Type
		if fieldType.Kind() == reflect.Ptr {
			fieldType = fieldType.Elem()
		}
		if fieldType.Kind() == reflect.Slice {
			fieldType = fieldType.Elem()
			if fieldType.Kind() == reflect.Ptr {
				fieldType = fieldType.Elem()
			}
		}

		if inline && jsonName == "" {
			// inline embeds contribute their required fields to the parent
			if fieldType.Kind() == reflect.Struct && fieldType != t {
				fixRequiredFieldsForType(schema, fieldType)
				if nestedDef, ok := schema.Definitions[fieldType.Name()]; ok {
					requiredFields = append(requiredFields, nestedDef.Required...)
				}
			}
			continue
		}

		if jsonName != "" {
			jsonschemaTag := field.Tag.Get("jsonschema")
			if strings.Contains(jsonschemaTag, "required") {
				requiredFields = append(requiredFields, jsonName)
			} else if strings.Contains(jsonschemaTag, "optional") {
				explicitlyOptional[jsonName] = true
			}
		}

		if fieldType.Kind() == reflect.Struct && fieldType != t {
			fixRequiredFieldsForType(schema, fieldType)
		}
	}

	finalRequired := make(map[string]bool)
	for _, existing := range def.Required {
		if !explicitlyOptional[existing] {
			finalRequired[existing] = true
		}
	}
	for _, name := range requiredFields {
		finalRequired[name] = true
	}

	def.Required = make([]string, 0, len(finalRequired))
	for name := range finalRequired {
		def.Required = append(def.Required, name)
	}
}
