/*
Package api
File: schema.go
Description:
    JSON Schema validation for intent payloads. Every mutating request body
    is validated against its schema before it is decoded into a DTO, so
    malformed intents are rejected with a precise error instead of silently
    zero-valued fields.
*/

package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const buyMachineSchema = `{
	"type": "object",
	"required": ["name", "zone_type", "x", "y"],
	"properties": {
		"name":      {"type": "string", "minLength": 1},
		"zone_type": {"type": "string", "minLength": 1},
		"x":         {"type": "number"},
		"y":         {"type": "number"}
	},
	"additionalProperties": false
}`

const buyVehicleSchema = `{
	"type": "object",
	"required": ["name", "x", "y"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"x":    {"type": "number"},
		"y":    {"type": "number"}
	},
	"additionalProperties": false
}`

const buyStockSchema = `{
	"type": "object",
	"required": ["product", "qty"],
	"properties": {
		"product": {"type": "string", "minLength": 1},
		"qty":     {"type": "integer", "minimum": 1}
	},
	"additionalProperties": false
}`

const loadVehicleSchema = `{
	"type": "object",
	"required": ["vehicle_id", "product", "qty"],
	"properties": {
		"vehicle_id": {"type": "string", "minLength": 1},
		"product":    {"type": "string", "minLength": 1},
		"qty":        {"type": "integer", "minimum": 1}
	},
	"additionalProperties": false
}`

const assignRouteSchema = `{
	"type": "object",
	"required": ["vehicle_id", "route"],
	"properties": {
		"vehicle_id": {"type": "string", "minLength": 1},
		"route": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "minLength": 1}
		}
	},
	"additionalProperties": false
}`

// intentSchemas maps intent name -> compiled schema.
var intentSchemas = map[string]*jsonschema.Schema{}

func init() {
	sources := map[string]string{
		"buy_machine":  buyMachineSchema,
		"buy_vehicle":  buyVehicleSchema,
		"buy_stock":    buyStockSchema,
		"load_vehicle": loadVehicleSchema,
		"assign_route": assignRouteSchema,
	}
	for name, src := range sources {
		c := jsonschema.NewCompiler()
		url := name + ".json"
		if err := c.AddResource(url, strings.NewReader(src)); err != nil {
			panic(fmt.Sprintf("schema %s: %v", name, err))
		}
		intentSchemas[name] = c.MustCompile(url)
	}
}

// validateIntent checks a raw request body against a named intent schema.
func validateIntent(name string, body []byte) error {
	schema, ok := intentSchemas[name]
	if !ok {
		return fmt.Errorf("unknown intent schema %q", name)
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return err
	}
	return nil
}
