// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// FindByTaskType returns the activity registered for a Camunda task type.
func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// ValidateInput checks a job payload against the activity's input schema.
func (a *Activity) ValidateInput(payload map[string]interface{}) error {
	return validateAgainst(a.InputSchema, payload, "input")
}

// ValidateOutput checks a result payload against the activity's output schema.
func (a *Activity) ValidateOutput(payload map[string]interface{}) error {
	return validateAgainst(a.OutputSchema, payload, "output")
}

func validateAgainst(schema, payload map[string]interface{}, kind string) error {
	if len(schema) == 0 {
		return nil
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("%s schema validation: %w", kind, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%s does not match schema: %v", kind, msgs)
	}
	return nil
}

// CheckSchemas confirms every declared schema is itself loadable as a
// JSON Schema. Run by the registry-updater validate command.
func (r *ActivityRegistry) CheckSchemas() error {
	for _, activity := range r.Activities {
		for kind, schema := range map[string]map[string]interface{}{
			"input":  activity.InputSchema,
			"output": activity.OutputSchema,
		} {
			if len(schema) == 0 {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				return fmt.Errorf("activity %s has an invalid %s schema: %w", activity.ID, kind, err)
			}
		}
	}
	return nil
}
