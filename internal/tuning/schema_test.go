package tuning

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The committed schema must keep accepting both the built-in defaults and
// the shipped config file. Regenerate it with go run ./cmd/schema when the
// document shape changes.
func TestSchemaValidatesShippedDocuments(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "config", "tuning.schema.json"))
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}

	validate := func(name string, doc Document) {
		t.Helper()
		data, err := json.Marshal(doc)
		if err != nil {
			t.Fatalf("%s: marshal: %v", name, err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			t.Fatalf("%s: unmarshal: %v", name, err)
		}
		if err := schema.Validate(generic); err != nil {
			t.Fatalf("%s: validate: %v", name, err)
		}
	}

	validate("defaults", Default())

	shipped, err := Load(filepath.Join("..", "..", "config", "tuning.yaml"))
	if err != nil {
		t.Fatalf("load shipped config: %v", err)
	}
	validate("shipped config", shipped)
}
