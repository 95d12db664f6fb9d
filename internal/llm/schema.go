package llm

import "github.com/invopop/jsonschema"

// SchemaOf reflects v's Go type into a JSON Schema describing the
// structured output a call site expects back from the model. v is
// typically a pointer to a zero-valued struct used only for its shape.
func SchemaOf(v any) *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	return reflector.Reflect(v)
}
