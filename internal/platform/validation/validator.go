package validation

// Validator defines the interface that needs to be implemented by all validation strategies.
type Validator interface {
	// ValidateStruct returns a message per invalid field, keyed by its json name, or nil.
	ValidateStruct(s any) map[string]string
	// ValidateVar checks a single value against tag and returns a message naming field, or "".
	ValidateVar(field string, value any, tag string) string
}
