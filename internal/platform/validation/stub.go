package validation

type StubValidator struct {
	ValidateStructFunc func(any) map[string]string
	ValidateVarFunc    func(field string, value any, tag string) string
}

var _ Validator = (*StubValidator)(nil)

func (s *StubValidator) ValidateStruct(st any) map[string]string {
	if s.ValidateStructFunc == nil {
		panic("ValidateStruct not implemented by stub")
	}
	return s.ValidateStructFunc(st)
}

func (s *StubValidator) ValidateVar(field string, value any, tag string) string {
	if s.ValidateVarFunc == nil {
		panic("ValidateVar not implemented by stub")
	}
	return s.ValidateVarFunc(field, value, tag)
}
