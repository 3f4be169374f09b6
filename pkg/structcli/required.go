package structcli

// InferRequired decides whether a parameter must be supplied.
//
// An explicit declaration always wins. Otherwise a declared default makes
// the parameter optional, and without a default it is required unless its
// type hint is optional.
func InferRequired(optional bool, explicit *bool, hasDefault bool) bool {
	if explicit != nil {
		return *explicit
	}
	if hasDefault {
		return false
	}
	return !optional
}
