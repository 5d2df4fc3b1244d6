package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *HuntError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *HuntError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Storage errors

func StorageError(operation string, cause error) *HuntError {
	return Wrap(cause, CategoryStorage, SeverityError, "storage operation failed").
		WithContext("operation", operation)
}

// Submission errors

func SubmissionTransportError(cause error) *HuntError {
	return Wrap(cause, CategoryNetwork, SeverityError, "submission transport failed")
}

func SubmissionNotReady(found, total int) *HuntError {
	return New(CategoryValidation, SeverityWarning, "hunt is not complete").
		WithContext("found", found).
		WithContext("total", total)
}
