package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"
	CodeTimeout          Code = "TIMEOUT_ERROR"

	// Pipeline error taxonomy
	CodeNotFound             Code = "NOT_FOUND"
	CodeUpstream             Code = "UPSTREAM_ERROR"
	CodeParse                Code = "PARSE_ERROR"
	CodeValidationWrite      Code = "VALIDATION_WRITE_ERROR"
	CodeUsage                Code = "USAGE_ERROR"
	CodeNotImplemented       Code = "NOT_IMPLEMENTED"
	CodeCriticalFindings     Code = "CRITICAL_FINDINGS"
	CodeStoreError           Code = "STORE_ERROR"
	CodeSinkError            Code = "SINK_ERROR"
	CodeSinkAuthError        Code = "SINK_AUTH_ERROR"
	CodeQuotaExceeded        Code = "QUOTA_EXCEEDED"
	CodeIntrospectionFailure Code = "INTROSPECTION_ERROR"
)

func (c Code) String() string {
	return string(c)
}
