package gemini

var (
	ToProviderError    = toProviderError
	OperationError     = operationError
	ToGroundedResponse = toGroundedResponse
	ToFileState        = toFileState
)
