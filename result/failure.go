package result

// FailureType classifies the cause of a non-passing outcome.
type FailureType string

const (
	FailureTypeAssert          FailureType = "ASSERT_ERROR"
	FailureTypeSelenium        FailureType = "SELENIUM_ERROR"
	FailureTypeElementNotFound FailureType = "ELEMENT_NOT_FOUND"
	FailureTypeGeneral         FailureType = "GENERAL_ERROR"
)

// Failure describes why a step or case did not pass.
type Failure struct {
	Type       FailureType `json:"type,omitempty"`
	SubType    string      `json:"subType,omitempty"`
	Message    string      `json:"message,omitempty"`
	Stacktrace string      `json:"stacktrace,omitempty"`
	Location   string      `json:"location,omitempty"`
	IsFatal    bool        `json:"isFatal"`
}
