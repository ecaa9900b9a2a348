package model

// Status values of a ToolResult.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolResult is what a tool hands back to the model: a status and a human readable report.
type ToolResult struct {
	Status string `json:"status" bson:"status"`
	Report string `json:"report" bson:"report"`
}

func Success(report string) ToolResult {
	return ToolResult{Status: StatusSuccess, Report: report}
}

func Failure(report string) ToolResult {
	return ToolResult{Status: StatusError, Report: report}
}

// OK reports whether the result carries a successful report.
func (r ToolResult) OK() bool {
	return r.Status == StatusSuccess
}

// Map converts the result into the function response payload sent to the model.
func (r ToolResult) Map() map[string]any {
	return map[string]any{
		"status": r.Status,
		"report": r.Report,
	}
}
