package report

// FailureReport is the durable JSON record written once per failing
// test attempt. The key set is stable; CI tooling parses these files.
type FailureReport struct {
	TestInfo    FailureTestInfo  `json:"testInfo"`
	Error       *FailureError    `json:"error"`
	Artifacts   FailureArtifacts `json:"artifacts"`
	BrowserInfo string           `json:"browserInfo,omitempty"`
	Timestamp   string           `json:"timestamp"`
}

// FailureTestInfo identifies the failed test attempt.
type FailureTestInfo struct {
	Title    string `json:"title"`
	File     string `json:"file"`
	Status   string `json:"status"`
	Duration int64  `json:"duration"`
	Retry    int    `json:"retry"`
	Project  string `json:"project"`
}

// FailureError describes the triggering error, or is absent (JSON null)
// when the failure carried no error object.
type FailureError struct {
	Message string `json:"message"`
	Stack   string `json:"stack"`
	Name    string `json:"name"`
}

// FailureArtifacts holds the capture paths. Empty strings mean the
// artifact could not be captured.
type FailureArtifacts struct {
	Screenshot string `json:"screenshot"`
	Trace      string `json:"trace"`
}
