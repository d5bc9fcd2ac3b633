package report

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// outcomeRecordSchema validates one line of the outcome stream before a
// merge trusts it. A torn or foreign line is skipped, not fatal.
const outcomeRecordSchema = `{
  "type": "object",
  "required": ["runId", "outcome"],
  "properties": {
    "runId": {"type": "string", "minLength": 1},
    "worker": {"type": "integer"},
    "outcome": {
      "type": "object",
      "required": ["title", "status", "durationMs"],
      "properties": {
        "title": {"type": "string", "minLength": 1},
        "file": {"type": "string"},
        "project": {"type": "string"},
        "status": {"enum": ["passed", "failed", "skipped", "flaky"]},
        "durationMs": {"type": "integer", "minimum": 0},
        "retryCount": {"type": "integer", "minimum": 0},
        "errorMessage": {"type": "string"},
        "errorStack": {"type": "string"}
      }
    }
  }
}`

// failureReportSchema is the contract for the per-failure JSON document.
// Keys are stable; additional top-level keys are rejected.
const failureReportSchema = `{
  "type": "object",
  "required": ["testInfo", "error", "artifacts", "timestamp"],
  "additionalProperties": false,
  "properties": {
    "testInfo": {
      "type": "object",
      "required": ["title", "file", "status", "duration", "retry", "project"],
      "properties": {
        "title": {"type": "string"},
        "file": {"type": "string"},
        "status": {"enum": ["passed", "failed", "skipped", "flaky"]},
        "duration": {"type": "integer", "minimum": 0},
        "retry": {"type": "integer", "minimum": 0},
        "project": {"type": "string"}
      }
    },
    "error": {
      "oneOf": [
        {"type": "null"},
        {
          "type": "object",
          "required": ["message"],
          "properties": {
            "message": {"type": "string"},
            "stack": {"type": "string"},
            "name": {"type": "string"}
          }
        }
      ]
    },
    "artifacts": {
      "type": "object",
      "required": ["screenshot", "trace"],
      "properties": {
        "screenshot": {"type": "string"},
        "trace": {"type": "string"}
      }
    },
    "browserInfo": {"type": "string"},
    "timestamp": {"type": "string"}
  }
}`

var (
	recordSchemaLoader        = gojsonschema.NewStringLoader(outcomeRecordSchema)
	failureReportSchemaLoader = gojsonschema.NewStringLoader(failureReportSchema)
)

// ValidateRecord checks one outcome stream line against its schema.
func ValidateRecord(line []byte) error {
	return validateAgainst(recordSchemaLoader, line)
}

// ValidateFailureReport checks a persisted failure report document
// against its schema.
func ValidateFailureReport(doc []byte) error {
	return validateAgainst(failureReportSchemaLoader, doc)
}

func validateAgainst(schema gojsonschema.JSONLoader, doc []byte) error {
	docLoader := gojsonschema.NewBytesLoader(doc)
	result, err := gojsonschema.Validate(schema, docLoader)
	if err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
	}
	return nil
}
