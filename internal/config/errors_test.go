package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError_Error(t *testing.T) {
	err := ConfigurationError{ErrorType: ErrorTypeValidation, Section: "server", Field: "server.port", Message: "must be between 1 and 65535"}
	assert.Equal(t, "[validation] server.port: must be between 1 and 65535", err.Error())

	err = NewConfigurationError("/x/config.yaml", ErrorTypeIO, "permission denied")
	assert.Equal(t, "[io] permission denied", err.Error())
}

func TestConfigurationError_DetailedError(t *testing.T) {
	err := NewConfigurationErrorWithDetails("/x/config.yaml", ErrorTypeParse, "malformed configuration file",
		"yaml: line 2: did not find expected key", []string{"check indentation"})

	detailed := err.DetailedError()
	assert.Contains(t, detailed, "Configuration Error in /x/config.yaml")
	assert.Contains(t, detailed, "Type: parse")
	assert.Contains(t, detailed, "Details: yaml: line 2")
	assert.Contains(t, detailed, "    - check indentation")
	assert.NotContains(t, detailed, "Section:")
}

func TestConfigurationErrorCollection(t *testing.T) {
	cec := NewConfigurationErrorCollection()
	assert.False(t, cec.HasErrors())
	assert.NoError(t, cec.ErrorOrNil())
	assert.Equal(t, "no configuration errors", cec.Error())
	assert.Equal(t, "No configuration errors to report", cec.GetDetailedReport())

	cec.AddValidation("/x/config.yaml", "rdpc.pageSize", "must be positive")
	assert.Equal(t, "[validation] rdpc.pageSize: must be positive", cec.Error())

	cec.AddValidation("/x/config.yaml", "schedule", "invalid", "use @hourly")
	assert.Equal(t, 2, cec.Count())
	assert.Equal(t, "2 configuration errors: [validation] rdpc.pageSize: must be positive (and 1 more)", cec.Error())
	assert.Len(t, cec.GetErrorsBySection("rdpc"), 1)
	assert.Equal(t, []string{"use @hourly"}, cec.GetErrorsBySection("schedule")[0].Suggestions)

	report := cec.GetDetailedReport()
	assert.Contains(t, report, "Detailed Configuration Error Report (2 errors):")
	assert.Contains(t, report, "Error 2:")
	assert.Error(t, cec.ErrorOrNil())
}
