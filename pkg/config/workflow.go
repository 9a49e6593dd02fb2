package config

import (
	"fmt"
	"strings"
)

// WorkflowConfig points the order processor at the fulfillment workflow
// engine. An empty subject disables the workflow trigger.
type WorkflowConfig struct {
	Subject string `koanf:"subject"`
}

// String returns a string representation of the workflow configuration.
func (c *WorkflowConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Workflow ---\n")
	if c.Subject == "" {
		b.WriteString("  subject: <disabled>\n")
	} else {
		b.WriteString(fmt.Sprintf("  subject: %s\n", c.Subject))
	}
	return b.String()
}

func (c *WorkflowConfig) Validate() error {
	// The workflow trigger is optional.
	return nil
}
