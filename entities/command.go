package entities

import (
	"fmt"
	"strings"
)

// Command is a saved how-to: what it does, where it runs and the exact
// command line to type.
type Command struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	HowTo       string `json:"how_to" gorm:"type:text;not null"`
	Platform    string `json:"platform" gorm:"type:varchar(128);not null"`
	CommandLine string `json:"command_line" gorm:"type:text;not null"`
}

func (Command) TableName() string { return "commands" }

// FieldError lists the required fields that were missing or blank.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("required fields missing: %s", strings.Join(e.Fields, ", "))
}

// Validate reports every required text field that is empty after trimming.
func (c *Command) Validate() error {
	var missing []string
	if strings.TrimSpace(c.HowTo) == "" {
		missing = append(missing, "how_to")
	}
	if strings.TrimSpace(c.Platform) == "" {
		missing = append(missing, "platform")
	}
	if strings.TrimSpace(c.CommandLine) == "" {
		missing = append(missing, "command_line")
	}
	if len(missing) > 0 {
		return &FieldError{Fields: missing}
	}
	return nil
}

// Apply copies the text fields of src onto c. The identity is left alone.
func (c *Command) Apply(src Command) {
	c.HowTo = src.HowTo
	c.Platform = src.Platform
	c.CommandLine = src.CommandLine
}
