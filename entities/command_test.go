package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() *Command {
	return &Command{
		HowTo:       "Do something great",
		Platform:    "xUnit",
		CommandLine: "dotnet test",
	}
}

func TestCommandFieldsAreMutable(t *testing.T) {
	cmd := newTestCommand()

	cmd.HowTo = "Execute unit tests"
	cmd.Platform = "New platform"
	cmd.CommandLine = "new command line text"

	assert.Equal(t, "Execute unit tests", cmd.HowTo)
	assert.Equal(t, "New platform", cmd.Platform)
	assert.Equal(t, "new command line text", cmd.CommandLine)
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		missing []string
	}{
		{
			name: "all fields populated",
			cmd:  *newTestCommand(),
		},
		{
			name:    "empty how_to",
			cmd:     Command{Platform: "CLI", CommandLine: "make"},
			missing: []string{"how_to"},
		},
		{
			name:    "blank platform",
			cmd:     Command{HowTo: "Build", Platform: "   ", CommandLine: "make"},
			missing: []string{"platform"},
		},
		{
			name:    "whitespace command line",
			cmd:     Command{HowTo: "Build", Platform: "CLI", CommandLine: "\t\n"},
			missing: []string{"command_line"},
		},
		{
			name:    "everything missing",
			cmd:     Command{},
			missing: []string{"how_to", "platform", "command_line"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.missing, fe.Fields)
			assert.Contains(t, err.Error(), tt.missing[0])
		})
	}
}

func TestCommandApplyKeepsIdentity(t *testing.T) {
	cmd := newTestCommand()
	cmd.ID = 7

	cmd.Apply(Command{ID: 99, HowTo: "Build", Platform: "CLI", CommandLine: "make build"})

	assert.Equal(t, uint(7), cmd.ID)
	assert.Equal(t, "Build", cmd.HowTo)
	assert.Equal(t, "CLI", cmd.Platform)
	assert.Equal(t, "make build", cmd.CommandLine)
}
