package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in       string
		wantType CommandType
		wantArgs []string
	}{
		{in: "/milk Bonita 8.5", wantType: CommandMilk, wantArgs: []string{"Bonita", "8.5"}},
		{in: "  MILK 12 3 ", wantType: CommandMilk, wantArgs: []string{"12", "3"}},
		{in: "/leche 12 3", wantType: CommandMilk, wantArgs: []string{"12", "3"}},
		{in: "/done AbC-1", wantType: CommandDone, wantArgs: []string{"AbC-1"}},
		{in: "/tasks", wantType: CommandTasks},
		{in: "/stats", wantType: CommandStats},
		{in: "help", wantType: CommandHelp},
		{in: "", wantType: CommandUnknown},
		{in: "hello there", wantType: CommandUnknown, wantArgs: []string{"there"}},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			cmd := ParseCommand(tc.in)
			assert.Equal(t, tc.wantType, cmd.Type)
			assert.Equal(t, tc.wantArgs, cmd.Args)
			assert.Equal(t, tc.in, cmd.Raw)
		})
	}
}
