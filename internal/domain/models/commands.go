package models

import "strings"

// CommandType enumerates the field commands ranch hands can send over WhatsApp.
type CommandType string

const (
	CommandMilk    CommandType = "milk"
	CommandDone    CommandType = "done"
	CommandTasks   CommandType = "tasks"
	CommandStats   CommandType = "stats"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from free-form text. Only the command word is
// case-folded; arguments keep their case so animal tags and task ids survive.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(message)
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.TrimPrefix(strings.ToLower(tokens[0]), "/")
	switch CommandType(head) {
	case CommandMilk, CommandDone, CommandTasks, CommandStats, CommandHelp:
		cmd.Type = CommandType(head)
	case "leche":
		cmd.Type = CommandMilk
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
