// Package input parses the TUI command prompt.
package input

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/dateutil"
)

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
}

// Command is a parsed prompt line.
type Command struct {
	Name string
	Arg  string
}

// ErrNotCommand is returned for prompt input that does not start with a slash.
var ErrNotCommand = errors.New("commands start with /")

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// Parse splits a prompt line into a known command and its argument.
func Parse(line string, commands []PromptCommand) (Command, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return Command{}, ErrNotCommand
	}

	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	for _, cmd := range commands {
		if cmd.Name == name {
			return Command{Name: name, Arg: strings.TrimSpace(arg)}, nil
		}
	}
	return Command{}, fmt.Errorf("unknown command %s", name)
}

// ResolveDate interprets a /goto argument: YYYY-MM-DD, "today", "tomorrow",
// or a weekday name.
func ResolveDate(arg string, now time.Time) (time.Time, error) {
	if arg == "" {
		return time.Time{}, errors.New("date is required")
	}
	return dateutil.ParseRelativeDate(arg, now)
}
