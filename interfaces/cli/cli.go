// Package cli is an interactive terminal client for browsing and locally
// editing the character catalog.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"holocron/application/commands/bus"
	querybus "holocron/application/queries/bus"
	"holocron/application/services"

	"github.com/chzyer/readline"
)

// ErrExit is returned by ExecuteCommand when the user asked to leave.
var ErrExit = errors.New("exit requested")

// CLI reads commands from a readline instance and drives one search session.
type CLI struct {
	session    *services.SearchSession
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	out        io.Writer
	rl         *readline.Instance

	// settleTimeout bounds how long search waits for results.
	settleTimeout time.Duration
	pollInterval  time.Duration

	Prompt string
}

// NewCLI creates a CLI. rl may be nil when commands are fed directly to
// ExecuteCommand.
func NewCLI(
	session *services.SearchSession,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	settleTimeout time.Duration,
	rl *readline.Instance,
	out io.Writer,
) *CLI {
	c := &CLI{
		session:       session,
		commandBus:    commandBus,
		queryBus:      queryBus,
		out:           out,
		rl:            rl,
		settleTimeout: settleTimeout,
		pollInterval:  25 * time.Millisecond,
	}
	c.UpdatePrompt()
	return c
}

// Run reads and executes a single line.
func (c *CLI) Run(ctx context.Context) error {
	line, err := c.rl.Readline()
	if err != nil {
		return err
	}

	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	return c.ExecuteCommand(ctx, ParseArgs(line))
}

// UpdatePrompt shows the active search term in the prompt.
func (c *CLI) UpdatePrompt() {
	term := c.session.State().DebouncedSearch
	if term == "" {
		c.Prompt = "holocron> "
	} else {
		c.Prompt = fmt.Sprintf("holocron [%s]> ", term)
	}
	if c.rl != nil {
		c.rl.SetPrompt(c.Prompt)
	}
}

// ParseArgs splits input on spaces. Double quotes group words and are removed.
func ParseArgs(input string) []string {
	var args []string
	var currentArg strings.Builder
	inQuotes := false
	quoted := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
			quoted = true
		case ' ', '\t':
			if inQuotes {
				currentArg.WriteRune(char)
				continue
			}
			if currentArg.Len() > 0 || quoted {
				args = append(args, currentArg.String())
				currentArg.Reset()
				quoted = false
			}
		default:
			currentArg.WriteRune(char)
		}
	}

	if currentArg.Len() > 0 || quoted {
		args = append(args, currentArg.String())
	}

	return args
}

// ExecuteCommand runs one parsed command line.
func (c *CLI) ExecuteCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}

	defer c.UpdatePrompt()

	switch args[0] {
	case "search":
		return c.handleSearch(ctx, args[1:])
	case "more":
		return c.handleMore(ctx, args[1:])
	case "list":
		return c.handleList(args[1:])
	case "refetch":
		return c.handleRefetch(ctx, args[1:])
	case "show":
		return c.handleShow(ctx, args[1:])
	case "edit":
		return c.handleEdit(ctx, args[1:])
	case "reset":
		return c.handleReset(ctx, args[1:])
	case "edits":
		return c.handleEdits(ctx, args[1:])
	case "clear":
		return c.handleClear(ctx, args[1:])
	case "help":
		c.printHelp(strings.Join(args[1:], " "))
		return nil
	case "exit", "quit":
		fmt.Fprintln(c.out, "Exiting...")
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (c *CLI) printHelp(command string) {
	if command == "" {
		fmt.Fprintln(c.out, "Available commands:")
		for _, cmd := range commandOrder {
			fmt.Fprintf(c.out, "  %s\n", cmd)
		}
		fmt.Fprintln(c.out, "\nUse 'help <command>' for more information about a specific command.")
	} else if help, ok := commandHelp[command]; ok {
		fmt.Fprintln(c.out, help)
	} else {
		fmt.Fprintf(c.out, "Unknown command: %s\n", command)
	}
}

var commandOrder = []string{"search", "more", "list", "refetch", "show", "edit", "reset", "edits", "clear", "help", "exit"}

// commandHelp contains help text for each command.
var commandHelp = map[string]string{
	"search": `Syntax: search [text]
Description: Searches characters by name. Without text, lists every character.
Example: search "Darth Vader"`,

	"more": `Syntax: more
Description: Loads the next page of the current search, if there is one.`,

	"list": `Syntax: list
Description: Shows the characters loaded so far for the current search.`,

	"refetch": `Syntax: refetch
Description: Reloads the current search from its first page.`,

	"show": `Syntax: show <id>
Description: Shows one character, including any local edit.
Example: show 1`,

	"edit": `Syntax: edit <id> <field>=<value>...
Description: Saves a local edit. Unlisted fields keep their current values.
Fields: name, birth_year, height, mass, hair_color, skin_color, eye_color, gender
Example: edit 1 name="Luke Organa" height=180`,

	"reset": `Syntax: reset <id>
Description: Discards the local edit of one character.
Example: reset 1`,

	"edits": `Syntax: edits
Description: Lists every character with a local edit.`,

	"clear": `Syntax: clear
Description: Discards every local edit.`,

	"help": `Syntax: help [command]
Description: Lists commands, or describes one.`,

	"exit": `Syntax: exit
Description: Leaves the client. Local edits are not kept.`,
}
