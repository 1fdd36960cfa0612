package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/voices/internal/votes"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Sort(ctx context.Context, order string) error
	Filter(ctx context.Context, category string) error
	Vote(ctx context.Context, id string, delta votes.Vote) error
	Submit(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, when ctx is done, or when the user types "exit" or
// "quit".
//
// Commands:
//
//	help                    show available commands
//	register | login        authenticate
//	logout                  forget the session
//	list | l                show the current listing
//	sort newest|votes       change the order
//	filter <category>|all   change the category filter
//	up <id> | down <id>     vote (repeat to retract)
//	submit                  propose something new
//	edit <id>               change your proposal
//	delete <id>             remove your proposal
//	exit | quit             leave the program
//
// Handlers report their own errors; the REPL keeps running after any of them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("voices %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, sort, filter, up, down, submit, edit, delete, logout, exit")
			} else {
				printlnFn("Available commands: (l)ist, sort, filter, up, down, submit, register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "sort":
			if len(args) != 1 {
				printlnFn("Usage: sort newest|votes")
				continue
			}
			_ = a.Sort(ctx, args[0])

		case "filter":
			if len(args) != 1 {
				printlnFn("Usage: filter <category>|all")
				continue
			}
			_ = a.Filter(ctx, args[0])

		case "up", "down":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			delta := votes.Up
			if cmd == "down" {
				delta = votes.Down
			}
			_ = a.Vote(ctx, args[0], delta)

		case "submit":
			_ = a.Submit(ctx)

		case "edit", "delete":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			if cmd == "edit" {
				_ = a.Edit(ctx, args[0])
			} else {
				_ = a.Delete(ctx, args[0])
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
