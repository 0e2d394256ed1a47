package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Popular(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Rate(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Profile(ctx context.Context) error
	Avatar(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register, login, search <query> [page], popular [page], show <id>, exit"
	helpSignedIn  = "Available commands: search <query> [page], popular [page], show <id>, add <id> <rating>, " +
		"rate <id> <rating>, remove <id>, (l)ist [date|rating|title], stats, profile, avatar <path>, " +
		"export <file>, import <file>, logout, exit"
)

// signedInOnly lists the commands that need an authenticated session.
var signedInOnly = map[string]bool{
	"add": true, "rate": true, "remove": true, "l": true, "list": true, "stats": true,
	"profile": true, "avatar": true, "export": true, "import": true, "logout": true,
}

// runREPL reads commands from in until EOF, "exit" or "quit" and dispatches
// them to a. The prompt shows statusFn(). Handler errors are reported to the
// user and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		prompt := "rmm> "
		if s := statusFn(); s != "" {
			prompt = fmt.Sprintf("rmm (%s)> ", s)
		}
		printlnFn(prompt)

		line, err := readLine(in)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("Error:", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if signedInOnly[cmd] && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "search":
			cmdErr = a.Search(ctx, args)

		case "popular":
			cmdErr = a.Popular(ctx, args)

		case "show":
			cmdErr = a.Show(ctx, args)

		case "add":
			cmdErr = a.Add(ctx, args)

		case "rate":
			cmdErr = a.Rate(ctx, args)

		case "remove":
			cmdErr = a.Remove(ctx, args)

		case "l", "list":
			cmdErr = a.List(ctx, args)

		case "stats":
			cmdErr = a.Stats(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "avatar":
			cmdErr = a.Avatar(ctx, args)

		case "export":
			cmdErr = a.Export(ctx, args)

		case "import":
			cmdErr = a.Import(ctx, args)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(describe(cmdErr))
		}
	}
}
