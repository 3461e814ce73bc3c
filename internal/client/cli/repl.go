package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
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
	Topics(ctx context.Context) error
	AddTopic(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Vote(ctx context.Context, args []string) error
	Result(ctx context.Context, args []string) error
	Session(ctx context.Context, args []string) error
	Refresh(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the gvote CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Every line read, even an empty one, is
// reported through onInput before it is handled. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                     show available commands
//	  - topics | l               list topics with their session status
//	  - result <id>              show the final tally of a topic
//	  - session <id>             show the server's voting window
//	  - refresh                  expire ended sessions now and reload topics
//	  - exit | quit              leave the program
//
//	Not logged in:
//	  - register                 create an account
//	  - login                    authenticate
//
//	Logged in:
//	  - addtopic [name]          create a topic
//	  - open <id> <minutes>      open a voting session (1..60 minutes)
//	  - vote <id> <sim|nao>      cast a vote
//	  - logout                   forget the stored token
//
// Errors returned by command handlers are rendered with describeError.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, onInput func()) {
	for {
		printlnFn(fmt.Sprintf("gvote%s> ", prefixed(statusFn())))
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return
		}
		if onInput != nil {
			onInput()
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: topics (l), addtopic, open, vote, result, session, refresh, logout, exit")
			} else {
				printlnFn("Available commands: register, login, topics (l), result, session, refresh, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "l", "topics":
			cmdErr = a.Topics(ctx)

		case "addtopic":
			cmdErr = a.AddTopic(ctx, args)

		case "open":
			if len(args) < 2 {
				printlnFn("Usage: open <id> <minutes>")
				continue
			}
			cmdErr = a.Open(ctx, args)

		case "vote":
			if len(args) < 2 {
				printlnFn("Usage: vote <id> <sim|nao>")
				continue
			}
			cmdErr = a.Vote(ctx, args)

		case "result":
			if len(args) < 1 {
				printlnFn("Usage: result <id>")
				continue
			}
			cmdErr = a.Result(ctx, args)

		case "session":
			if len(args) < 1 {
				printlnFn("Usage: session <id>")
				continue
			}
			cmdErr = a.Session(ctx, args)

		case "refresh":
			cmdErr = a.Refresh(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(describeError(cmdErr))
		}
		if err == io.EOF {
			return
		}
	}
}

func prefixed(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
