package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dashgate/internal/logging"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Home(ctx context.Context) error

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	LogoutEverywhere(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	ConfirmReset(ctx context.Context, token string) error

	Dashboard(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	DeleteAccount(ctx context.Context) error

	AdminDashboard(ctx context.Context) error
	Pending(ctx context.Context) error
	Activate(ctx context.Context, id int64) error
	Users(ctx context.Context) error
	User(ctx context.Context, id int64) error
}

const (
	helpGuest = "Available commands: home, login, register, reset, reset-confirm [token], exit"
	helpUser  = "Available commands: home, profile, update, delete, logout, logout-all, exit\n" +
		"Admin commands: admin, pending, activate <id>, users, user <id>"
)

// runREPL starts a simple read-eval-print loop for the dashgate CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Commands:
//
//	home               go to the dashboard matching the session (or login)
//	register | login   create an account / authenticate
//	reset              request a password reset email
//	reset-confirm [t]  set a new password with a reset token
//	profile            show the current user
//	update | delete    change or remove the current account
//	logout             forget the local session
//	logout-all         invalidate the session on every device
//	admin              admin dashboard (pending users and all ids)
//	pending            list pending users
//	activate <id>      activate a pending user
//	users | user <id>  list all user ids / show one user
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("dg %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		cmdCtx := logging.WithFields(ctx, "command", cmd)

		switch cmd {
		case "help":
			if a.isLoggedIn(cmdCtx) {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "home":
			_ = a.Home(cmdCtx)

		case "register":
			_ = a.Register(cmdCtx)

		case "login":
			_ = a.Login(cmdCtx)

		case "logout":
			_ = a.Logout(cmdCtx)

		case "logout-all":
			_ = a.LogoutEverywhere(cmdCtx)

		case "reset":
			_ = a.ResetPassword(cmdCtx)

		case "reset-confirm":
			token := ""
			if len(args) > 0 {
				token = args[0]
			}
			_ = a.ConfirmReset(cmdCtx, token)

		case "profile", "me":
			_ = a.Dashboard(cmdCtx)

		case "update":
			_ = a.UpdateProfile(cmdCtx)

		case "delete":
			_ = a.DeleteAccount(cmdCtx)

		case "admin":
			_ = a.AdminDashboard(cmdCtx)

		case "pending":
			_ = a.Pending(cmdCtx)

		case "users":
			_ = a.Users(cmdCtx)

		case "activate", "user":
			id, ok := parseID(args)
			if !ok {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			if cmd == "activate" {
				_ = a.Activate(cmdCtx, id)
			} else {
				_ = a.User(cmdCtx, id)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
