package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests substitute a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ListRides(ctx context.Context, args []string) error
	CreateRide(ctx context.Context) error
	JoinRide(ctx context.Context, args []string) error
	LeaveRide(ctx context.Context, args []string) error
	ShowWallet(ctx context.Context) error
	TopUp(ctx context.Context) error
	Checkout(ctx context.Context) error
	ListFriends(ctx context.Context) error
	FriendRequests(ctx context.Context) error
	AddFriend(ctx context.Context, args []string) error
	Chat(ctx context.Context, args []string) error
	Inbox(ctx context.Context) error
	ShowHistory(ctx context.Context) error
	EmergencyContacts(ctx context.Context) error
	SOS(ctx context.Context) error
}

// runREPL reads lines from scanner, parses the first token as the command
// and dispatches to a. Handler errors are printed, never fatal; the loop
// exits on EOF or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ridematch %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: rides, create, join <ride_id>, leave <ride_id>, wallet, topup, checkout, friends, requests, addfriend <user_id>, inbox, chat <user_id>, history, contacts, sos, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, rides, exit")
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "rides":
			err = a.ListRides(ctx, args)
		case "create":
			err = a.CreateRide(ctx)
		case "join":
			err = a.JoinRide(ctx, args)
		case "leave":
			err = a.LeaveRide(ctx, args)
		case "wallet":
			err = a.ShowWallet(ctx)
		case "topup":
			err = a.TopUp(ctx)
		case "checkout":
			err = a.Checkout(ctx)
		case "friends":
			err = a.ListFriends(ctx)
		case "requests":
			err = a.FriendRequests(ctx)
		case "addfriend":
			err = a.AddFriend(ctx, args)
		case "inbox":
			err = a.Inbox(ctx)
		case "chat":
			err = a.Chat(ctx, args)
		case "history":
			err = a.ShowHistory(ctx)
		case "contacts":
			err = a.EmergencyContacts(ctx)
		case "sos":
			err = a.SOS(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
