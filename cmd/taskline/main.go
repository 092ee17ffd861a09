package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"taskline/pkg/client"
)

const defaultURL = "http://127.0.0.1:3004"

func main() {
	baseURL := os.Getenv("TASKLINE_URL")
	if baseURL == "" {
		baseURL = defaultURL
	}
	sessionPath := os.Getenv("TASKLINE_SESSION")
	if sessionPath == "" {
		sessionPath = client.DefaultSessionPath()
	}

	sh := newShell(os.Stdin, os.Stdout, client.New(baseURL),
		client.NewSessionStore(sessionPath, os.Getenv("TASKLINE_SESSION_KEY")))
	if term.IsTerminal(int(os.Stdin.Fd())) {
		sh.readPassword = func() (string, error) {
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stdout)
			return string(raw), err
		}
	}

	if err := sh.run(); err != nil {
		fmt.Fprintln(os.Stderr, "taskline:", err)
		os.Exit(1)
	}
}
