package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"taskline/internal/models"
	"taskline/pkg/client"
)

var errQuit = errors.New("quit")

// shell is the line-oriented front end. Task numbers typed by the user refer
// to positions in the most recent listing.
type shell struct {
	in    *bufio.Scanner
	out   io.Writer
	api   *client.Client
	store *client.SessionStore

	// readPassword reads the next secret; it falls back to a plain line.
	readPassword func() (string, error)

	user      *models.UserPublic
	personal  []models.PersonalTask
	shared    []models.SharedTask
	workspace int
}

func newShell(in io.Reader, out io.Writer, api *client.Client, store *client.SessionStore) *shell {
	sh := &shell{
		in:    bufio.NewScanner(in),
		out:   out,
		api:   api,
		store: store,
	}
	sh.readPassword = sh.readLine
	return sh
}

func (sh *shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(sh.out, format, args...)
}

func (sh *shell) readLine() (string, error) {
	if !sh.in.Scan() {
		if err := sh.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(sh.in.Text()), nil
}

func (sh *shell) prompt(label string) (string, error) {
	sh.printf("%s", label)
	return sh.readLine()
}

func (sh *shell) run() error {
	sh.printf("Welcome to Task Line!\n")
	if err := sh.resume(); err != nil {
		sh.printf("Stored session is no longer valid: %v\n", err)
	}

	for {
		if sh.user == nil {
			if err := sh.welcome(); err != nil {
				return quietEOF(err)
			}
			continue
		}
		line, err := sh.prompt(fmt.Sprintf("%s> ", sh.user.Name))
		if err != nil {
			return quietEOF(err)
		}
		if line == "" {
			continue
		}
		if err := sh.dispatch(strings.Fields(line)); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			sh.printf("Error: %v\n", describe(err))
		}
	}
}

func quietEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// resume restores a stored session if its token still verifies.
func (sh *shell) resume() error {
	sess, err := sh.store.Load()
	if err != nil || sess == nil {
		return err
	}
	sh.api.SetToken(sess.Token)
	user, err := sh.api.Verify()
	if err != nil {
		sh.api.SetToken("")
		_ = sh.store.Clear()
		return err
	}
	sh.user = &user
	sh.printf("Logged in as %s\n", user.Name)
	return nil
}

func (sh *shell) welcome() error {
	sh.printf("\n1. Login\n2. Register\nq. Quit\n")
	choice, err := sh.prompt("Choose option: ")
	if err != nil {
		return err
	}
	switch strings.ToLower(choice) {
	case "1":
		return sh.login()
	case "2":
		return sh.register()
	case "q":
		return errQuit
	default:
		sh.printf("Unknown option %q\n", choice)
		return nil
	}
}

func (sh *shell) credentials() (string, string, error) {
	name, err := sh.prompt("Username: ")
	if err != nil {
		return "", "", err
	}
	sh.printf("Password: ")
	password, err := sh.readPassword()
	if err != nil {
		return "", "", err
	}
	return name, password, nil
}

func (sh *shell) register() error {
	name, password, err := sh.credentials()
	if err != nil {
		return err
	}
	if _, err := sh.api.Register(name, password); err != nil {
		sh.printf("Error: %v\n", describe(err))
		return nil
	}
	sh.printf("Registered %s, you can log in now.\n", name)
	return nil
}

func (sh *shell) login() error {
	name, password, err := sh.credentials()
	if err != nil {
		return err
	}
	tok, err := sh.api.Login(name, password)
	if err != nil {
		sh.printf("Login failed: %v\n", describe(err))
		return nil
	}
	user, err := sh.api.Verify()
	if err != nil {
		sh.printf("Error verifying user: %v\n", describe(err))
		return nil
	}
	if err := sh.store.Save(client.Session{Token: tok.AccessToken, User: user}); err != nil {
		sh.printf("Warning: session not saved: %v\n", err)
	}
	sh.user = &user
	sh.printf("Logged in as %s\n", user.Name)
	return nil
}

const help = `Personal tasks:
  tasks                   list your tasks
  add                     add a task
  edit N | toggle N | del N
Workspaces:
  ws                      list workspaces
  ws new NAME             create a workspace you own
  ws del ID               delete a workspace
  ws add ID MEMBER        add a member
  ws rm ID MEMBER         remove a member
  open ID                 list the shared tasks of a workspace
  sadd | sedit N | stoggle N | sdel N   work on the open workspace
Session:
  logout | quit | help
`

func (sh *shell) dispatch(args []string) error {
	switch cmd, rest := args[0], args[1:]; cmd {
	case "help", "?":
		sh.printf("%s", help)
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "logout":
		return sh.logout()
	case "tasks", "ls":
		return sh.listPersonal()
	case "add":
		return sh.addPersonal()
	case "edit":
		return sh.withIndex(rest, len(sh.personal), sh.editPersonal)
	case "toggle":
		return sh.withIndex(rest, len(sh.personal), sh.togglePersonal)
	case "del":
		return sh.withIndex(rest, len(sh.personal), sh.deletePersonal)
	case "ws":
		return sh.workspaces(rest)
	case "open":
		if len(rest) != 1 {
			return errors.New("usage: open ID")
		}
		id, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("bad workspace id %q", rest[0])
		}
		sh.workspace = id
		return sh.listShared()
	case "sadd", "sedit", "stoggle", "sdel":
		if sh.workspace == 0 {
			return errors.New("open a workspace first")
		}
		switch cmd {
		case "sadd":
			return sh.addShared()
		case "sedit":
			return sh.withIndex(rest, len(sh.shared), sh.editShared)
		case "stoggle":
			return sh.withIndex(rest, len(sh.shared), sh.toggleShared)
		default:
			return sh.withIndex(rest, len(sh.shared), sh.deleteShared)
		}
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
}

func (sh *shell) withIndex(args []string, n int, fn func(int) error) error {
	if len(args) != 1 {
		return errors.New("expected a task number")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 1 || i > n {
		return fmt.Errorf("no task number %s in the last listing", args[0])
	}
	return fn(i - 1)
}

func (sh *shell) logout() error {
	if err := sh.api.Logout(); err != nil {
		sh.printf("Warning: server logout failed: %v\n", describe(err))
	}
	sh.api.SetToken("")
	if err := sh.store.Clear(); err != nil {
		return err
	}
	sh.user, sh.personal, sh.shared, sh.workspace = nil, nil, nil, 0
	sh.printf("Logged out\n")
	return nil
}

// Personal tasks

func (sh *shell) listPersonal() error {
	tasks, err := sh.api.PersonalTasks(sh.user.ID, 0, 0)
	if err != nil {
		return err
	}
	sh.personal = tasks
	if len(tasks) == 0 {
		sh.printf("No tasks yet\n")
		return nil
	}
	for i, t := range tasks {
		sh.printf("%s\n", taskLine(i+1, t.Status, t.Name, t.Priority, t.Date, ""))
	}
	return nil
}

func (sh *shell) readTask() (client.NewTask, error) {
	name, err := sh.prompt("Name: ")
	if err != nil {
		return client.NewTask{}, err
	}
	priority, err := sh.prompt("Priority (Normal/High) [Normal]: ")
	if err != nil {
		return client.NewTask{}, err
	}
	return client.NewTask{Name: name, Priority: normalizePriority(priority)}, nil
}

func (sh *shell) readPatch(name, priority string) (models.TaskPatch, error) {
	var patch models.TaskPatch
	newName, err := sh.prompt(fmt.Sprintf("Name [%s]: ", name))
	if err != nil {
		return patch, err
	}
	if newName != "" {
		patch.Name = &newName
	}
	newPriority, err := sh.prompt(fmt.Sprintf("Priority [%s]: ", priority))
	if err != nil {
		return patch, err
	}
	if p := normalizePriority(newPriority); p != "" {
		patch.Priority = &p
	}
	return patch, nil
}

func (sh *shell) addPersonal() error {
	in, err := sh.readTask()
	if err != nil {
		return err
	}
	if _, err := sh.api.AddPersonalTask(sh.user.ID, in); err != nil {
		return err
	}
	return sh.listPersonal()
}

func (sh *shell) editPersonal(i int) error {
	t := sh.personal[i]
	patch, err := sh.readPatch(t.Name, t.Priority)
	if err != nil {
		return err
	}
	if _, err := sh.api.UpdatePersonalTask(sh.user.ID, t.ID, patch); err != nil {
		return err
	}
	return sh.listPersonal()
}

func (sh *shell) togglePersonal(i int) error {
	if _, err := sh.api.TogglePersonalTask(sh.user.ID, sh.personal[i].ID); err != nil {
		return err
	}
	return sh.listPersonal()
}

func (sh *shell) deletePersonal(i int) error {
	if err := sh.api.DeletePersonalTask(sh.user.ID, sh.personal[i].ID); err != nil {
		return err
	}
	return sh.listPersonal()
}

// Workspaces

func (sh *shell) workspaces(args []string) error {
	if len(args) == 0 {
		return sh.listWorkspaces()
	}
	switch args[0] {
	case "new":
		if len(args) < 2 {
			return errors.New("usage: ws new NAME")
		}
		id, err := sh.api.CreateWorkspace(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		sh.printf("Created workspace %d\n", id)
		return nil
	case "del":
		id, err := workspaceArg(args, 2)
		if err != nil {
			return err
		}
		if err := sh.api.DeleteWorkspace(id); err != nil {
			return err
		}
		if sh.workspace == id {
			sh.workspace, sh.shared = 0, nil
		}
		sh.printf("Deleted!\n")
		return nil
	case "add", "rm":
		id, err := workspaceArg(args, 3)
		if err != nil {
			return err
		}
		if args[0] == "add" {
			if _, err := sh.api.AddMember(id, args[2]); err != nil {
				return err
			}
			sh.printf("Added successfully!\n")
			return nil
		}
		if err := sh.api.RemoveMember(id, args[2]); err != nil {
			return err
		}
		sh.printf("Removed successfully!\n")
		return nil
	default:
		return fmt.Errorf("unknown ws command %q", args[0])
	}
}

func workspaceArg(args []string, want int) (int, error) {
	if len(args) != want {
		return 0, fmt.Errorf("usage: ws %s ID%s", args[0], strings.Repeat(" MEMBER", want-2))
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("bad workspace id %q", args[1])
	}
	return id, nil
}

func (sh *shell) listWorkspaces() error {
	views, err := sh.api.Workspaces()
	if err != nil {
		return err
	}
	if len(views) == 0 {
		sh.printf("No workspaces yet\n")
		return nil
	}
	ids := make([]int, 0, len(views))
	for id := range views {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		v := views[id]
		members := "-"
		if len(v.Members) > 0 {
			members = strings.Join(v.Members, ", ")
		}
		sh.printf("[%d] %s (owner %s, you are %s) members: %s\n", id, v.Name, v.Owner, v.Role, members)
	}
	return nil
}

// Shared tasks

func (sh *shell) listShared() error {
	tasks, err := sh.api.SharedTasks(sh.workspace, 0, 0)
	if err != nil {
		return err
	}
	sh.shared = tasks
	if len(tasks) == 0 {
		sh.printf("No shared tasks in workspace %d\n", sh.workspace)
		return nil
	}
	for i, t := range tasks {
		sh.printf("%s\n", taskLine(i+1, t.Status, t.Name, t.Priority, t.Date, t.CreatedBy))
	}
	return nil
}

func (sh *shell) addShared() error {
	in, err := sh.readTask()
	if err != nil {
		return err
	}
	if _, err := sh.api.AddSharedTask(sh.workspace, in); err != nil {
		return err
	}
	return sh.listShared()
}

func (sh *shell) editShared(i int) error {
	t := sh.shared[i]
	patch, err := sh.readPatch(t.Name, t.Priority)
	if err != nil {
		return err
	}
	if _, err := sh.api.UpdateSharedTask(sh.workspace, t.ID, patch); err != nil {
		return err
	}
	return sh.listShared()
}

func (sh *shell) toggleShared(i int) error {
	if _, err := sh.api.ToggleSharedTask(sh.workspace, sh.shared[i].ID); err != nil {
		return err
	}
	return sh.listShared()
}

func (sh *shell) deleteShared(i int) error {
	if err := sh.api.DeleteSharedTask(sh.workspace, sh.shared[i].ID); err != nil {
		return err
	}
	return sh.listShared()
}

func taskLine(n int, status, name, priority, date, by string) string {
	box := "[ ]"
	if status == models.StatusCompleted {
		box = "[x]"
	}
	line := fmt.Sprintf("%2d. %s %s (%s, %s)", n, box, name, priority, date)
	if by != "" {
		line += " by " + by
	}
	return line
}

// normalizePriority accepts any case and "h"/"n" shorthands; empty stays
// empty so the server default applies.
func normalizePriority(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "high":
		return models.PriorityHigh
	case "n", "normal":
		return models.PriorityNormal
	default:
		return strings.TrimSpace(s)
	}
}

// describe turns API errors into the short messages shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrForbidden):
		return "Permission denied"
	case errors.Is(err, client.ErrUnauthorized):
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return "Not logged in"
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
