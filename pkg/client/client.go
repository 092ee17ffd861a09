// Package client talks to the taskline HTTP API.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"taskline/internal/models"
)

const DefaultTimeout = 10 * time.Second

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" && e.Detail != e.Message {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case fiber.StatusBadRequest:
		return ErrBadRequest
	case fiber.StatusUnauthorized:
		return ErrUnauthorized
	case fiber.StatusForbidden:
		return ErrForbidden
	case fiber.StatusNotFound:
		return ErrNotFound
	case fiber.StatusConflict:
		return ErrConflict
	}
	return nil
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewTask is the body for creating a personal or shared task. Empty fields
// take the server defaults.
type NewTask struct {
	Name     string `json:"name"`
	Priority string `json:"priority,omitempty"`
	Status   string `json:"status,omitempty"`
}

type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
}

// SetToken sets the bearer token sent with every later call.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

// do sends body as JSON and decodes a 2xx answer into out when out is not nil.
func (c *Client) do(method, path string, body, out interface{}) error {
	var a *fiber.Agent
	uri := c.baseURL + path
	switch method {
	case fiber.MethodGet:
		a = fiber.Get(uri)
	case fiber.MethodPost:
		a = fiber.Post(uri)
	case fiber.MethodPut:
		a = fiber.Put(uri)
	case fiber.MethodDelete:
		a = fiber.Delete(uri)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}
	a.Timeout(c.timeout)
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		a.JSON(body)
	}

	status, raw, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if status < 200 || status > 299 {
		return decodeError(status, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
		apiErr.Detail = envelope.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = fiber.ErrInternalServerError.Message
	}
	return apiErr
}

func (c *Client) Health() error {
	return c.do(fiber.MethodGet, "/health", nil, nil)
}

// Users

func (c *Client) Register(name, password string) (models.UserPublic, error) {
	var user models.UserPublic
	err := c.do(fiber.MethodPost, "/users/register", fiber.Map{"name": name, "password": password}, &user)
	return user, err
}

// Login obtains a token and keeps it for later calls.
func (c *Client) Login(name, password string) (Token, error) {
	var tok Token
	if err := c.do(fiber.MethodPost, "/users/login", fiber.Map{"name": name, "password": password}, &tok); err != nil {
		return Token{}, err
	}
	c.token = tok.AccessToken
	return tok, nil
}

func (c *Client) Verify() (models.UserPublic, error) {
	var user models.UserPublic
	err := c.do(fiber.MethodGet, "/users/verify", nil, &user)
	return user, err
}

func (c *Client) Logout() error {
	if err := c.do(fiber.MethodPost, "/users/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Personal tasks

func (c *Client) PersonalTasks(userID, offset, limit int) ([]models.PersonalTask, error) {
	var tasks []models.PersonalTask
	err := c.do(fiber.MethodGet, fmt.Sprintf("/personaltasks/%d%s", userID, pageQuery(offset, limit)), nil, &tasks)
	return tasks, err
}

func (c *Client) AddPersonalTask(userID int, task NewTask) (models.PersonalTask, error) {
	var out models.PersonalTask
	err := c.do(fiber.MethodPost, fmt.Sprintf("/personaltasks/%d", userID), task, &out)
	return out, err
}

func (c *Client) UpdatePersonalTask(userID, taskID int, patch models.TaskPatch) (models.PersonalTask, error) {
	var out models.PersonalTask
	err := c.do(fiber.MethodPut, fmt.Sprintf("/personaltasks/%d/%d", userID, taskID), patch, &out)
	return out, err
}

func (c *Client) TogglePersonalTask(userID, taskID int) (models.PersonalTask, error) {
	var out models.PersonalTask
	err := c.do(fiber.MethodPost, fmt.Sprintf("/personaltasks/%d/%d/toggle", userID, taskID), nil, &out)
	return out, err
}

func (c *Client) DeletePersonalTask(userID, taskID int) error {
	return c.do(fiber.MethodDelete, fmt.Sprintf("/personaltasks/%d/%d", userID, taskID), nil, nil)
}

// Workspaces

func (c *Client) Workspaces() (map[int]models.WorkspaceView, error) {
	views := map[int]models.WorkspaceView{}
	err := c.do(fiber.MethodGet, "/workspaces/", nil, &views)
	return views, err
}

// CreateWorkspace creates a workspace owned by the logged-in user.
func (c *Client) CreateWorkspace(name string) (int, error) {
	var id int
	err := c.do(fiber.MethodPost, "/workspaces/", fiber.Map{"name": name}, &id)
	return id, err
}

func (c *Client) DeleteWorkspace(workspaceID int) error {
	return c.do(fiber.MethodDelete, fmt.Sprintf("/workspaces/%d", workspaceID), nil, nil)
}

func (c *Client) AddMember(workspaceID int, member string) (models.Membership, error) {
	var m models.Membership
	err := c.do(fiber.MethodPost, fmt.Sprintf("/workspaces/%d/members", workspaceID),
		fiber.Map{"workspace_id": workspaceID, "member": member}, &m)
	return m, err
}

func (c *Client) RemoveMember(workspaceID int, member string) error {
	return c.do(fiber.MethodDelete,
		fmt.Sprintf("/workspaces/%d/members/%s", workspaceID, url.PathEscape(member)), nil, nil)
}

// Shared tasks

func (c *Client) SharedTasks(workspaceID, offset, limit int) ([]models.SharedTask, error) {
	var tasks []models.SharedTask
	err := c.do(fiber.MethodGet, fmt.Sprintf("/sharedtasks/%d%s", workspaceID, pageQuery(offset, limit)), nil, &tasks)
	return tasks, err
}

func (c *Client) AddSharedTask(workspaceID int, task NewTask) (models.SharedTask, error) {
	var out models.SharedTask
	err := c.do(fiber.MethodPost, fmt.Sprintf("/sharedtasks/%d", workspaceID), task, &out)
	return out, err
}

func (c *Client) UpdateSharedTask(workspaceID, taskID int, patch models.TaskPatch) (models.SharedTask, error) {
	var out models.SharedTask
	err := c.do(fiber.MethodPut, fmt.Sprintf("/sharedtasks/%d/%d", workspaceID, taskID), patch, &out)
	return out, err
}

func (c *Client) ToggleSharedTask(workspaceID, taskID int) (models.SharedTask, error) {
	var out models.SharedTask
	err := c.do(fiber.MethodPost, fmt.Sprintf("/sharedtasks/%d/%d/toggle", workspaceID, taskID), nil, &out)
	return out, err
}

func (c *Client) DeleteSharedTask(workspaceID, taskID int) error {
	return c.do(fiber.MethodDelete, fmt.Sprintf("/sharedtasks/%d/%d", workspaceID, taskID), nil, nil)
}

func pageQuery(offset, limit int) string {
	q := url.Values{}
	if offset > 0 {
		q.Set("offset", fmt.Sprint(offset))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
