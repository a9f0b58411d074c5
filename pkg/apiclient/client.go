// Package apiclient wraps the REST API for client programs. It attaches the
// session's bearer token to every request and handles an unauthorized
// response the only way the system ever recovers automatically: clear the
// session and force a re-login. The original request is never retried.
package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"mycontacts/pkg/session"
)

// ErrUnauthorized is returned after a 401 response. By the time the caller
// sees it the session has already been cleared.
var ErrUnauthorized = errors.New("session expired or unauthorized")

// APIError carries a non-401 error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Contact mirrors the server's contact resource.
type Contact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note mirrors the server's note resource.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the authenticated account as reported by the server.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Client is an API client bound to a session store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store

	// OnUnauthorized, if set, runs after a 401 has cleared the session.
	// A UI would redirect to the login screen here.
	OnUnauthorized func()
}

// NewClient creates a client for the API rooted at baseURL (e.g.
// "http://localhost:8080/api").
func NewClient(baseURL string, store *session.Store) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		session:    store,
	}
}

// do runs one request: marshals body if present, attaches the bearer token,
// and decodes the response into out. A 401 clears the session, fires
// OnUnauthorized and returns ErrUnauthorized.
func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if clearErr := c.session.Clear(); clearErr != nil {
			return fmt.Errorf("failed to clear session after 401: %w", clearErr)
		}
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return ErrUnauthorized
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Register creates a new account.
func (c *Client) Register(username, email, password string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	return c.do(http.MethodPost, "/users/register", body, nil)
}

// Login authenticates and stores the returned token in the session,
// resetting the per-session counters.
func (c *Client) Login(email, password string) error {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(http.MethodPost, "/users/login", body, &resp); err != nil {
		return err
	}
	return c.session.SetToken(resp.Token)
}

// Logout clears the session token and both counters. Tokens are stateless on
// the server, so there is nothing to revoke remotely.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// CurrentUser fetches the authenticated account.
func (c *Client) CurrentUser() (*Identity, error) {
	var identity Identity
	if err := c.do(http.MethodGet, "/users/current", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Contacts lists the caller's contacts.
func (c *Client) Contacts() ([]Contact, error) {
	var contacts []Contact
	if err := c.do(http.MethodGet, "/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// CreateContact creates a contact and signals the session counter.
func (c *Client) CreateContact(name, email, phone string) (*Contact, error) {
	body := map[string]string{
		"name":  name,
		"email": email,
		"phone": phone,
	}
	var created Contact
	if err := c.do(http.MethodPost, "/contacts", body, &created); err != nil {
		return nil, err
	}
	if err := c.session.RecordContactAdded(); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetContact fetches a single contact.
func (c *Client) GetContact(id string) (*Contact, error) {
	var contact Contact
	if err := c.do(http.MethodGet, "/contacts/"+id, nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact replaces a contact's fields.
func (c *Client) UpdateContact(id, name, email, phone string) (*Contact, error) {
	body := map[string]string{
		"name":  name,
		"email": email,
		"phone": phone,
	}
	var updated Contact
	if err := c.do(http.MethodPut, "/contacts/"+id, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(id string) error {
	return c.do(http.MethodDelete, "/contacts/"+id, nil, nil)
}

// Notes lists the caller's notes.
func (c *Client) Notes() ([]Note, error) {
	var notes []Note
	if err := c.do(http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote creates a note and signals the session counter.
func (c *Client) CreateNote(title, content string) (*Note, error) {
	body := map[string]string{
		"title":   title,
		"content": content,
	}
	var created Note
	if err := c.do(http.MethodPost, "/notes", body, &created); err != nil {
		return nil, err
	}
	if err := c.session.RecordNoteAdded(); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetNote fetches a single note.
func (c *Client) GetNote(id string) (*Note, error) {
	var note Note
	if err := c.do(http.MethodGet, "/notes/"+id, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote replaces a note's fields.
func (c *Client) UpdateNote(id, title, content string) (*Note, error) {
	body := map[string]string{
		"title":   title,
		"content": content,
	}
	var updated Note
	if err := c.do(http.MethodPut, "/notes/"+id, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(id string) error {
	return c.do(http.MethodDelete, "/notes/"+id, nil, nil)
}
