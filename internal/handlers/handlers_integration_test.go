package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"mycontacts/internal/handlers"
	"mycontacts/internal/middleware"
	"mycontacts/internal/models"
	"mycontacts/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mycontacts/internal/repositories"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services, mirroring the wiring in main.go (RabbitMQ disabled).
func setupApp() (*fiber.App, *services.AuthService, error) {
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Contact{}, &models.Note{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)
	noteRepo := repositories.NewGORMNoteRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	contactService := services.NewContactService(contactRepo, nil) // nil for RabbitMQ client
	noteService := services.NewNoteService(noteRepo, nil)

	authHandler := handlers.NewAuthHandler(authService)
	contactHandler := handlers.NewContactHandler(contactService)
	noteHandler := handlers.NewNoteHandler(noteService)

	app := fiber.New()

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	contactHandler.RegisterRoutes(protected)
	noteHandler.RegisterRoutes(protected)

	return app, authService, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// doJSON issues a request with an optional body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, target, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	return resp
}

// registerAndLogin registers a fresh user and returns a valid token.
func registerAndLogin(t *testing.T, app *fiber.App, username, email, password string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/users/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func TestRegisterAndLogin(t *testing.T) {
	app, authService, err := setupApp()
	assert.NoError(t, err)

	// Registration
	resp := doJSON(t, app, http.MethodPost, "/api/users/register", "", map[string]string{
		"username": "alice",
		"email":    "alice.auth@example.com",
		"password": "pw123456",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var registerResp struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&registerResp))
	resp.Body.Close()
	assert.Equal(t, "User registered successfully", registerResp.Message)
	assert.NotEmpty(t, registerResp.User.ID)
	// The password hash must never appear in the response
	assert.Empty(t, registerResp.User.Password)

	// Duplicate email
	resp = doJSON(t, app, http.MethodPost, "/api/users/register", "", map[string]string{
		"email":    "alice.auth@example.com",
		"password": "pw123456",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Registration without a password is rejected, naming the field
	resp = doJSON(t, app, http.MethodPost, "/api/users/register", "", map[string]string{
		"email": "bob.auth@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	bodyBytes, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(bodyBytes), "Password")

	// Login
	resp = doJSON(t, app, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    "alice.auth@example.com",
		"password": "pw123456",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()

	// The token resolves back to the registered user's id
	claims, err := authService.ValidateToken(loginResp["token"])
	assert.NoError(t, err)
	assert.Equal(t, registerResp.User.ID, claims["user_id"])
	assert.Equal(t, "alice", claims["username"])

	// Wrong password
	resp = doJSON(t, app, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    "alice.auth@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Unknown email looks exactly like a wrong password
	resp = doJSON(t, app, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "pw123456",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCurrentUser(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	token := registerAndLogin(t, app, "carol", "carol.current@example.com", "pw123456")

	resp := doJSON(t, app, http.MethodGet, "/api/users/current", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var user models.User
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	resp.Body.Close()
	assert.Equal(t, "carol", user.Username)
	assert.Equal(t, "carol.current@example.com", user.Email)
	assert.Empty(t, user.Password)
}

func TestUnauthenticatedAccess(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	// No Authorization header
	resp := doJSON(t, app, http.MethodGet, "/api/contacts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Malformed header
	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Garbage token
	resp = doJSON(t, app, http.MethodGet, "/api/contacts", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Expired token signed with the right secret
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "ghost",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte("test_jwt_secret"))
	resp = doJSON(t, app, http.MethodGet, "/api/contacts", expiredString, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// POST is gated too
	resp = doJSON(t, app, http.MethodPost, "/api/contacts", "", map[string]string{
		"name": "x", "email": "x@x.com", "phone": "1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestContactLifecycle(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	token := registerAndLogin(t, app, "alice", "alice.contacts@example.com", "pw123456")

	// Empty list is a valid result
	resp := doJSON(t, app, http.MethodGet, "/api/contacts", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var contacts []models.Contact
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&contacts))
	resp.Body.Close()
	assert.Empty(t, contacts)

	// Create
	resp = doJSON(t, app, http.MethodPost, "/api/contacts", token, map[string]string{
		"name":  "Bob",
		"email": "bob@x.com",
		"phone": "555",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Contact
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Bob", created.Name)
	assert.Equal(t, "bob@x.com", created.Email)
	assert.Equal(t, "555", created.Phone)
	assert.False(t, created.CreatedAt.IsZero())

	// List now holds exactly that contact
	resp = doJSON(t, app, http.MethodGet, "/api/contacts", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&contacts))
	resp.Body.Close()
	assert.Len(t, contacts, 1)
	assert.Equal(t, created.ID, contacts[0].ID)

	// Round trip: get returns the created item
	resp = doJSON(t, app, http.MethodGet, "/api/contacts/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Contact
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Bob", fetched.Name)

	// Update replaces the mutable fields and advances the timestamp
	time.Sleep(10 * time.Millisecond)
	resp = doJSON(t, app, http.MethodPut, "/api/contacts/"+created.ID, token, map[string]string{
		"name":  "Robert",
		"email": "robert@x.com",
		"phone": "777",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Contact
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Robert", updated.Name)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	resp = doJSON(t, app, http.MethodGet, "/api/contacts/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, "Robert", fetched.Name)
	assert.Equal(t, "robert@x.com", fetched.Email)

	// Delete, then verify the list is empty again
	resp = doJSON(t, app, http.MethodDelete, "/api/contacts/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var deleteResp map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&deleteResp))
	resp.Body.Close()
	assert.Contains(t, deleteResp["message"], "deleted successfully")

	// Deleting again fails with not found
	resp = doJSON(t, app, http.MethodDelete, "/api/contacts/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/contacts", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&contacts))
	resp.Body.Close()
	assert.Empty(t, contacts)
}

func TestContactValidation(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	token := registerAndLogin(t, app, "dave", "dave.validation@example.com", "pw123456")

	// Missing email is rejected with a message naming the field
	resp := doJSON(t, app, http.MethodPost, "/api/contacts", token, map[string]string{
		"name":  "Bob",
		"phone": "555",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	bodyBytes, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(bodyBytes), "Email")

	// Nothing was persisted
	resp = doJSON(t, app, http.MethodGet, "/api/contacts", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var contacts []models.Contact
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&contacts))
	resp.Body.Close()
	assert.Empty(t, contacts)

	// Same for notes: missing content
	resp = doJSON(t, app, http.MethodPost, "/api/notes", token, map[string]string{
		"title": "Groceries",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	bodyBytes, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(bodyBytes), "Content")
}

func TestOwnershipIsolation(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	aliceToken := registerAndLogin(t, app, "alice", "alice.owner@example.com", "pw123456")
	bobToken := registerAndLogin(t, app, "bob", "bob.owner@example.com", "pw123456")

	// Alice creates a contact and a note
	resp := doJSON(t, app, http.MethodPost, "/api/contacts", aliceToken, map[string]string{
		"name": "Carol", "email": "carol@x.com", "phone": "555",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var aliceContact models.Contact
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&aliceContact))
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/notes", aliceToken, map[string]string{
		"title": "Secret", "content": "do not share",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var aliceNote models.Note
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&aliceNote))
	resp.Body.Close()

	// Bob's list does not contain Alice's data
	resp = doJSON(t, app, http.MethodGet, "/api/contacts", bobToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var bobContacts []models.Contact
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&bobContacts))
	resp.Body.Close()
	assert.Empty(t, bobContacts)

	// Bob's get/update/delete on Alice's contact all report not found; the
	// response never distinguishes "exists but not yours" from "missing"
	resp = doJSON(t, app, http.MethodGet, "/api/contacts/"+aliceContact.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPut, "/api/contacts/"+aliceContact.ID, bobToken, map[string]string{
		"name": "Hacked", "email": "h@x.com", "phone": "000",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/contacts/"+aliceContact.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Same for Alice's note
	resp = doJSON(t, app, http.MethodGet, "/api/notes/"+aliceNote.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/notes/"+aliceNote.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Alice still sees her contact untouched
	resp = doJSON(t, app, http.MethodGet, "/api/contacts/"+aliceContact.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stillThere models.Contact
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&stillThere))
	resp.Body.Close()
	assert.Equal(t, "Carol", stillThere.Name)
}

func TestNoteLifecycle(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	token := registerAndLogin(t, app, "erin", "erin.notes@example.com", "pw123456")

	resp := doJSON(t, app, http.MethodPost, "/api/notes", token, map[string]string{
		"title":   "Groceries",
		"content": "milk, eggs",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Note
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Groceries", created.Title)

	resp = doJSON(t, app, http.MethodGet, "/api/notes", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var notes []models.Note
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&notes))
	resp.Body.Close()
	assert.Len(t, notes, 1)

	resp = doJSON(t, app, http.MethodPut, "/api/notes/"+created.ID, token, map[string]string{
		"title":   "Groceries v2",
		"content": "milk, eggs, bread",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Note
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	assert.Equal(t, "Groceries v2", updated.Title)
	assert.Equal(t, "milk, eggs, bread", updated.Content)

	resp = doJSON(t, app, http.MethodDelete, "/api/notes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/notes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
