package testfixtures

import (
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/webapp-server/internal/application"
	"github.com/example/webapp-server/internal/persistence"
)

var userCounter uint64

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserFixture represents a deterministic user record that can be materialised
// for application, persistence or wire level tests.
type UserFixture struct {
	ID        string
	Password  string
	Name      string
	Email     string
	CreatedAt time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	fixture := UserFixture{
		ID:        id,
		Password:  "password-" + id,
		Name:      "User " + id,
		Email:     id + "@example.com",
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithUserID(id string) UserOption {
	return func(f *UserFixture) { f.ID = id }
}

func WithPassword(password string) UserOption {
	return func(f *UserFixture) { f.Password = password }
}

func WithName(name string) UserOption {
	return func(f *UserFixture) { f.Name = name }
}

func WithEmail(email string) UserOption {
	return func(f *UserFixture) { f.Email = email }
}

func WithCreatedAt(t time.Time) UserOption {
	return func(f *UserFixture) { f.CreatedAt = t }
}

// Application returns the fixture as an application user.
func (f UserFixture) Application() application.User {
	return application.User{ID: f.ID, Name: f.Name, Email: f.Email, CreatedAt: f.CreatedAt}
}

// Persistence returns the fixture as a stored record with the given hash.
func (f UserFixture) Persistence(passwordHash string) persistence.User {
	return persistence.User{
		ID:           f.ID,
		PasswordHash: passwordHash,
		Name:         f.Name,
		Email:        f.Email,
		CreatedAt:    f.CreatedAt,
	}
}

// RegisterParams returns the fields submitted by the sign-up form.
func (f UserFixture) RegisterParams() application.RegisterUserParams {
	return application.RegisterUserParams{UserID: f.ID, Password: f.Password, Name: f.Name, Email: f.Email}
}

// CreateForm encodes the sign-up form body. Only the email is percent-encoded.
func (f UserFixture) CreateForm() string {
	return "userId=" + f.ID + "&password=" + f.Password + "&name=" + f.Name + "&email=" + url.QueryEscape(f.Email)
}

// LoginForm encodes the login form body.
func (f UserFixture) LoginForm() string {
	return "userId=" + f.ID + "&password=" + f.Password
}

// RawRequest frames a request the way a browser form submission would.
func RawRequest(method, target, cookie, body string) string {
	var b strings.Builder
	b.WriteString(method + " " + target + " HTTP/1.1\r\n")
	b.WriteString("Host: localhost:8080\r\n")
	b.WriteString("Connection: close\r\n")
	if cookie != "" {
		b.WriteString("Cookie: " + cookie + "\r\n")
	}
	if body != "" {
		b.WriteString("Content-Type: application/x-www-form-urlencoded\r\n")
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(body))
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
