package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/HardcoreSInd/ReazComu/internal/models"
)

// ErrUnauthenticated is returned by collaborator calls made without a
// valid session.
var ErrUnauthenticated = errors.New("not authenticated")

// AuthAPI is the identity collaborator: it tells the session who the
// logged-in user is, if anyone.
type AuthAPI interface {
	CurrentUser(ctx context.Context) (models.User, error)
	Logout(ctx context.Context) error
}

// ContactsAPI is the contacts collaborator.
type ContactsAPI interface {
	ListContacts(ctx context.Context) ([]models.Contact, error)
}

// HistoryAPI is the message-history collaborator.
type HistoryAPI interface {
	GetMessages(ctx context.Context, contactID string) ([]models.Message, error)
}

// HTTPAPI implements all three collaborators against the relay server's
// REST endpoints, riding on the session cookie the login flow planted.
type HTTPAPI struct {
	baseURL string
	client  *http.Client
}

// NewHTTPAPI creates a collaborator client for the server at baseURL.
// Passing a nil http.Client gets one with a cookie jar and a sane
// timeout.
func NewHTTPAPI(baseURL string, hc *http.Client) *HTTPAPI {
	if hc == nil {
		jar, _ := cookiejar.New(nil)
		hc = &http.Client{Timeout: 10 * time.Second, Jar: jar}
	}
	return &HTTPAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  hc,
	}
}

// CurrentUser fetches the logged-in profile, or ErrUnauthenticated.
func (a *HTTPAPI) CurrentUser(ctx context.Context) (models.User, error) {
	var user models.User
	if err := a.getJSON(ctx, "/api/user", &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ListContacts fetches the contact roster.
func (a *HTTPAPI) ListContacts(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := a.getJSON(ctx, "/api/contacts", &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetMessages fetches the conversation history with contactID.
func (a *HTTPAPI) GetMessages(ctx context.Context, contactID string) ([]models.Message, error) {
	var messages []models.Message
	if err := a.getJSON(ctx, "/api/messages/"+url.PathEscape(contactID), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Logout ends the server-side session.
func (a *HTTPAPI) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (a *HTTPAPI) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
