// Package client is the peer-side SDK for the relay: it drives the
// session state machine, keeps the contact roster and per-conversation
// message caches, and renders changes into a pluggable View.
package client

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/HardcoreSInd/ReazComu/internal/models"
	"github.com/HardcoreSInd/ReazComu/internal/relay"
)

// State of a session.
type State int

const (
	// StateUnauthenticated: no user, no connection, no cached data.
	StateUnauthenticated State = iota

	// StateIdle: logged in, registered with the relay, no conversation
	// open.
	StateIdle

	// StateConversationActive: a contact's conversation is on screen.
	StateConversationActive
)

// View is whatever renders the session: a terminal UI, a test recorder,
// a bridge to something richer. The session calls it from its own
// goroutines; implementations must not call back into the session.
type View interface {
	RenderContacts(contacts []models.Contact)
	RenderMessages(messages []models.Message)
	AppendMessage(msg models.Message, sent bool)
	UpdateContact(contact models.Contact)
	ShowError(text string)
}

// Session drives the peer-side state machine. All exported methods are
// safe for concurrent use.
type Session struct {
	auth     AuthAPI
	contacts ContactsAPI
	history  HistoryAPI
	dial     DialFunc
	view     View

	mu            sync.Mutex
	state         State
	user          models.User
	transport     Transport
	roster        []models.Contact
	conversations map[string][]models.Message
	active        string
}

// NewSession assembles a session from its collaborators. The session
// starts unauthenticated; call Start to log in.
func NewSession(auth AuthAPI, contacts ContactsAPI, history HistoryAPI, dial DialFunc, view View) *Session {
	return &Session{
		auth:          auth,
		contacts:      contacts,
		history:       history,
		dial:          dial,
		view:          view,
		conversations: make(map[string][]models.Message),
	}
}

// Start resolves the current user, opens the relay connection, registers
// the identity, and loads the contact roster. A roster fetch failure is
// shown inline and does not fail the login; everything else does.
func (s *Session) Start(ctx context.Context) error {
	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}

	transport, err := s.dial(ctx)
	if err != nil {
		return err
	}

	transport.On(relay.EventNewMessage, s.handleNewMessage)
	transport.On(relay.EventUserStatus, s.handleUserStatus)
	transport.OnDisconnect(s.handleDisconnect)

	s.mu.Lock()
	s.user = user
	s.transport = transport
	s.state = StateIdle
	s.conversations = make(map[string][]models.Message)
	s.active = ""
	s.mu.Unlock()

	if err := transport.Emit(relay.EventRegister, user.ID); err != nil {
		// A session that never registered is not logged in: undo the
		// state change before handing the error back.
		s.mu.Lock()
		s.resetLocked()
		s.mu.Unlock()
		transport.Close()
		return err
	}

	roster, err := s.contacts.ListContacts(ctx)
	if err != nil {
		s.view.ShowError("Gagal memuat kontak")
		return nil
	}

	s.mu.Lock()
	s.roster = roster
	s.mu.Unlock()
	s.view.RenderContacts(roster)
	return nil
}

// SelectContact opens the conversation with contactID, reusing the
// cached history when one exists. A history fetch failure is shown
// inline; the conversation still becomes active so a later send works.
func (s *Session) SelectContact(ctx context.Context, contactID string) error {
	s.mu.Lock()
	if s.state == StateUnauthenticated {
		s.mu.Unlock()
		return ErrUnauthenticated
	}
	s.active = contactID
	s.state = StateConversationActive
	cached, ok := s.conversations[contactID]
	s.mu.Unlock()

	if ok {
		s.view.RenderMessages(cached)
		return nil
	}

	messages, err := s.history.GetMessages(ctx, contactID)
	if err != nil {
		s.view.ShowError("Gagal memuat pesan")
		return err
	}

	s.mu.Lock()
	s.conversations[contactID] = messages
	s.mu.Unlock()
	s.view.RenderMessages(messages)
	return nil
}

// Send ships text to the active conversation's contact and renders it
// immediately. The echo is optimistic: the relay gives no delivery
// confirmation, so the message shows as sent even if the recipient was
// offline and it got dropped.
func (s *Session) Send(text string) error {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if s.state != StateConversationActive || text == "" {
		s.mu.Unlock()
		return nil
	}

	msg := models.Message{
		From:      s.user.ID,
		To:        s.active,
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	transport := s.transport
	s.conversations[s.active] = append(s.conversations[s.active], msg)
	updated := s.updateRosterPreview(msg.To, msg)
	s.mu.Unlock()

	s.view.AppendMessage(msg, true)
	if updated != nil {
		s.view.UpdateContact(*updated)
	}

	return transport.Emit(relay.EventSendMessage, msg)
}

// Logout ends the session: server-side session, relay connection, and
// every piece of cached state.
func (s *Session) Logout(ctx context.Context) error {
	err := s.auth.Logout(ctx)

	s.mu.Lock()
	transport := s.transport
	s.resetLocked()
	s.mu.Unlock()

	if transport != nil {
		transport.Close()
	}
	return err
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the authenticated profile (zero value when logged out).
func (s *Session) User() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Contacts returns a copy of the cached roster.
func (s *Session) Contacts() []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Contact, len(s.roster))
	copy(out, s.roster)
	return out
}

// ActiveContact returns the id of the open conversation's contact, or
// empty when none is open.
func (s *Session) ActiveContact() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Conversation returns a copy of the cached messages with contactID.
func (s *Session) Conversation(contactID string) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.conversations[contactID]))
	copy(out, s.conversations[contactID])
	return out
}

func (s *Session) handleNewMessage(payload json.RawMessage) {
	var msg models.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Printf("client: invalid newMessage payload: %v", err)
		return
	}

	// Incoming messages file under the sender's conversation.
	conversation := msg.From

	s.mu.Lock()
	if s.state == StateUnauthenticated {
		s.mu.Unlock()
		return
	}
	s.conversations[conversation] = append(s.conversations[conversation], msg)
	render := s.state == StateConversationActive && s.active == conversation
	updated := s.updateRosterPreview(conversation, msg)
	s.mu.Unlock()

	if render {
		s.view.AppendMessage(msg, false)
	}
	if updated != nil {
		s.view.UpdateContact(*updated)
	}
}

func (s *Session) handleUserStatus(payload json.RawMessage) {
	var event models.PresenceEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("client: invalid userStatus payload: %v", err)
		return
	}

	s.mu.Lock()
	var updated *models.Contact
	for i := range s.roster {
		if s.roster[i].ID == event.UserID {
			s.roster[i].Online = event.Status == models.StatusOnline
			contact := s.roster[i]
			updated = &contact
			break
		}
	}
	s.mu.Unlock()

	if updated != nil {
		s.view.UpdateContact(*updated)
	}
}

// handleDisconnect treats connection loss like a logout: back to
// unauthenticated with nothing cached.
func (s *Session) handleDisconnect(err error) {
	log.Printf("client: connection lost: %v", err)
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
}

// updateRosterPreview bumps a contact's last-message preview. Caller
// holds s.mu; the returned copy is for view calls after unlock.
func (s *Session) updateRosterPreview(contactID string, msg models.Message) *models.Contact {
	for i := range s.roster {
		if s.roster[i].ID == contactID {
			s.roster[i].LastMessage = msg.Text
			s.roster[i].LastMessageTime = msg.Timestamp
			contact := s.roster[i]
			return &contact
		}
	}
	return nil
}

func (s *Session) resetLocked() {
	s.state = StateUnauthenticated
	s.user = models.User{}
	s.transport = nil
	s.roster = nil
	s.conversations = make(map[string][]models.Message)
	s.active = ""
}
