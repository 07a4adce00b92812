package core

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/AnesSym/medical-test/pkg"
)

var (
	// ErrNotFound is returned when a conversation id is unknown.
	ErrNotFound = errors.New("core: conversation not found")
	// ErrTurnComplete is returned by CompleteLastTurn when the last turn
	// already has an assistant reply. Completing the same turn twice is an
	// error rather than a silent no-op so duplicate responses to one user
	// input cannot slip through unnoticed.
	ErrTurnComplete = errors.New("core: last turn already completed")
	// ErrNoOpenTurn is returned by CompleteLastTurn on a conversation with
	// no turns at all.
	ErrNoOpenTurn = errors.New("core: no turn awaiting a reply")
)

const defaultTitle = "New chat"

// Store owns all conversations for the process, keyed by id, plus the
// active-conversation pointer. All access goes through the mutex; the
// store never hands out pointers into its own state.
type Store struct {
	mu     sync.Mutex
	convs  map[string]*pkg.Conversation
	active string
	clock  func() time.Time
}

// NewStore initializes a store holding one fresh conversation, which is
// made active. The store is never empty after this point.
func NewStore() *Store {
	return newStoreWithClock(time.Now)
}

func newStoreWithClock(clock func() time.Time) *Store {
	s := &Store{convs: make(map[string]*pkg.Conversation), clock: clock}
	conv := s.newConversation()
	s.active = conv.ID
	return s
}

func (s *Store) newConversation() *pkg.Conversation {
	conv := &pkg.Conversation{
		ID:        uuid.NewString(),
		Title:     defaultTitle,
		CreatedAt: s.clock(),
	}
	s.convs[conv.ID] = conv
	return conv
}

// Create adds a new empty conversation, makes it active, and returns its id.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := s.newConversation()
	s.active = conv.ID
	return conv.ID
}

// List returns copies of all conversations ordered by creation time, most
// recent first.
func (s *Store) List() []pkg.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pkg.Conversation, 0, len(s.convs))
	for _, c := range s.convs {
		out = append(out, copyConversation(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ActiveID returns the id of the active conversation.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetActive switches the active pointer to an existing conversation.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.convs[id]; !ok {
		return ErrNotFound
	}
	s.active = id
	return nil
}

// Delete removes a conversation. When the active conversation is deleted
// the pointer moves to the most recently created survivor; when the store
// would become empty a fresh conversation is created and made active, so
// the store invariant (at least one conversation, active pointer valid)
// always holds.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.convs[id]; !ok {
		return ErrNotFound
	}
	delete(s.convs, id)
	if len(s.convs) == 0 {
		conv := s.newConversation()
		s.active = conv.ID
		return nil
	}
	if s.active == id {
		var latest *pkg.Conversation
		for _, c := range s.convs {
			if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
				latest = c
			}
		}
		s.active = latest.ID
	}
	return nil
}

// Get returns a copy of the conversation with the given id.
func (s *Store) Get(id string) (pkg.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[id]
	if !ok {
		return pkg.Conversation{}, ErrNotFound
	}
	return copyConversation(conv), nil
}

// Turns returns a copy of the turn sequence for a conversation.
func (s *Store) Turns(id string) ([]pkg.Turn, error) {
	conv, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return conv.Turns, nil
}

// AppendUserTurn records a new user input as an open turn awaiting its
// reply. When the last turn is still open (its completion failed and the
// input was resubmitted) that turn is reused with the new text, so there
// is never more than one unanswered turn and it is always the most recent
// one. The first input of a conversation also becomes its title.
func (s *Store) AppendUserTurn(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[id]
	if !ok {
		return ErrNotFound
	}
	if len(conv.Turns) == 0 && conv.Title == defaultTitle {
		conv.Title = titleFrom(text)
	}
	if n := len(conv.Turns); n > 0 && !conv.Turns[n-1].Answered() {
		conv.Turns[n-1].User = text
		return nil
	}
	conv.Turns = append(conv.Turns, pkg.Turn{User: text})
	return nil
}

// CompleteLastTurn attaches the assistant reply to the open turn. It fails
// with ErrTurnComplete if the last turn is already answered and with
// ErrNoOpenTurn if the conversation has no turns.
func (s *Store) CompleteLastTurn(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[id]
	if !ok {
		return ErrNotFound
	}
	if len(conv.Turns) == 0 {
		return ErrNoOpenTurn
	}
	last := &conv.Turns[len(conv.Turns)-1]
	if last.Answered() {
		return ErrTurnComplete
	}
	last.Assistant = &text
	return nil
}

func copyConversation(c *pkg.Conversation) pkg.Conversation {
	out := *c
	out.Turns = make([]pkg.Turn, len(c.Turns))
	for i, t := range c.Turns {
		if t.Assistant != nil {
			reply := *t.Assistant
			t.Assistant = &reply
		}
		out.Turns[i] = t
	}
	return out
}

func titleFrom(text string) string {
	const maxLen = 40
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "…"
}
