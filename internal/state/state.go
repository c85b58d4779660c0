package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sukalov/chordview/internal/redis"
)

// View parameter bounds. Transposition is limited to the half-octave
// around the original key the way the site UI does it; sizes keep the
// page renderable in a message.
const (
	MinTones = -2.5
	MaxTones = 3.0

	MinFontSize = 10
	MaxFontSize = 28

	MinColumns = 1
	MaxColumns = 4
)

// ViewState is one open song view: which song, and the view parameters
// the document is rendered with. The document itself is immutable;
// everything here is applied at render time.
type ViewState struct {
	ID        int       `json:"id"`
	ChatID    int64     `json:"chat_id"`
	MessageID int       `json:"message_id"`
	SongID    string    `json:"song_id"`
	SongName  string    `json:"song_name"`
	Tones     float64   `json:"tones"`
	FontSize  int       `json:"font_size"`
	Page      int       `json:"page"`
	Columns   int       `json:"columns"`
	OpenedAt  time.Time `json:"opened_at"`
}

// Manager guards the view sessions and mirrors them to redis so an
// instance restart does not drop open views.
type Manager struct {
	mu       sync.RWMutex
	sessions []ViewState
	rdb      *redis.DBManager
	nextID   int
}

func NewManager(rdb *redis.DBManager) *Manager {
	return &Manager{
		sessions: []ViewState{},
		rdb:      rdb,
		nextID:   1,
	}
}

// Init restores the sessions persisted by a previous run.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rdb == nil {
		return nil
	}
	var sessions []ViewState
	if err := m.rdb.GetSessions(ctx, &sessions); err != nil {
		return err
	}
	if sessions != nil {
		m.sessions = sessions
	}
	for _, s := range m.sessions {
		if s.ID >= m.nextID {
			m.nextID = s.ID + 1
		}
	}
	return nil
}

// Open starts a session for a chat, replacing any session that chat
// already had: one open song per chat.
func (m *Manager) Open(ctx context.Context, session ViewState) (ViewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.sessions[:0]
	for _, s := range m.sessions {
		if s.ChatID != session.ChatID {
			kept = append(kept, s)
		}
	}
	m.sessions = kept

	session.ID = m.nextID
	m.nextID++
	session.OpenedAt = time.Now()
	session.Tones = ClampTones(session.Tones)
	session.FontSize = ClampFontSize(session.FontSize)
	session.Columns = ClampColumns(session.Columns)
	m.sessions = append(m.sessions, session)

	return session, m.sync(ctx)
}

// Get finds the open session of a chat.
func (m *Manager) Get(chatID int64) (ViewState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sessions {
		if s.ChatID == chatID {
			return s, true
		}
	}
	return ViewState{}, false
}

// Edit replaces a session by ID. Clamps are re-applied so callbacks can
// bump values blindly.
func (m *Manager) Edit(ctx context.Context, sessionID int, session ViewState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.sessions {
		if s.ID == sessionID {
			session.ID = sessionID
			session.Tones = ClampTones(session.Tones)
			session.FontSize = ClampFontSize(session.FontSize)
			session.Columns = ClampColumns(session.Columns)
			m.sessions[i] = session
			return m.sync(ctx)
		}
	}
	return fmt.Errorf("session with ID %d not found", sessionID)
}

// Close removes a chat's session.
func (m *Manager) Close(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []ViewState{}
	for _, s := range m.sessions {
		if s.ChatID != chatID {
			result = append(result, s)
		}
	}
	m.sessions = result
	return m.sync(ctx)
}

func (m *Manager) GetAll() []ViewState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ViewState, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// sync mirrors the sessions to redis. Callers hold the lock.
func (m *Manager) sync(ctx context.Context) error {
	if m.rdb == nil {
		return nil
	}
	if err := m.rdb.SetSessions(ctx, m.sessions); err != nil {
		fmt.Printf("error happened while updating the redis sessions: %s", err)
		return err
	}
	return nil
}

func ClampTones(tones float64) float64 {
	if tones < MinTones {
		return MinTones
	}
	if tones > MaxTones {
		return MaxTones
	}
	return tones
}

func ClampFontSize(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

func ClampColumns(columns int) int {
	if columns < MinColumns {
		return MinColumns
	}
	if columns > MaxColumns {
		return MaxColumns
	}
	return columns
}
