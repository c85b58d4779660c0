// Package viewer is the Telegram UI of the chord viewer: it opens a song
// from the catalog, renders the current page of the paged layout into a
// monospace message and lets the user transpose, resize and page through
// it with inline buttons.
package viewer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/chordview/internal/bot"
	"github.com/sukalov/chordview/internal/chords"
	"github.com/sukalov/chordview/internal/db"
	"github.com/sukalov/chordview/internal/layout"
	"github.com/sukalov/chordview/internal/lyrics"
	"github.com/sukalov/chordview/internal/render"
	"github.com/sukalov/chordview/internal/songtext"
	"github.com/sukalov/chordview/internal/state"
)

// The message viewport, in pixels of the monospace surface. Columns and
// font size trade off against these fixed bounds, which is what drives
// re-measurement when either changes.
const (
	viewHeightPx = 560
	viewWidthPx  = 640

	defaultFontSize = 16
	defaultColumns  = 2
)

type ViewerHandlers struct {
	sessions *state.Manager
	songs    *lyrics.Service

	// pending keys the in-flight render per chat. A layout computed for
	// view parameters the user has already left is discarded instead of
	// applied.
	mu      sync.Mutex
	pending map[int64]layout.Signature
}

func NewViewerHandlers(sessions *state.Manager, songs *lyrics.Service) *ViewerHandlers {
	return &ViewerHandlers{
		sessions: sessions,
		songs:    songs,
		pending:  make(map[int64]layout.Signature),
	}
}

func (h *ViewerHandlers) startHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message

	if err := db.RegisterUser(update); err != nil {
		log.Printf("error registering user: %v", err)
	}

	songID := strings.TrimSpace(message.CommandArguments())
	if songID == "" {
		return b.SendMessage(message.Chat.ID, "send /start <song id> to open a song. the catalog lives in the songbook app")
	}

	song, found := db.Songbook.FindSongByID(songID)
	if !found {
		return b.SendMessage(message.Chat.ID, "sorry, there is no song with that id")
	}

	session := state.ViewState{
		ChatID:   message.Chat.ID,
		SongID:   song.ID,
		SongName: db.Songbook.FormatSongName(song),
		FontSize: defaultFontSize,
		Columns:  defaultColumns,
	}

	// Returning users get their saved key shift and text size back.
	if user, err := db.GetUserByChatID(message.Chat.ID); err == nil {
		if user.SavedTones.Valid {
			session.Tones = user.SavedTones.Float64
		}
		if user.SavedFontSize.Valid {
			session.FontSize = int(user.SavedFontSize.Int64)
		}
	}

	ctx := context.Background()
	session, err := h.sessions.Open(ctx, session)
	if err != nil {
		log.Printf("error opening session: %v", err)
	}

	doc, err := h.songs.GetDocument(ctx, song.ID, song.Link)
	if err != nil {
		return b.SendMessage(message.Chat.ID, "could not load the song right now, try again in a minute")
	}

	if err := db.Songbook.IncrementSongCounter(song.ID); err != nil {
		log.Printf("error counting song open: %v", err)
	}

	text, totalPages := h.renderPage(session, doc)
	sent, err := b.SendPage(message.Chat.ID, text, pageKeyboard(session.Page, totalPages))
	if err != nil {
		return err
	}

	session.MessageID = sent.MessageID
	return h.sessions.Edit(ctx, session.ID, session)
}

func (h *ViewerHandlers) closeHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := chatIDOf(update)
	session, found := h.sessions.Get(chatID)
	if !found {
		return nil
	}
	if err := db.SaveViewPrefs(chatID, session.Tones, session.FontSize); err != nil {
		log.Printf("error saving view prefs: %v", err)
	}
	if err := h.sessions.Close(context.Background(), chatID); err != nil {
		return err
	}
	return b.SendMessage(chatID, fmt.Sprintf("closed \"%s\". your key and text size are saved", session.SongName))
}

// adjust applies one view-parameter change to the chat's session and
// re-renders its message.
func (h *ViewerHandlers) adjust(b *bot.Bot, update tgbotapi.Update, change func(*state.ViewState)) error {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID

	session, found := h.sessions.Get(chatID)
	if !found {
		return b.AnswerCallback(query.ID, "this view is no longer open")
	}

	change(&session)
	if session.Page < 0 {
		session.Page = 0
	}
	ctx := context.Background()
	if err := h.sessions.Edit(ctx, session.ID, session); err != nil {
		return err
	}
	// Clamps may have adjusted the values; render what was stored.
	session, _ = h.sessions.Get(chatID)

	if err := b.AnswerCallback(query.ID, ""); err != nil {
		log.Printf("error answering callback: %v", err)
	}
	return h.refresh(ctx, b, session)
}

// refresh recomputes the layout for a session and edits its message. The
// pass is keyed by an input signature: when the session changed while
// the document was loading or the layout was being measured, the stale
// result is dropped and the newer pass wins.
func (h *ViewerHandlers) refresh(ctx context.Context, b *bot.Bot, session state.ViewState) error {
	song, found := db.Songbook.FindSongByID(session.SongID)
	if !found {
		return fmt.Errorf("song %s vanished from the songbook", session.SongID)
	}

	r := newRenderer(session)
	sig := r.Signature(session.SongID, viewHeightPx, session.Columns)

	h.mu.Lock()
	h.pending[session.ChatID] = sig
	h.mu.Unlock()

	doc, err := h.songs.GetDocument(ctx, song.ID, song.Link)
	if err != nil {
		return err
	}

	text, totalPages := h.renderPage(session, doc)

	// A layout change can shrink the page count under the stored page.
	// Store the clamped page so prev/next keep counting from reality.
	if clamped := clampPage(session.Page, totalPages); clamped != session.Page {
		session.Page = clamped
		if err := h.sessions.Edit(ctx, session.ID, session); err != nil {
			return err
		}
	}

	// Commit only if no newer pass started for this chat meanwhile.
	h.mu.Lock()
	current, ok := h.pending[session.ChatID]
	if !ok || current != sig {
		h.mu.Unlock()
		return nil
	}
	delete(h.pending, session.ChatID)
	h.mu.Unlock()

	latest, found := h.sessions.Get(session.ChatID)
	if !found || latest.ID != session.ID {
		return nil
	}

	return b.EditPage(session.ChatID, session.MessageID, text, pageKeyboard(session.Page, totalPages))
}

// renderPage runs the full measure, paginate, draw pipeline for one
// session and returns the message text plus the page count.
func (h *ViewerHandlers) renderPage(session state.ViewState, doc *songtext.Document) (string, int) {
	r := newRenderer(session)
	heights := layout.MeasureAll(r, doc.Lines)
	lay := layout.Paginate(doc.Lines, heights, viewHeightPx, session.Columns)

	page := clampPage(session.Page, lay.TotalPages())

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*", escapeMarkdown(session.SongName))
	if session.Tones != 0 {
		fmt.Fprintf(&b, "  (key %+.1f)", session.Tones)
	}
	fmt.Fprintf(&b, "\n```\n%s```\n", r.RenderPage(lay, page))
	fmt.Fprintf(&b, "page %d / %d", page+1, lay.TotalPages())
	return b.String(), lay.TotalPages()
}

func clampPage(page, totalPages int) int {
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}

func newRenderer(session state.ViewState) *render.Renderer {
	return render.NewRenderer(
		columnWidthCells(session.FontSize, session.Columns),
		session.FontSize,
		chords.SemitonesFromTones(session.Tones),
	)
}

// columnWidthCells derives the rune width of one column from the font
// size and the column count: a bigger font means fewer, wider cells in
// the same viewport.
func columnWidthCells(fontSize, columns int) int {
	charPx := fontSize * 3 / 5
	if charPx < 1 {
		charPx = 1
	}
	totalCells := viewWidthPx / charPx
	gutterCells := 2 * (columns - 1)
	return (totalCells - gutterCells) / columns
}

func pageKeyboard(page, totalPages int) tgbotapi.InlineKeyboardMarkup {
	page = clampPage(page, totalPages)
	nav := []tgbotapi.InlineKeyboardButton{}
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", "page_prev"))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
		fmt.Sprintf("%d/%d", page+1, totalPages), "noop"))
	if page < totalPages-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", "page_next"))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("♭ -0.5", "transpose_down"),
			tgbotapi.NewInlineKeyboardButtonData("♯ +0.5", "transpose_up"),
			tgbotapi.NewInlineKeyboardButtonData("A-", "font_down"),
			tgbotapi.NewInlineKeyboardButtonData("A+", "font_up"),
		),
		tgbotapi.NewInlineKeyboardRow(nav...),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("columns -", "cols_down"),
			tgbotapi.NewInlineKeyboardButtonData("columns +", "cols_up"),
			tgbotapi.NewInlineKeyboardButtonData("close", "close_view"),
		),
	)
}

func (h *ViewerHandlers) sessionsHandler(b *bot.Bot, update tgbotapi.Update) error {
	sessions := h.sessions.GetAll()
	if len(sessions) == 0 {
		return b.SendMessage(update.Message.Chat.ID, "no open views")
	}

	var msg strings.Builder
	msg.WriteString("open views:\n\n")
	for i, s := range sessions {
		fmt.Fprintf(&msg, "%d. %s\n   key %+.1f, font %dpx, page %d\n\n",
			i+1, s.SongName, s.Tones, s.FontSize, s.Page+1)
	}
	return b.SendMessage(update.Message.Chat.ID, msg.String())
}

func (h *ViewerHandlers) reloadHandler(b *bot.Bot, update tgbotapi.Update) error {
	if err := db.Songbook.Reload(); err != nil {
		return b.SendMessage(update.Message.Chat.ID, fmt.Sprintf("songbook reload failed: %v", err))
	}
	return b.SendMessage(update.Message.Chat.ID, "songbook reloaded")
}

func randomMessageHandler(b *bot.Bot, update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	return b.SendMessage(
		update.Message.Chat.ID,
		"i only know how to show chord pages. open a song with /start <song id>",
	)
}

func chatIDOf(update tgbotapi.Update) int64 {
	if update.CallbackQuery != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return update.Message.Chat.ID
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[")
	return replacer.Replace(s)
}

// SetupHandlers wires the viewer into the bot loop.
func SetupHandlers(viewerBot *bot.Bot, sessions *state.Manager, songs *lyrics.Service) {
	handlers := NewViewerHandlers(sessions, songs)

	commandHandlers := map[string]func(b *bot.Bot, update tgbotapi.Update) error{
		"start":    handlers.startHandler,
		"close":    handlers.closeHandler,
		"views":    handlers.sessionsHandler,
		"songbook": handlers.reloadHandler,
	}

	callbackHandlers := map[string]func(b *bot.Bot, update tgbotapi.Update) error{
		"transpose_up": func(b *bot.Bot, u tgbotapi.Update) error {
			return handlers.adjust(b, u, func(s *state.ViewState) { s.Tones += 0.5 })
		},
		"transpose_down": func(b *bot.Bot, u tgbotapi.Update) error {
			return handlers.adjust(b, u, func(s *state.ViewState) { s.Tones -= 0.5 })
		},
		"font_up": func(b *bot.Bot, u tgbotapi.Update) error {
			return handlers.adjust(b, u, func(s *state.ViewState) { s.FontSize += 2; s.Page = 0 })
		},
		"font_down": func(b *bot.Bot, u tgbotapi.Update) error {
			return handlers.adjust(b, u, func(s *state.ViewState) { s.FontSize -= 2; s.Page = 0 })
		},
		"cols_up": func(b *bot.Bot, u tgbotapi.Update) error {
			return handlers.adjust(b, u, func(s *state.ViewState) { s.Columns++; s.Page = 0 })
		},
		"cols_down": func(b *bot.Bot, u tgbotapi.Update) error {
			return handlers.adjust(b, u, func(s *state.ViewState) { s.Columns--; s.Page = 0 })
		},
		"page_next": func(b *bot.Bot, u tgbotapi.Update) error {
			return handlers.adjust(b, u, func(s *state.ViewState) { s.Page++ })
		},
		"page_prev": func(b *bot.Bot, u tgbotapi.Update) error {
			return handlers.adjust(b, u, func(s *state.ViewState) { s.Page-- })
		},
		"close_view": handlers.closeHandler,
		"noop": func(b *bot.Bot, u tgbotapi.Update) error {
			return b.AnswerCallback(u.CallbackQuery.ID, "")
		},
	}

	messageHandlers := []func(b *bot.Bot, update tgbotapi.Update) error{
		randomMessageHandler,
	}

	go viewerBot.Start(commandHandlers, messageHandlers, callbackHandlers)
}
