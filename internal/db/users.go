package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// User keeps the per-person view defaults. SavedTones and SavedFontSize
// seed new view sessions so a returning user gets their key and text
// size back.
type User struct {
	ID            int64
	ChatID        int64
	Username      sql.NullString
	TgName        sql.NullString
	SavedTones    sql.NullFloat64
	SavedFontSize sql.NullInt64
	AddedAt       time.Time
}

func RegisterUser(update tgbotapi.Update) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	message := update.Message
	userName := sql.NullString{
		String: message.From.UserName,
		Valid:  message.From.UserName != "",
	}
	tgName := sql.NullString{
		String: message.From.FirstName + " " + message.From.LastName,
		Valid:  message.From.FirstName+message.From.LastName != "",
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE chat_id = ?)`
	err := Database.QueryRowContext(ctx, checkQuery, message.Chat.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking user existence: %v", err)
	}

	if !exists {
		insertQuery := `
			INSERT INTO users (
				chat_id,
				username,
				tg_name,
				saved_tones,
				saved_font_size,
				added_at
			) VALUES (?, ?, ?, NULL, NULL, ?)
		`

		_, err = Database.ExecContext(ctx, insertQuery,
			message.Chat.ID,
			userName,
			tgName,
			time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert new user: %v", err)
		}

		log.Printf("new user registered: ID: %d, username: %s",
			message.Chat.ID,
			userName.String,
		)
	}

	return nil
}

func GetUserByChatID(chatID int64) (User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user User
	query := `SELECT id, chat_id, username, tg_name, saved_tones, saved_font_size, added_at FROM users WHERE chat_id = ?`
	err := Database.QueryRowContext(ctx, query, chatID).Scan(
		&user.ID,
		&user.ChatID,
		&user.Username,
		&user.TgName,
		&user.SavedTones,
		&user.SavedFontSize,
		&user.AddedAt,
	)
	if err != nil {
		return User{}, fmt.Errorf("failed to fetch user %d: %w", chatID, err)
	}
	return user, nil
}

// SaveViewPrefs stores the transposition and font size a user settled on
// so their next session opens the same way.
func SaveViewPrefs(chatID int64, tones float64, fontSize int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `UPDATE users SET saved_tones = ?, saved_font_size = ? WHERE chat_id = ?`
	_, err := Database.ExecContext(ctx, query, tones, fontSize, chatID)
	if err != nil {
		return fmt.Errorf("failed to save view prefs for %d: %w", chatID, err)
	}
	return nil
}
