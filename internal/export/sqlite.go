package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
)

const sqliteSchema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS conversations (
    id               TEXT PRIMARY KEY,
    title            TEXT NOT NULL,
    source           TEXT NOT NULL DEFAULT '',
    created_at       TEXT NOT NULL DEFAULT '',
    updated_at       TEXT NOT NULL DEFAULT '',
    message_count    INTEGER NOT NULL DEFAULT 0,
    user_messages    INTEGER NOT NULL DEFAULT 0,
    assistant_messages INTEGER NOT NULL DEFAULT 0,
    total_words      INTEGER NOT NULL DEFAULT 0,
    duration_minutes INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
    conversation_id TEXT NOT NULL,
    message_index   INTEGER NOT NULL,
    role            TEXT NOT NULL,
    created_at      TEXT NOT NULL DEFAULT '',
    text            TEXT NOT NULL,
    PRIMARY KEY (conversation_id, message_index)
);
`

// SQLite writes the selected conversations to a database file so
// archives can be queried with external tools. An existing file at
// dbPath is replaced.
func SQLite(dbPath string, selected []parse.Conversation) error {
	if len(selected) == 0 {
		return fmt.Errorf("nothing selected to export")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replace %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	convStmt, err := tx.Prepare(
		`INSERT INTO conversations (id, title, source, created_at, updated_at,
		 message_count, user_messages, assistant_messages, total_words, duration_minutes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer convStmt.Close()

	msgStmt, err := tx.Prepare(
		`INSERT INTO messages (conversation_id, message_index, role, created_at, text)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer msgStmt.Close()

	for _, conv := range selected {
		_, err := convStmt.Exec(
			conv.ID,
			conv.Title,
			conv.Source,
			conv.CreatedAt.Format(time.RFC3339),
			conv.UpdatedAt.Format(time.RFC3339),
			conv.Stats.MessageCount,
			conv.Stats.UserMessageCount,
			conv.Stats.AssistantMessageCount,
			conv.Stats.TotalWords,
			conv.Stats.DurationMinutes,
		)
		if err != nil {
			return fmt.Errorf("insert conversation %s: %w", conv.ID, err)
		}
		for i, msg := range conv.Messages {
			_, err := msgStmt.Exec(conv.ID, i, msg.Role, msg.CreatedAt.Format(time.RFC3339), msg.Text)
			if err != nil {
				return fmt.Errorf("insert message %s/%d: %w", conv.ID, i, err)
			}
		}
	}

	return tx.Commit()
}
