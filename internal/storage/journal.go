package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Leeps-Lab/oTree-HFT-CDA/pkg/quant"

	_ "github.com/glebarez/go-sqlite"
)

// MessageJournal persists validated inbound messages in SQLite.
// The journal is an aid for replay and post-mortems; the venue stays
// authoritative, so journal failures degrade rather than halt.
type MessageJournal struct {
	db *sql.DB
}

// StoredMessage is one journaled inbound message.
type StoredMessage struct {
	Seq     uint64
	Type    string
	Ts      quant.TimeStamp
	Payload []byte
}

// NewMessageJournal opens a SQLite journal with WAL mode enabled.
func NewMessageJournal(dbPath string) (*MessageJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Configure SQLite for high-rate sequential appends
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=-2000;", // 2MB cache
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	// Metadata table for session KV (player id, market id, last role, ...)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata table: %w", err)
	}

	// Append-only log of validated inbound messages, keyed by session seq.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			seq INTEGER PRIMARY KEY,
			type TEXT NOT NULL,
			ts INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}

	return &MessageJournal{db: db}, nil
}

// SaveMessage appends one message to the journal.
func (j *MessageJournal) SaveMessage(ctx context.Context, msg StoredMessage) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO messages (seq, type, ts, payload) VALUES (?, ?, ?, ?)",
		msg.Seq, msg.Type, msg.Ts, msg.Payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// UpsertMetadata saves a key-value pair to the metadata table.
func (j *MessageJournal) UpsertMetadata(ctx context.Context, key, value string, ts int64) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at",
		key, value, ts,
	)
	return err
}

// GetMetadata retrieves a value from the metadata table.
func (j *MessageJournal) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := j.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// LastSeq returns the highest message sequence number journaled.
// Returns 0 if no messages exist.
func (j *MessageJournal) LastSeq(ctx context.Context) (uint64, error) {
	var lastSeq sql.NullInt64
	err := j.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM messages").Scan(&lastSeq)
	if err != nil {
		return 0, fmt.Errorf("failed to get last seq: %w", err)
	}
	if !lastSeq.Valid {
		return 0, nil // No messages yet
	}
	return uint64(lastSeq.Int64), nil
}

// LoadMessages loads journaled messages starting from fromSeq (inclusive),
// in sequence order. Used by the replayer to reconstruct state.
func (j *MessageJournal) LoadMessages(ctx context.Context, fromSeq uint64) ([]StoredMessage, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT seq, type, ts, payload FROM messages WHERE seq >= ? ORDER BY seq ASC",
		fromSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []StoredMessage
	for rows.Next() {
		var msg StoredMessage
		if err := rows.Scan(&msg.Seq, &msg.Type, &msg.Ts, &msg.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return messages, nil
}

// Close closes the database connection.
func (j *MessageJournal) Close() error {
	return j.db.Close()
}
