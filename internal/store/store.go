package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JoodasCode/SlopWatch-sub001/internal/model"
)

// Schema for the claim/analysis store.
const schema = `
CREATE TABLE IF NOT EXISTS claims (
    id              TEXT PRIMARY KEY,
    text            TEXT NOT NULL,
    content_kind    TEXT NOT NULL,
    action          TEXT NOT NULL,
    target          TEXT NOT NULL,
    confidence      REAL NOT NULL,
    conversation_id TEXT,
    metadata        TEXT,
    created_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_claims_conversation ON claims(conversation_id, created_at);

CREATE TABLE IF NOT EXISTS analyses (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    claim_id    TEXT NOT NULL REFERENCES claims(id),
    is_lie      INTEGER NOT NULL,
    confidence  REAL NOT NULL,
    summary     TEXT NOT NULL,
    evidence    TEXT NOT NULL,
    detected    TEXT NOT NULL,
    created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_claim ON analyses(claim_id);
CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
`

// Store persists claims and analysis results in SQLite. The detection core
// never depends on it; the pipeline wires it in.
type Store struct {
	db *sql.DB
}

// Record pairs a persisted claim with its analysis result
type Record struct {
	Claim     model.Claim          `json:"claim"`
	Result    model.AnalysisResult `json:"result"`
	CreatedAt time.Time            `json:"created_at"`
}

// Stats summarizes the store contents
type Stats struct {
	Claims   int `json:"claims"`
	Analyses int `json:"analyses"`
	Lies     int `json:"lies"`
}

// Open opens or creates the SQLite database at the given path and applies
// the schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveClaim inserts a claim. Claims are immutable; re-saving an existing ID
// is an error.
func (s *Store) SaveClaim(claim model.Claim) error {
	metadata, err := json.Marshal(claim.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO claims (id, text, content_kind, action, target, confidence, conversation_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		claim.ID, claim.Text, string(claim.ContentKind), claim.Action, claim.Target,
		claim.Confidence, claim.ConversationID, string(metadata), claim.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

// SaveAnalysis inserts one analysis result for a stored claim
func (s *Store) SaveAnalysis(claimID string, result model.AnalysisResult) error {
	evidence, err := json.Marshal(result.Evidence)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}
	detected, err := json.Marshal(result.DetectedPatterns)
	if err != nil {
		return fmt.Errorf("marshal detected patterns: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO analyses (claim_id, is_lie, confidence, summary, evidence, detected, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		claimID, boolToInt(result.IsLie), result.Confidence, result.Summary,
		string(evidence), string(detected), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// History returns the most recent records for a conversation, newest first.
// An empty conversationID returns records across all conversations.
func (s *Store) History(conversationID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT c.id, c.text, c.content_kind, c.action, c.target, c.confidence,
		       c.conversation_id, c.metadata, c.created_at,
		       a.is_lie, a.confidence, a.summary, a.evidence, a.detected, a.created_at
		FROM analyses a
		JOIN claims c ON c.id = a.claim_id`
	args := []any{}
	if conversationID != "" {
		query += ` WHERE c.conversation_id = ?`
		args = append(args, conversationID)
	}
	query += ` ORDER BY a.created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec          Record
			kind         string
			metadata     string
			claimNanos   int64
			isLie        int
			evidenceJSON string
			detectedJSON string
			nanos        int64
		)
		if err := rows.Scan(
			&rec.Claim.ID, &rec.Claim.Text, &kind, &rec.Claim.Action, &rec.Claim.Target,
			&rec.Claim.Confidence, &rec.Claim.ConversationID, &metadata, &claimNanos,
			&isLie, &rec.Result.Confidence, &rec.Result.Summary, &evidenceJSON, &detectedJSON, &nanos,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		rec.Claim.ContentKind = model.ContentKind(kind)
		rec.Claim.Timestamp = time.Unix(0, claimNanos).UTC()
		rec.Result.IsLie = isLie != 0
		rec.CreatedAt = time.Unix(0, nanos).UTC()

		if metadata != "" && metadata != "null" {
			if err := json.Unmarshal([]byte(metadata), &rec.Claim.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		if err := json.Unmarshal([]byte(evidenceJSON), &rec.Result.Evidence); err != nil {
			return nil, fmt.Errorf("unmarshal evidence: %w", err)
		}
		if err := json.Unmarshal([]byte(detectedJSON), &rec.Result.DetectedPatterns); err != nil {
			return nil, fmt.Errorf("unmarshal detected patterns: %w", err)
		}

		records = append(records, rec)
	}
	return records, rows.Err()
}

// Totals returns store-wide counters
func (s *Store) Totals() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM claims`).Scan(&st.Claims); err != nil {
		return st, fmt.Errorf("count claims: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&st.Analyses); err != nil {
		return st, fmt.Errorf("count analyses: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM analyses WHERE is_lie = 1`).Scan(&st.Lies); err != nil {
		return st, fmt.Errorf("count lies: %w", err)
	}
	return st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
