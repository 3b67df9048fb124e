package model

import "time"

// Claim represents a structured assertion extracted from assistant text
type Claim struct {
	ID             string            `json:"id"`                        // Generated unique identifier
	Text           string            `json:"text"`                      // The claim text itself
	ContentKind    ContentKind       `json:"content_kind"`              // Which file kind the claim is about
	Action         string            `json:"action"`                    // What was allegedly done (e.g., "added")
	Target         string            `json:"target"`                    // What it was done to (e.g., "error handling")
	Confidence     float64           `json:"confidence"`                // Extraction confidence [0,1]
	Timestamp      time.Time         `json:"timestamp"`                 // When the claim was recorded
	ConversationID string            `json:"conversation_id,omitempty"` // Harness conversation, if known
	Metadata       map[string]string `json:"metadata,omitempty"`        // Optional caller-supplied context
}

// ContentKind categorizes the file content a claim and its patterns apply to
type ContentKind string

const (
	KindCode       ContentKind = "code"       // Script-like source code
	KindStylesheet ContentKind = "stylesheet" // CSS and preprocessor styles
	KindMarkup     ContentKind = "markup"     // HTML and template markup
)

// FileContent is a caller-supplied file snapshot, read-only input to detection
type FileContent struct {
	Path        string      `json:"path"`
	ContentKind ContentKind `json:"content_kind"`
	Text        string      `json:"text"`
}
