package sitemirror

import "github.com/google/uuid"

// Session holds the run-scoped configuration for one mirroring run.
// A session owns the output tree and, through the Frontier, the
// visited-URL state. Sessions are not reused across runs; every
// invocation starts with a clean visited set.
type Session struct {
	ID            string `json:"id"`
	OutputRoot    string `json:"outputRoot"`
	AllowedDomain string `json:"allowedDomain"`
	MaxDepth      int    `json:"maxDepth"`
}

// NewSession returns a Session with a generated ID.
func NewSession(outputRoot, allowedDomain string, maxDepth int) *Session {
	return &Session{
		ID:            uuid.NewString(),
		OutputRoot:    outputRoot,
		AllowedDomain: allowedDomain,
		MaxDepth:      maxDepth,
	}
}

// Validate returns an error if the session contains invalid fields.
func (s *Session) Validate() error {
	if s.OutputRoot == "" {
		return Errorf(EINVALID, "session output root required")
	}
	if s.AllowedDomain == "" {
		return Errorf(EINVALID, "session allowed domain required")
	}
	if s.MaxDepth < 0 {
		return Errorf(EINVALID, "session max depth must be non-negative")
	}
	return nil
}
