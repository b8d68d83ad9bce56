package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// MaxRoleLength is counted in characters, not bytes.
const MaxRoleLength = 200

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Description is the human-readable level used inside question prompts.
func (d Difficulty) Description() string {
	switch d {
	case DifficultyEasy:
		return "basic and straightforward, suitable for entry-level candidates"
	case DifficultyMedium:
		return "moderately challenging, suitable for mid-level professionals"
	case DifficultyHard:
		return "complex and in-depth, suitable for senior-level candidates"
	}
	return ""
}

type SessionStatus string

const (
	StatusNotStarted SessionStatus = "not_started"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
)

type InterviewSession struct {
	ID      string `bson:"_id" json:"id"`           // uuid v4, assigned by the store
	OwnerID string `bson:"owner_id" json:"ownerId"` // caller identity at creation

	Role       string     `bson:"role" json:"role"`
	Difficulty Difficulty `bson:"difficulty" json:"difficulty"` // easy|medium|hard

	Question   string    `bson:"question" json:"question"`
	UserAnswer string    `bson:"user_answer" json:"userAnswer"`
	Feedback   *Feedback `bson:"feedback,omitempty" json:"feedback"`
	AudioURL   string    `bson:"audio_url" json:"audioUrl"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Status is derived on read and never persisted.
func (s *InterviewSession) Status() SessionStatus {
	switch {
	case s.Feedback != nil && !s.Feedback.IsEmpty():
		return StatusCompleted
	case s.Question != "":
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

func (s InterviewSession) MarshalJSON() ([]byte, error) {
	type plain InterviewSession
	out := struct {
		plain
		Status SessionStatus `json:"status"`
	}{plain: plain(s), Status: s.Status()}
	if out.Feedback != nil && out.Feedback.IsEmpty() {
		out.Feedback = nil
	}
	return json.Marshal(out)
}

// SessionPatch carries the whitelisted mutable fields. Nil means "leave as is".
type SessionPatch struct {
	Role       *string
	Difficulty *Difficulty
	Question   *string
	UserAnswer *string
	AudioURL   *string

	Feedback      *Feedback
	ClearFeedback bool
}

func (p SessionPatch) Empty() bool {
	return p.Role == nil && p.Difficulty == nil && p.Question == nil && p.UserAnswer == nil &&
		p.AudioURL == nil && p.Feedback == nil && !p.ClearFeedback
}

// Apply mutates s in place; stores that cannot express partial updates use it.
func (p SessionPatch) Apply(s *InterviewSession) {
	if p.Role != nil {
		s.Role = *p.Role
	}
	if p.Difficulty != nil {
		s.Difficulty = *p.Difficulty
	}
	if p.Question != nil {
		s.Question = *p.Question
	}
	if p.UserAnswer != nil {
		s.UserAnswer = *p.UserAnswer
	}
	if p.AudioURL != nil {
		s.AudioURL = *p.AudioURL
	}
	if p.ClearFeedback {
		s.Feedback = nil
	}
	if p.Feedback != nil {
		fb := *p.Feedback
		s.Feedback = &fb
	}
}

// NormalizeRole trims the role and reports whether it satisfies the length bounds.
func NormalizeRole(role string) (string, bool) {
	role = strings.TrimSpace(role)
	if role == "" || utf8.RuneCountInString(role) > MaxRoleLength {
		return role, false
	}
	return role, true
}
