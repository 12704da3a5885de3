package session

import (
	"time"

	"github.com/nhle/faqchat/internal/model"
)

// AnswerMsg carries the outcome of an ask request.
type AnswerMsg struct {
	Seq        uint64
	Epoch      uint64
	RequestID  string
	Question   string
	Answer     string
	Err        error
	AskedAt    time.Time
	AnsweredAt time.Time
}

// SuggestionsMsg carries the suggestions found for the question of
// request Seq.
type SuggestionsMsg struct {
	Seq         uint64
	Epoch       uint64
	Suggestions []model.Suggestion
}

// StatusResetMsg asks for the status to return to idle if request Seq is
// still the latest one.
type StatusResetMsg struct {
	Seq uint64
}

// SubmitDraftMsg submits whatever the draft holds when it is handled.
type SubmitDraftMsg struct{}
