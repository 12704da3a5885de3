package session

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/nhle/faqchat/internal/faq"
	"github.com/nhle/faqchat/internal/model"
)

const (
	defaultResetDelay      = 1400 * time.Millisecond
	defaultSuggestionLimit = 10
)

// Backend answers questions and finds related ones. *faq.Client is the
// production implementation.
type Backend interface {
	Ask(ctx context.Context, requestID, question string) (string, error)
	Search(ctx context.Context, requestID, query string, limit int) ([]model.Suggestion, error)
}

// Recorder persists settled exchanges. It is optional.
type Recorder interface {
	RecordExchange(ctx context.Context, ex model.Exchange) error
}

// entry is a conversation message tagged with the request it belongs to.
// The greeting has seq 0.
type entry struct {
	msg model.Message
	seq uint64
}

// Session owns the conversation, suggestions, request status and draft
// for one chat. It is driven from a single Bubble Tea event loop: every
// mutation happens in a method call or in Update, and network work is
// handed back to the runtime as tea.Cmd values.
type Session struct {
	backend         Backend
	recorder        Recorder
	logger          *zap.Logger
	resetDelay      time.Duration
	suggestionLimit int

	entries     []entry
	suggestions []model.Suggestion
	status      model.Status
	draft       string

	// seq identifies the most recent submission; epoch changes on Reset
	// so results of requests issued before it are dropped.
	seq            uint64
	epoch          uint64
	suggestionsSeq uint64
}

// New creates a session showing only the greeting. A nil recorder
// disables transcript recording; zero values select defaults.
func New(
	backend Backend,
	recorder Recorder,
	logger *zap.Logger,
	resetDelay time.Duration,
	suggestionLimit int,
) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resetDelay <= 0 {
		resetDelay = defaultResetDelay
	}
	if suggestionLimit <= 0 {
		suggestionLimit = defaultSuggestionLimit
	}

	s := &Session{
		backend:         backend,
		recorder:        recorder,
		logger:          logger,
		resetDelay:      resetDelay,
		suggestionLimit: suggestionLimit,
	}
	s.Reset()
	return s
}

// SetBackend swaps the backend used by subsequent requests. Requests
// already in flight complete against the old one.
func (s *Session) SetBackend(b Backend) {
	s.backend = b
}

// Messages returns a copy of the conversation in display order.
func (s *Session) Messages() []model.Message {
	out := make([]model.Message, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.msg
	}
	return out
}

// Suggestions returns a copy of the current related questions.
func (s *Session) Suggestions() []model.Suggestion {
	out := make([]model.Suggestion, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Status returns the current request status.
func (s *Session) Status() model.Status {
	return s.status
}

// Loading reports whether the latest submission is still pending.
func (s *Session) Loading() bool {
	return s.status.Kind == model.StatusLoading
}

// Draft returns the pending question text.
func (s *Session) Draft() string {
	return s.draft
}

// SetDraft replaces the pending question text.
func (s *Session) SetDraft(text string) {
	s.draft = text
}

// Submit asks question. Blank questions are ignored. Otherwise the user
// message is appended and the draft cleared before Submit returns, and
// the returned command performs the ask request.
func (s *Session) Submit(question string) tea.Cmd {
	q := strings.TrimSpace(question)
	if q == "" {
		return nil
	}

	s.seq++
	s.entries = append(s.entries, entry{
		msg: model.Message{Role: model.RoleUser, Content: q},
		seq: s.seq,
	})
	s.draft = ""
	s.status = model.LoadingStatus()

	return s.askCmd(s.seq, s.epoch, uuid.NewString(), q)
}

// SubmitDraft submits the current draft.
func (s *Session) SubmitDraft() tea.Cmd {
	return s.Submit(s.draft)
}

// Reset starts a new chat: the conversation goes back to the greeting,
// suggestions and draft are cleared and the status returns to idle.
func (s *Session) Reset() {
	s.entries = []entry{{msg: model.Greeting()}}
	s.suggestions = nil
	s.draft = ""
	s.status = model.IdleStatus()
	s.epoch++
}

// Activate puts the suggestion's query into the draft and submits it on
// the next turn of the event loop.
func (s *Session) Activate(sug model.Suggestion) tea.Cmd {
	s.draft = sug.Query
	return func() tea.Msg {
		return SubmitDraftMsg{}
	}
}

// Update applies a message produced by one of the session's commands and
// returns any follow-up work. Unknown messages are ignored.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AnswerMsg:
		return s.handleAnswer(msg)

	case SuggestionsMsg:
		if msg.Epoch != s.epoch || msg.Seq < s.suggestionsSeq {
			return nil
		}
		s.suggestions = msg.Suggestions
		s.suggestionsSeq = msg.Seq
		return nil

	case StatusResetMsg:
		if msg.Seq == s.seq && s.status.Settled() {
			s.status = model.IdleStatus()
		}
		return nil

	case SubmitDraftMsg:
		return s.SubmitDraft()
	}

	return nil
}

// handleAnswer places the reply to a finished ask request.
func (s *Session) handleAnswer(msg AnswerMsg) tea.Cmd {
	if msg.Epoch != s.epoch {
		s.logger.Debug("dropping answer from previous chat",
			zap.String("request_id", msg.RequestID))
		return nil
	}

	latest := msg.Seq == s.seq
	var cmds []tea.Cmd
	ex := model.Exchange{
		ID:         msg.RequestID,
		Question:   msg.Question,
		AskedAt:    msg.AskedAt,
		AnsweredAt: msg.AnsweredAt,
	}

	if msg.Err != nil {
		s.logAskFailure(msg)
		s.insertReply(msg.Seq, model.ApologyText)
		ex.Answer = model.ApologyText
		ex.Outcome = model.StatusError.String()
		if latest {
			s.status = model.ErrorStatus()
		}
	} else {
		s.insertReply(msg.Seq, msg.Answer)
		ex.Answer = msg.Answer
		ex.Outcome = model.StatusSuccess.String()
		if latest {
			s.status = model.SuccessStatus()
		}
		cmds = append(cmds, s.fetchRelatedCmd(msg.Seq, msg.Epoch, msg.Question))
	}

	if latest {
		cmds = append(cmds, s.statusResetCmd(msg.Seq))
	}
	cmds = append(cmds, s.recordCmd(ex))

	return tea.Batch(cmds...)
}

// insertReply adds an assistant message after the user message of
// request seq and any replies it already has. Replies to the newest
// request, the usual case, land at the end.
func (s *Session) insertReply(seq uint64, text string) {
	reply := entry{
		msg: model.Message{Role: model.RoleAssistant, Content: text},
		seq: seq,
	}

	anchor := -1
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].seq == seq && s.entries[i].msg.IsUser() {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		s.entries = append(s.entries, reply)
		return
	}

	pos := anchor + 1
	for pos < len(s.entries) &&
		!s.entries[pos].msg.IsUser() &&
		s.entries[pos].seq == seq {
		pos++
	}

	s.entries = append(s.entries, entry{})
	copy(s.entries[pos+1:], s.entries[pos:])
	s.entries[pos] = reply
}

func (s *Session) logAskFailure(msg AnswerMsg) {
	fields := []zap.Field{
		zap.String("request_id", msg.RequestID),
		zap.Error(msg.Err),
	}
	var statusErr *faq.StatusError
	if errors.As(msg.Err, &statusErr) {
		fields = append(fields,
			zap.Int("status", statusErr.Code),
			zap.String("detail", statusErr.Body),
		)
	}
	s.logger.Error("ask request failed", fields...)
}

func (s *Session) askCmd(seq, epoch uint64, requestID, question string) tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		askedAt := time.Now()
		answer, err := backend.Ask(context.Background(), requestID, question)
		return AnswerMsg{
			Seq:        seq,
			Epoch:      epoch,
			RequestID:  requestID,
			Question:   question,
			Answer:     answer,
			Err:        err,
			AskedAt:    askedAt,
			AnsweredAt: time.Now(),
		}
	}
}

// fetchRelatedCmd runs the search request detached from the ask flow.
// Errors and panics stop at this boundary; only a successful search
// produces a message.
func (s *Session) fetchRelatedCmd(seq, epoch uint64, query string) tea.Cmd {
	backend := s.backend
	logger := s.logger
	limit := s.suggestionLimit
	return func() tea.Msg {
		var result tea.Msg
		var pc panics.Catcher
		pc.Try(func() {
			suggestions, err := backend.Search(
				context.Background(), uuid.NewString(), query, limit,
			)
			if err != nil {
				logger.Debug("related questions unavailable", zap.Error(err))
				return
			}
			result = SuggestionsMsg{
				Seq:         seq,
				Epoch:       epoch,
				Suggestions: suggestions,
			}
		})
		if r := pc.Recovered(); r != nil {
			logger.Debug("related question fetch panicked",
				zap.String("panic", r.String()))
			return nil
		}
		return result
	}
}

func (s *Session) statusResetCmd(seq uint64) tea.Cmd {
	return tea.Tick(s.resetDelay, func(time.Time) tea.Msg {
		return StatusResetMsg{Seq: seq}
	})
}

func (s *Session) recordCmd(ex model.Exchange) tea.Cmd {
	if s.recorder == nil {
		return nil
	}
	recorder := s.recorder
	logger := s.logger
	return func() tea.Msg {
		if err := recorder.RecordExchange(context.Background(), ex); err != nil {
			logger.Warn("recording exchange failed",
				zap.String("request_id", ex.ID), zap.Error(err))
		}
		return nil
	}
}
