// Package session drives one timed quiz attempt on the client side.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
)

// Outcome records how an attempt ended.
type Outcome int

const (
	Pending Outcome = iota
	Submitted
	TimedOut
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Submitted:
		return "submitted"
	case TimedOut:
		return "expired"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

var (
	ErrUnknownQuestion = errors.New("question is not part of this quiz")
	ErrInvalidOption   = errors.New("not an option of this question")
	ErrFinished        = errors.New("session already finished")
)

// Submitter sends an answer set for scoring. *client.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, quizID int, answers []models.SubmittedAnswer) (*models.ScoreResult, error)
}

// Session owns one attempt: the delivered questions, the answers chosen so
// far and the countdown. Manual submit, cancel and expiry share one finish
// path, so exactly one of them wins and the timer is stopped on every exit.
type Session struct {
	quizID    int
	questions []models.PublicQuestion
	submitter Submitter
	timer     *Timer

	mu      sync.Mutex
	ctx     context.Context
	answers map[int]string
	outcome Outcome
	result  *models.ScoreResult
	err     error

	once sync.Once
	done chan struct{}
}

// New builds a session lasting duration ticks of interval each.
func New(quizID int, questions []models.PublicQuestion, submitter Submitter, duration int, interval time.Duration) *Session {
	s := &Session{
		quizID:    quizID,
		questions: questions,
		submitter: submitter,
		answers:   make(map[int]string),
		done:      make(chan struct{}),
	}
	s.timer = NewTimer(duration, interval, s.expire)
	return s
}

// Start begins the countdown. ctx is also used for the submission that
// follows expiry. Cancelling it before the session ends cancels the session.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	utils.LogInfo("Starting quiz %d: %d questions, %d ticks", s.quizID, len(s.questions), s.timer.Remaining())
	if err := s.timer.Start(ctx); err != nil {
		return err
	}

	go func() {
		select {
		case <-ctx.Done():
			s.Cancel()
		case <-s.done:
		}
	}()
	return nil
}

// OnTick forwards every countdown step to fn. Set it before Start.
func (s *Session) OnTick(fn func(remaining int)) {
	s.timer.OnTick(fn)
}

func (s *Session) Questions() []models.PublicQuestion {
	return s.questions
}

// Choose records the option picked for a question, replacing any earlier
// choice. The option must be one of the question's non-empty labels.
func (s *Session) Choose(questionID int, option string) error {
	option = strings.ToLower(strings.TrimSpace(option))

	var question *models.PublicQuestion
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			question = &s.questions[i]
			break
		}
	}
	if question == nil {
		return ErrUnknownQuestion
	}
	if !question.HasOption(option) {
		return ErrInvalidOption
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome != Pending {
		return ErrFinished
	}
	s.answers[questionID] = option
	return nil
}

// Answers returns the collected answers in question delivery order.
// Unanswered questions are left out.
func (s *Session) Answers() []models.SubmittedAnswer {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make([]models.SubmittedAnswer, 0, len(s.answers))
	for _, q := range s.questions {
		if opt, ok := s.answers[q.ID]; ok {
			answers = append(answers, models.Answer(q.ID, opt))
		}
	}
	return answers
}

// Submit sends the current answers and ends the session.
func (s *Session) Submit(ctx context.Context) (*models.ScoreResult, error) {
	if !s.finish(Submitted) {
		return nil, ErrFinished
	}
	s.submit(ctx)
	return s.Result(), s.Err()
}

// Cancel ends the session without submitting.
func (s *Session) Cancel() {
	if s.finish(Cancelled) {
		utils.LogInfo("Quiz %d attempt cancelled", s.quizID)
		close(s.done)
	}
}

// expire runs on the timer goroutine and must not block it.
func (s *Session) expire() {
	go func() {
		if !s.finish(TimedOut) {
			return
		}
		utils.LogInfo("Time is up for quiz %d, submitting collected answers", s.quizID)

		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()
		if ctx == nil || ctx.Err() != nil {
			ctx = context.Background()
		}
		s.submit(ctx)
	}()
}

func (s *Session) finish(outcome Outcome) bool {
	won := false
	s.once.Do(func() {
		won = true
		s.timer.Stop()
		s.mu.Lock()
		s.outcome = outcome
		s.mu.Unlock()
	})
	return won
}

func (s *Session) submit(ctx context.Context) {
	defer close(s.done)

	result, err := s.submitter.Submit(ctx, s.quizID, s.Answers())
	if err != nil {
		utils.LogError("Submitting quiz %d failed: %v", s.quizID, err)
	}

	s.mu.Lock()
	s.result, s.err = result, err
	s.mu.Unlock()
}

// Done is closed once the session has ended and any submission returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Remaining() int {
	return s.timer.Remaining()
}

func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

func (s *Session) Result() *models.ScoreResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
