package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/adamspd/quizdesk/mailer"
	"github.com/adamspd/quizdesk/models"
	"github.com/hibiken/asynq"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []EmailPayload
	err  error
}

func (s *recordingSender) SendEmail(to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, EmailPayload{To: to, Subject: subject, Body: body})
	return s.err
}

func TestHandleSendEmail_Delivers(t *testing.T) {
	sender := &recordingSender{}
	payload, _ := json.Marshal(EmailPayload{To: "a@b.co", Subject: "hi", Body: "there", Type: "welcome"})

	if err := HandleSendEmail(sender)(context.Background(), asynq.NewTask(TypeSendEmail, payload)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "a@b.co" || sender.sent[0].Subject != "hi" {
		t.Fatalf("unexpected deliveries %+v", sender.sent)
	}
}

func TestHandleSendEmail_BadPayloadSkipsRetry(t *testing.T) {
	err := HandleSendEmail(&recordingSender{})(context.Background(), asynq.NewTask(TypeSendEmail, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestHandleSendEmail_SenderErrorIsReturned(t *testing.T) {
	boom := errors.New("smtp down")
	payload, _ := json.Marshal(EmailPayload{To: "a@b.co"})
	err := HandleSendEmail(&recordingSender{err: boom})(context.Background(), asynq.NewTask(TypeSendEmail, payload))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped sender error, got %v", err)
	}
}

func TestInlineNotifier_SendsWelcome(t *testing.T) {
	sender := &recordingSender{}
	composer := mailer.NewEmailService(models.EmailConfig{FromName: "HR"})
	n := NewInlineNotifier(sender, composer)

	emp := &models.Employee{ID: 3, Name: "Clara", Email: "clara@example.com", Position: "Designer"}
	if err := n.EmployeeCreated(context.Background(), emp); err != nil {
		t.Fatalf("EmployeeCreated: %v", err)
	}
	n.Wait()

	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	got := sender.sent[0]
	if got.To != "clara@example.com" || !strings.Contains(got.Body, "Clara") || !strings.Contains(got.Body, "Designer") {
		t.Fatalf("unexpected email %+v", got)
	}
}

func TestRedisOptions(t *testing.T) {
	opt, err := redisOptions("localhost:6379")
	if err != nil {
		t.Fatalf("bare address: %v", err)
	}
	if c, ok := opt.(asynq.RedisClientOpt); !ok || c.Addr != "localhost:6379" {
		t.Fatalf("unexpected opt %#v", opt)
	}

	opt, err = redisOptions("redis://localhost:6380/2")
	if err != nil {
		t.Fatalf("redis url: %v", err)
	}
	if c, ok := opt.(asynq.RedisClientOpt); !ok || c.Addr != "localhost:6380" || c.DB != 2 {
		t.Fatalf("unexpected opt %#v", opt)
	}
}
