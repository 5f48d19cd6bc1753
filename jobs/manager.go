package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
	"github.com/hibiken/asynq"
)

const (
	TypeSendEmail = "email:send"
)

// Sender delivers one email. *mailer.EmailService satisfies it.
type Sender interface {
	SendEmail(to, subject, body string) error
}

// Composer renders the welcome message. *mailer.EmailService satisfies it.
type Composer interface {
	BuildWelcomeEmail(emp *models.Employee) (string, string)
}

type JobManager struct {
	client   *asynq.Client
	server   *asynq.Server
	mux      *asynq.ServeMux
	composer Composer
}

type EmailPayload struct {
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	Body     string            `json:"body"`
	Type     string            `json:"type"`
	Metadata map[string]string `json:"metadata"`
}

func NewJobManager(redisURL string, composer Composer) (*JobManager, error) {
	redisOpt, err := redisOptions(redisURL)
	if err != nil {
		return nil, err
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			utils.LogError("Job failed: type=%s error=%v", task.Type(), err)
		}),
		Logger: &AsynqLogger{},
	})

	return &JobManager{
		client:   client,
		server:   server,
		mux:      asynq.NewServeMux(),
		composer: composer,
	}, nil
}

// redisOptions accepts redis:// URLs as well as bare host:port.
func redisOptions(redisURL string) (asynq.RedisConnOpt, error) {
	if strings.Contains(redisURL, "://") {
		opt, err := asynq.ParseRedisURI(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return opt, nil
	}
	return asynq.RedisClientOpt{Addr: redisURL}, nil
}

func (jm *JobManager) RegisterHandlers(sender Sender) {
	jm.mux.HandleFunc(TypeSendEmail, HandleSendEmail(sender))
}

// Run processes tasks until ctx is cancelled.
func (jm *JobManager) Run(ctx context.Context) error {
	utils.LogStartup("Starting job queue worker...")
	if err := jm.server.Start(jm.mux); err != nil {
		return fmt.Errorf("start job worker: %w", err)
	}
	<-ctx.Done()
	jm.Stop()
	return nil
}

func (jm *JobManager) Stop() {
	utils.LogShutdown("Stopping job queue...")
	jm.server.Stop()
	jm.server.Shutdown()
	jm.client.Close()
}

// QueueEmail enqueues any email with queue-dependent retry and timeout.
func (jm *JobManager) QueueEmail(ctx context.Context, payload EmailPayload, priority string) error {
	if payload.Metadata == nil {
		payload.Metadata = make(map[string]string)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	task := asynq.NewTask(TypeSendEmail, payloadBytes)

	queue := "default"
	maxRetries := 3
	timeout := 60 * time.Second

	switch priority {
	case "critical":
		queue = "critical"
		maxRetries = 5
		timeout = 120 * time.Second
	case "low":
		queue = "low"
		maxRetries = 2
		timeout = 30 * time.Second
	}

	info, err := jm.client.EnqueueContext(ctx, task,
		asynq.Queue(queue),
		asynq.MaxRetry(maxRetries),
		asynq.Timeout(timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}

	utils.LogJob("Queued email job: ID=%s type=%s to=%s queue=%s", info.ID, payload.Type, payload.To, queue)
	return nil
}

// EmployeeCreated implements handlers.Notifier.
func (jm *JobManager) EmployeeCreated(ctx context.Context, emp *models.Employee) error {
	return jm.QueueEmail(ctx, welcomePayload(jm.composer, emp), "default")
}

func welcomePayload(composer Composer, emp *models.Employee) EmailPayload {
	subject, body := composer.BuildWelcomeEmail(emp)
	return EmailPayload{
		To:      emp.Email,
		Subject: subject,
		Body:    body,
		Type:    "welcome",
		Metadata: map[string]string{
			"employee_id": fmt.Sprintf("%d", emp.ID),
		},
	}
}

// HandleSendEmail decodes an email task and delivers it.
func HandleSendEmail(sender Sender) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload EmailPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal email payload: %w: %w", err, asynq.SkipRetry)
		}

		utils.LogJob("Processing email job: type=%s to=%s", payload.Type, payload.To)

		if err := sender.SendEmail(payload.To, payload.Subject, payload.Body); err != nil {
			return fmt.Errorf("failed to send %s email to %s (metadata: %v): %w",
				payload.Type, payload.To, payload.Metadata, err)
		}

		utils.LogJob("Successfully sent %s email to %s", payload.Type, payload.To)
		return nil
	}
}

// AsynqLogger routes asynq's logging through ours.
type AsynqLogger struct{}

func (l *AsynqLogger) Debug(args ...interface{}) {
	utils.LogDebug("%s", fmt.Sprint(args...))
}

func (l *AsynqLogger) Info(args ...interface{}) {
	utils.LogJob("%s", fmt.Sprint(args...))
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	utils.LogError("%s", fmt.Sprint(args...))
}

func (l *AsynqLogger) Error(args ...interface{}) {
	utils.LogError("%s", fmt.Sprint(args...))
}

func (l *AsynqLogger) Fatal(args ...interface{}) {
	utils.LogError("%s", fmt.Sprint(args...))
}
