package jobs

import (
	"context"
	"sync"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
)

// InlineNotifier delivers welcome emails in a background goroutine of the
// serving process. It is used when no Redis queue is configured.
type InlineNotifier struct {
	sender   Sender
	composer Composer
	wg       sync.WaitGroup
}

func NewInlineNotifier(sender Sender, composer Composer) *InlineNotifier {
	return &InlineNotifier{sender: sender, composer: composer}
}

func (n *InlineNotifier) EmployeeCreated(_ context.Context, emp *models.Employee) error {
	payload := welcomePayload(n.composer, emp)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.sender.SendEmail(payload.To, payload.Subject, payload.Body); err != nil {
			utils.LogError("Failed to send %s email to %s: %v", payload.Type, payload.To, err)
		}
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish.
func (n *InlineNotifier) Wait() {
	n.wg.Wait()
}
