package notifysvc

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// consoleService logs notifications instead of delivering them.
type consoleService struct {
	logger core.Logger
}

var _ core.Notifier = (*consoleService)(nil)

func NewConsoleService(logger core.Logger) core.Notifier {
	return &consoleService{logger: logger}
}

func (svc *consoleService) Notify(notes ...*core.Notification) {
	for _, note := range notes {
		go svc.notify(note)
	}
}

// notify reports whether note was delivered.
func (svc *consoleService) notify(note *core.Notification) bool {
	if err := note.Render(); err != nil {
		svc.logger.Error("rendering notification", errors.Wrap(err, note.TemplateName))
		return false
	}
	if note.HasRecipients() && note.HasContent() {
		svc.send(*note)
		return true
	}
	return false
}

func (svc *consoleService) send(note core.Notification) {
	svc.logger.Info(
		fmt.Sprintf("[NOTIFICATION] %s", note.TextContent),
		map[string]interface{}{"to": svc.joinRecipients(note.To), "subject": note.Subject},
	)
}

func (svc *consoleService) joinRecipients(to []core.Recipient) string {
	toJoin := make([]string, 0, len(to))
	for _, r := range to {
		switch {
		case r.Email != "":
			toJoin = append(toJoin, fmt.Sprintf("%s <%s>", r.Name, r.Email))
		default:
			toJoin = append(toJoin, r.ID)
		}
	}
	return strings.Join(toJoin, ", ")
}

// ConsoleServiceMock delivers synchronously and remembers what it sent.
type ConsoleServiceMock struct {
	consoleService

	mu   sync.Mutex
	sent []core.Notification
}

func NewConsoleServiceMock(logger core.Logger) *ConsoleServiceMock {
	return &ConsoleServiceMock{consoleService: consoleService{logger: logger}}
}

func (svc *ConsoleServiceMock) Notify(notes ...*core.Notification) {
	for _, note := range notes {
		// run synchronously
		if svc.notify(note) {
			svc.mu.Lock()
			svc.sent = append(svc.sent, *note)
			svc.mu.Unlock()
		}
	}
}

// Sent returns a copy of the notifications delivered so far.
func (svc *ConsoleServiceMock) Sent() []core.Notification {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.Notification(nil), svc.sent...)
}

func (svc *ConsoleServiceMock) Reset() {
	svc.mu.Lock()
	svc.sent = nil
	svc.mu.Unlock()
}
