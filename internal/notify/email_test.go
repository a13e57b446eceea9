package notify

import (
	"context"
	"github.com/half-nothing/simple-fsd-client/internal/base"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
	"sync"
	"testing"
	"time"
)

type recordingSender struct {
	lock     sync.Mutex
	subjects []string
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, message := range m {
		r.subjects = append(r.subjects, message.GetHeader("Subject")...)
	}
	return nil
}

func TestEmailNotifierThrottle(t *testing.T) {
	sender := &recordingSender{}
	notifyConfig := &config.NotifyConfig{
		Enabled:      true,
		From:         "fsd@example.com",
		To:           []string{"ops@example.com"},
		SendDuration: time.Minute,
	}
	notifier := newEmailNotifier(base.NewDiscardLogger(), notifyConfig, sender)
	current := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	notifier.now = func() time.Time { return current }

	require.NoError(t, notifier.Notify("Kicked", "reason: test"))
	assert.ErrorIs(t, notifier.Notify("Kicked again", "reason: test"), ErrEmailSendInterval)

	current = current.Add(2 * time.Minute)
	require.NoError(t, notifier.Notify("Server error", "fatal"))

	require.NoError(t, notifier.Invoke(context.Background()))
	assert.Equal(t, []string{"[FSD] Kicked", "[FSD] Server error"}, sender.subjects)
	assert.ErrorIs(t, notifier.Notify("after close", ""), ErrNotifierClosed)
}

func TestRenderAlert(t *testing.T) {
	content, err := RenderAlert("Kicked", "line one\n<b>line two</b>", time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, content, "<h3>Kicked</h3>")
	assert.Contains(t, content, "<p>line one</p>")
	assert.Contains(t, content, "&lt;b&gt;line two&lt;/b&gt;")
	assert.Contains(t, content, "2025-05-01T08:00:00Z")
}

func TestNewNotifierDisabled(t *testing.T) {
	assert.Nil(t, NewNotifier(base.NewDiscardLogger(), &config.NotifyConfig{Enabled: false}))
	assert.Nil(t, NewNotifier(base.NewDiscardLogger(), nil))
}
