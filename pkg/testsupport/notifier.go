package testsupport

import (
	"sync"

	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Notice is one recorded notification.
type Notice struct {
	Kind interfaces.NoticeKind
	Text string
}

// RecordingNotifier captures notifications for assertions.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *RecordingNotifier) Notify(kind interfaces.NoticeKind, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Kind: kind, Text: text})
}

// Notices returns a copy of everything recorded so far.
func (r *RecordingNotifier) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *RecordingNotifier) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
