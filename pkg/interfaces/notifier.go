package interfaces

// NoticeKind classifies a user-facing notification.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
)

// Notifier is the fire-and-forget notification capability injected into list
// controllers. There is no acknowledgment contract: implementations must not
// block and must not fail the caller.
type Notifier interface {
	Notify(kind NoticeKind, text string)
}

// NotifierFunc adapts a plain function to the Notifier contract.
type NotifierFunc func(kind NoticeKind, text string)

// Notify satisfies Notifier.
func (fn NotifierFunc) Notify(kind NoticeKind, text string) {
	if fn != nil {
		fn(kind, text)
	}
}
