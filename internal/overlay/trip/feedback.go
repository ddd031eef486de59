package trip

import "time"

// FeedbackKind classifies the visual style of an operator feedback message.
type FeedbackKind string

const (
	FeedbackNone    FeedbackKind = "none"
	FeedbackSuccess FeedbackKind = "success"
	FeedbackWarning FeedbackKind = "warning"
	FeedbackError   FeedbackKind = "error"
)

// Feedback is the operator-visible result of a control panel command.
// It is owned by the control panel controller; renderers only read it.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Message string       `json:"message"`

	// ExpiresAt is when the feedback reverts to none. Zero means no expiry.
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// NoFeedback is the cleared feedback state.
var NoFeedback = Feedback{Kind: FeedbackNone}

// Expired reports whether the feedback display duration has elapsed.
func (f Feedback) Expired(now time.Time) bool {
	return f.Kind != FeedbackNone && !f.ExpiresAt.IsZero() && now.After(f.ExpiresAt)
}
