package core

import "context"

// AIProvider performs one chat completion round trip. At most one attempt per
// call; callers that need fail-soft behavior absorb the error themselves.
type AIProvider interface {
	Chat(ctx context.Context, messages []Message) (Message, error)
}

// Completer is the single operation the pipeline needs from a provider: one
// system prompt, bounded prior context, the current user prompt, one reply.
type Completer interface {
	Complete(ctx context.Context, system string, contextMsgs []Message, user string) (string, error)
}
