package mock

import (
	"context"

	"github.com/mkowalski/docbase"
)

var _ docbase.Asker = (*Asker)(nil)

// Asker is a mock implementation of docbase.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string, opts docbase.AskOptions) (*docbase.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question string, opts docbase.AskOptions) (*docbase.Answer, error) {
	return a.AskFn(ctx, question, opts)
}
