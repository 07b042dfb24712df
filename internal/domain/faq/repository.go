package faq

import "context"

// Source loads FAQ entries once at startup.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Entry, error)
}
