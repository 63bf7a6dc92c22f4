package repository

import "context"

type EventRepository interface {
	// PutEvent writes one event keyed by its ID.
	PutEvent(ctx context.Context, event Event) error
	// ScanEvents returns every stored event, draining all pages.
	ScanEvents(ctx context.Context) ([]Event, error)
}
