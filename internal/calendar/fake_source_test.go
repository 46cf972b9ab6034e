package calendar

import (
	"context"
	"time"

	"github.com/teemow/timewise/internal/google"
)

type fakeSource struct {
	events  []EventSummary
	err     error
	created []EventInput
}

func (f *fakeSource) EventsInRange(_ context.Context, _, _ time.Time) ([]EventSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

type fakeWriter struct {
	fakeSource
}

func (f *fakeWriter) CreateEvent(_ context.Context, input EventInput) (*EventSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, input)
	return &EventSummary{ID: "new", Summary: input.Summary, Start: input.Start, End: input.End}, nil
}

func googleCreds() google.Credentials {
	return google.Credentials{ClientID: "id", ClientSecret: "secret"}
}
