package testutil

import (
	"context"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
)

// MockAdapter is a func-field implementation of fetcher.Adapter for
// tests.
type MockAdapter struct {
	SourceFunc  func() fetcher.Source
	EnabledFunc func() bool
	FetchFunc   func(ctx context.Context) (fetcher.Payload, error)
	ParseFunc   func(payload fetcher.Payload) (model.RecordSet, error)
}

func (m *MockAdapter) Source() fetcher.Source {
	if m.SourceFunc != nil {
		return m.SourceFunc()
	}
	return fetcher.Source("mock")
}

func (m *MockAdapter) Enabled() bool {
	if m.EnabledFunc != nil {
		return m.EnabledFunc()
	}
	return true
}

func (m *MockAdapter) Fetch(ctx context.Context) (fetcher.Payload, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return nil, nil
}

func (m *MockAdapter) Parse(payload fetcher.Payload) (model.RecordSet, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(payload)
	}
	if set, ok := payload.(model.RecordSet); ok {
		return set, nil
	}
	return model.RecordSet{}, nil
}

// NewMockAdapter builds a mock that returns fixed records or a fixed
// error.
func NewMockAdapter(src fetcher.Source, records model.RecordSet, err error) *MockAdapter {
	return &MockAdapter{
		SourceFunc: func() fetcher.Source { return src },
		FetchFunc: func(ctx context.Context) (fetcher.Payload, error) {
			if err != nil {
				return nil, err
			}
			return records, nil
		},
	}
}

// NewDisabledAdapter builds a mock whose Enabled always reports false.
func NewDisabledAdapter(src fetcher.Source) *MockAdapter {
	return &MockAdapter{
		SourceFunc:  func() fetcher.Source { return src },
		EnabledFunc: func() bool { return false },
	}
}
