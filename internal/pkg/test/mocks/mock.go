package mocks

import (
	"context"
	"sync"

	"github.com/airenas/voicedon/internal/pkg/backend/api"
	"github.com/airenas/voicedon/internal/pkg/events"
	"github.com/stretchr/testify/mock"
)

// Backend is backend client mock
type Backend struct{ mock.Mock }

// Submit func mock
func (m *Backend) Submit(ctx context.Context, data *api.UploadData) (*api.SubmitResponse, error) {
	args := m.Called(ctx, data)
	return to[*api.SubmitResponse](args.Get(0)), args.Error(1)
}

// GetStatus func mock
func (m *Backend) GetStatus(ctx context.Context, ID string) (*api.StatusData, error) {
	args := m.Called(ctx, ID)
	return to[*api.StatusData](args.Get(0)), args.Error(1)
}

// Publisher collects published events
type Publisher struct {
	lock   sync.Mutex
	events []*events.Event
}

// Publish func mock
func (m *Publisher) Publish(id string, ev *events.Event) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.events = append(m.events, ev)
}

// Events returns published events of the type, all if type is empty
func (m *Publisher) Events(tp string) []*events.Event {
	m.lock.Lock()
	defer m.lock.Unlock()
	res := []*events.Event{}
	for _, e := range m.events {
		if tp == "" || e.Type == tp {
			res = append(res, e)
		}
	}
	return res
}

func to[T interface{}](val interface{}) T {
	if val == nil {
		var res T
		return res
	}
	return val.(T)
}
