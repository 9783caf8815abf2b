package events

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/airenas/voicedon/internal/pkg/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	hub *Hub
)

func initHubTest(t *testing.T) {
	hub = NewHub()
}

type mockWSConn struct{ mock.Mock }

func (m *mockWSConn) ReadMessage() (messageType int, p []byte, err error) {
	args := m.Called()
	return args.Int(0), args.Get(1).([]byte), args.Error(2)
}

func (m *mockWSConn) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockWSConn) WriteJSON(v interface{}) error {
	args := m.Called(v)
	return args.Error(0)
}

func createTestConn(t *testing.T, id string, closeChan <-chan struct{}) *mockWSConn {
	t.Helper()
	connWSMock := &mockWSConn{}
	connWSMock.On("WriteJSON", mock.Anything).Return(nil)
	connWSMock.On("ReadMessage").Return(1, []byte(id), nil).Once()
	connWSMock.On("ReadMessage").Return(1, []byte(id), fmt.Errorf("err")).Run(func(args mock.Arguments) {
		<-closeChan
	})
	connWSMock.On("Close").Return(nil)
	return connWSMock
}

func testHas(t *testing.T, s string, i int) {
	t.Helper()
	ctx := test.Ctx(t)
	for {
		cn, ok := hub.GetConnections(s)
		if ok == (i > 0) && len(cn) == i {
			break
		}
		select {
		case <-ctx.Done():
			require.Failf(t, "timeouted", "not found connection %s", s)
		case <-time.After(time.Millisecond * 20):
		}
	}
}

func Test_HandleConnection(t *testing.T) {
	initHubTest(t)
	closeCtx, cf := context.WithCancel(test.Ctx(t))
	go func() {
		err := hub.HandleConnection(createTestConn(t, "1", closeCtx.Done()))
		assert.Nil(t, err)
	}()
	testHas(t, "1", 1)
	cf()
	testHas(t, "1", 0)
}

func Test_HandleConnection_Several(t *testing.T) {
	initHubTest(t)
	closeCtx, cf := context.WithCancel(test.Ctx(t))
	defer cf()
	for i := 0; i < 10; i++ {
		go func() {
			err := hub.HandleConnection(createTestConn(t, "1", closeCtx.Done()))
			assert.Nil(t, err)
		}()
	}
	testHas(t, "1", 10)
}

func Test_Publish(t *testing.T) {
	initHubTest(t)
	closeCtx, cf := context.WithCancel(test.Ctx(t))
	defer cf()
	c1 := createTestConn(t, "1", closeCtx.Done())
	c2 := createTestConn(t, "2", closeCtx.Done())
	go func() { _ = hub.HandleConnection(c1) }()
	go func() { _ = hub.HandleConnection(c2) }()
	testHas(t, "1", 1)
	testHas(t, "2", 1)
	ev := &Event{Type: TypeTick, Task: 1, Elapsed: 3}

	hub.Publish("1", ev)

	c1.AssertCalled(t, "WriteJSON", ev)
	c2.AssertNotCalled(t, "WriteJSON", mock.Anything)
}

func Test_Publish_NoConnection(t *testing.T) {
	initHubTest(t)
	hub.Publish("1", &Event{Type: TypeTick})
}

func Test_Publish_WriteFail(t *testing.T) {
	initHubTest(t)
	closeCtx, cf := context.WithCancel(test.Ctx(t))
	defer cf()
	c1 := &mockWSConn{}
	c1.On("WriteJSON", mock.Anything).Return(fmt.Errorf("closed"))
	c1.On("ReadMessage").Return(1, []byte("1"), nil).Once()
	c1.On("ReadMessage").Return(1, []byte(""), fmt.Errorf("err")).Run(func(args mock.Arguments) {
		<-closeCtx.Done()
	})
	c1.On("Close").Return(nil)
	go func() { _ = hub.HandleConnection(c1) }()
	testHas(t, "1", 1)

	hub.Publish("1", &Event{Type: TypeTick})

	c1.AssertNumberOfCalls(t, "WriteJSON", 1)
}
