package events

import (
	"strings"
	"sync"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
)

// WsConn is interface for websocket handling
type WsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	WriteJSON(v interface{}) error
}

// Hub keeps page connections by session ID and pushes events to them
type Hub struct {
	idConnectionMap map[string]map[WsConn]struct{}
	connectionIDMap map[WsConn]string
	mapLock         *sync.Mutex
	writeLock       *sync.Mutex
	timeOut         time.Duration
}

// NewHub creates hub
func NewHub() *Hub {
	res := &Hub{}
	res.idConnectionMap = make(map[string]map[WsConn]struct{})
	res.connectionIDMap = make(map[WsConn]string)
	res.mapLock = &sync.Mutex{}
	res.writeLock = &sync.Mutex{}
	res.timeOut = time.Hour * 2
	return res
}

// HandleConnection loops until connection is active. The page writes the session ID to subscribe
func (h *Hub) HandleConnection(conn WsConn) error {
	defer h.deleteConnection(conn)
	defer conn.Close()
	readCh := make(chan string)
	go func() {
		defer close(readCh)
		defer goapp.Log.Debug().Msg("read routine ended")
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				goapp.Log.Info().Err(err).Msg("ws read")
				return
			}
			msg := strings.TrimSpace(string(message))
			goapp.Log.Debug().Str("msg", goapp.Sanitize(msg)).Msg("got msg")
			if msg != "" {
				readCh <- msg
			} else {
				time.Sleep(20 * time.Millisecond)
			}
		}
	}()

	ta := time.After(h.timeOut)
loop:
	for {
		select {
		case <-ta:
			goapp.Log.Debug().Msg("conn timeouted")
			break loop
		case msg, ok := <-readCh:
			if !ok {
				goapp.Log.Debug().Msg("conn read closed")
				break loop
			}
			h.saveConnection(conn, msg)
			ta = time.After(h.timeOut)
		}
	}
	goapp.Log.Info().Msg("handleConnection finish")
	return nil
}

// Publish sends event to all connections of the session
func (h *Hub) Publish(id string, ev *Event) {
	conns, ok := h.GetConnections(id)
	if !ok {
		return
	}
	h.writeLock.Lock()
	defer h.writeLock.Unlock()
	for _, c := range conns {
		if err := c.WriteJSON(ev); err != nil {
			goapp.Log.Warn().Err(err).Str("ID", id).Str("type", ev.Type).Msg("can't write event")
		}
	}
}

func (h *Hub) deleteConnection(conn WsConn) {
	h.mapLock.Lock()
	defer h.mapLock.Unlock()
	h.deleteConnectionNoSync(conn)
}

func (h *Hub) deleteConnectionNoSync(conn WsConn) {
	id, found := h.connectionIDMap[conn]
	if found {
		conns, found := h.idConnectionMap[id]
		if found {
			delete(conns, conn)
			if len(conns) == 0 {
				delete(h.idConnectionMap, id)
			}
		}
	}
	delete(h.connectionIDMap, conn)
	goapp.Log.Debug().Int("active", len(h.connectionIDMap)).Msg("deleteConnection finish")
}

func (h *Hub) saveConnection(conn WsConn, id string) {
	goapp.Log.Info().Str("ID", goapp.Sanitize(id)).Msg("subscribe")
	h.mapLock.Lock()
	defer h.mapLock.Unlock()
	h.deleteConnectionNoSync(conn)
	h.connectionIDMap[conn] = id
	conns, found := h.idConnectionMap[id]
	if !found {
		conns = map[WsConn]struct{}{}
		h.idConnectionMap[id] = conns
	}
	conns[conn] = struct{}{}
	goapp.Log.Debug().Int("active", len(h.connectionIDMap)).Msg("saveConnection finish")
}

// GetConnections returns saved connections by provided id
func (h *Hub) GetConnections(id string) ([]WsConn, bool) {
	h.mapLock.Lock()
	defer h.mapLock.Unlock()
	cm, found := h.idConnectionMap[id]
	if found {
		res := []WsConn{}
		for cm := range cm {
			res = append(res, cm)
		}
		return res, true
	}
	return nil, false
}
