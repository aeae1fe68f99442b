package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/data/events"
	eventsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/events"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	// Must be shorter than pongWait so the ping arrives before the read
	// deadline lapses
	pingPeriod = (pongWait * 9) / 10

	defaultSendBuffer      = 64
	defaultMaxMessageBytes = 4096
)

// ErrSessionFull is returned by Send when the session's outbound buffer is
// saturated. The event is dropped for this session only.
var ErrSessionFull = errors.New("realtime: session send buffer full")

var errSessionClosed = errors.New("realtime: session closed")

// session is one live websocket connection bound to an authenticated user.
// It satisfies the presence handle contract: Send never blocks.
type session struct {
	userID    primitive.ObjectID
	sessionID string

	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(userID primitive.ObjectID, conn *websocket.Conn, sendBuffer int) *session {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}

	return &session{
		userID:    userID,
		sessionID: primitive.NewObjectID().Hex(),
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
}

func (s *session) SessionID() string {
	return s.sessionID
}

func (s *session) Send(data []byte) error {
	select {
	case <-s.done:
		return errSessionClosed
	default:
	}

	select {
	case s.send <- data:
		return nil
	default:
		return ErrSessionFull
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)

		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case data := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *session) readPump(h inboundHandler, maxMessageBytes int) {
	defer s.close()

	if maxMessageBytes <= 0 {
		maxMessageBytes = defaultMaxMessageBytes
	}

	s.conn.SetReadLimit(int64(maxMessageBytes))
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.S().Debugw("realtime, abnormal connection close",
					"user_id", s.userID.Hex(),
					"session_id", s.sessionID,
					"error", err,
				)
			}

			return
		}

		in, err := events.ParseInbound(data)
		if err != nil {
			// Malformed frames are dropped, not fatal
			continue
		}

		h.handle(s.sessionID, in)
	}
}

// inboundHandler routes client-originated frames. Only typing signals are
// accepted from the wire; everything else a client could claim is ignored.
type inboundHandler struct {
	events   eventsvc.Instance
	selfEcho bool
}

func (h inboundHandler) handle(sessionID string, in events.Inbound) {
	switch in.Event {
	case events.EventTypeTypingStart, events.EventTypeTypingStop:
	default:
		return
	}

	chatID, err := primitive.ObjectIDFromHex(in.ChatID)
	if err != nil {
		return
	}

	targets := make([]primitive.ObjectID, 0, len(in.Members))

	for _, raw := range in.Members {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			continue
		}

		targets = append(targets, id)
	}

	if len(targets) == 0 {
		return
	}

	evt := events.NewTyping(in.Event, chatID)

	if h.selfEcho {
		h.events.Dispatch(targets, evt)
	} else {
		h.events.DispatchExcept(sessionID, targets, evt)
	}
}
