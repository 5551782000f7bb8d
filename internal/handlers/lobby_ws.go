// internal/handlers/lobby_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lobbyd/lobbyd/internal/coord"
	"github.com/lobbyd/lobbyd/internal/protocol"
)

// outboundQueueSize bounds the per-connection send buffer. When a peer falls
// this far behind, further messages to it are dropped.
const outboundQueueSize = 16

// wsSession is one client's connection as the engine sees it. Send queues
// onto out without blocking; the write pump drains it onto the socket.
type wsSession struct {
	remote string
	log    *logrus.Logger

	mu     sync.Mutex
	closed bool
	out    chan protocol.ServerMessage
}

func newWSSession(remote string, log *logrus.Logger) *wsSession {
	return &wsSession{
		remote: remote,
		log:    log,
		out:    make(chan protocol.ServerMessage, outboundQueueSize),
	}
}

// Send implements coord.Sender. It never blocks: a full queue means the peer
// is too slow and the message is dropped.
func (s *wsSession) Send(msg protocol.ServerMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.out <- msg:
	default:
		s.log.WithFields(logrus.Fields{
			"remote": s.remote,
			"type":   msg.Type,
		}).Warn("outbound queue full, dropping message")
	}
}

// close stops the write pump. Callers must have dissociated the session from
// the engine first so no Send can race the channel close.
func (s *wsSession) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

// LobbyWSHandler upgrades the connection and runs it against the engine until
// the peer goes away.
func LobbyWSHandler(logger *logrus.Logger, engine *coord.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"lobby"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "lobby" {
			c.Close(websocket.StatusPolicyViolation, "client must speak the lobby subprotocol")
			return
		}

		remote := r.RemoteAddr
		logger.WithField("remote", remote).Info("client connected")

		sess := newWSSession(remote, logger)
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go writePump(ctx, c, sess, logger)

		readPump(ctx, c, sess, engine, logger)

		// Dissociate before closing the session so no broadcast can hit the
		// closed channel.
		engine.Disconnect(sess)
		sess.close()
		logger.WithField("remote", remote).Info("client disconnected")
	}
}

// readPump feeds inbound frames to the engine until the connection dies.
func readPump(ctx context.Context, c *websocket.Conn, sess *wsSession, engine *coord.Engine, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				logger.WithField("remote", sess.remote).Debug("websocket closed normally")
			} else if ctx.Err() == nil {
				logger.WithField("remote", sess.remote).Warnf("read error: %v", err)
			}
			return
		}
		if typ != websocket.MessageText {
			logger.WithField("remote", sess.remote).Warn("ignoring non-text message")
			continue
		}
		engine.HandleMessage(sess, data)
	}
}

// writePump drains the session's outbound queue onto the socket and pings
// periodically so dead peers surface as read errors.
func writePump(ctx context.Context, c *websocket.Conn, sess *wsSession, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sess.out:
			if !ok {
				c.Close(websocket.StatusNormalClosure, "bye")
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("failed to marshal outgoing msg for %s: %v", sess.remote, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.WithField("remote", sess.remote).Warnf("write failed: %v", err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.WithField("remote", sess.remote).Warnf("ping failed, assuming disconnect: %v", err)
				return
			}
		}
	}
}
