package realtime

import (
	"fmt"
	"net"
	"strings"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/internal/errors"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	authsvc "github.com/harshsahu0030/chat-app-backend/internal/svc/auth"
)

// New runs the realtime gateway: it authenticates websocket handshakes,
// binds each accepted connection to its user in the presence registry and
// pumps events until the peer goes away.
func New(gCtx global.Context) error {
	port := gCtx.Config().Http.Ports.Realtime
	if port == 0 {
		port = 3001
	}

	listenType := gCtx.Config().Http.Type
	if listenType == "" {
		listenType = "tcp"
	}

	listener, err := net.Listen(listenType, fmt.Sprintf("%s:%d", gCtx.Config().Http.Addr, port))
	if err != nil {
		return err
	}

	upgrader := websocket.FastHTTPUpgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
			return true
		},
	}

	srv := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			// The credential must resolve before any presence state exists
			// for this connection
			user, apiErr := authenticate(gCtx, ctx)
			if apiErr != nil {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetContentType("application/json")
				ctx.SetBodyString(fmt.Sprintf(`{"error":%q,"error_code":%d}`, apiErr.Message(), apiErr.Code()))

				return
			}

			uErr := upgrader.Upgrade(ctx, func(conn *websocket.Conn) {
				serveSession(gCtx, user, conn)
			})
			if uErr != nil {
				zap.S().Warnw("realtime, websocket upgrade failed",
					"user_id", user.ID.Hex(),
					"ip", ctx.RemoteIP().String(),
					"error", uErr,
				)
			}
		},
		CloseOnShutdown: true,
	}

	go func() {
		<-gCtx.Done()
		_ = srv.Shutdown()
	}()

	return srv.Serve(listener)
}

func authenticate(gCtx global.Context, ctx *fasthttp.RequestCtx) (model.User, errors.APIError) {
	token := string(ctx.Request.Header.Cookie(authsvc.COOKIE_AUTH))
	if token == "" {
		h := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
		if strings.HasPrefix(strings.ToLower(h), "bearer ") {
			token = strings.TrimSpace(h[len("bearer "):])
		}
	}

	if token == "" {
		// Browsers cannot set headers on websocket handshakes
		token = string(ctx.QueryArgs().Peek("token"))
	}

	return gCtx.Inst().Auth.Authenticate(ctx, token)
}

func serveSession(gCtx global.Context, user model.User, conn *websocket.Conn) {
	cfg := gCtx.Config().Realtime
	s := newSession(user.ID, conn, cfg.SendBufferSize)

	presence := gCtx.Inst().Presence
	router := gCtx.Inst().Events

	cameOnline := announceOnline(presence, router, user.ID, s)

	zap.S().Infow("realtime, session opened",
		"user_id", user.ID.Hex(),
		"session_id", s.SessionID(),
		"came_online", cameOnline,
	)

	go s.writePump()

	s.readPump(inboundHandler{
		events:   router,
		selfEcho: cfg.SelfEcho,
	}, cfg.MaxMessageBytes)

	s.close()

	wentOffline := announceOffline(presence, router, user.ID, s.SessionID())

	zap.S().Infow("realtime, session closed",
		"user_id", user.ID.Hex(),
		"session_id", s.SessionID(),
		"went_offline", wentOffline,
	)
}
