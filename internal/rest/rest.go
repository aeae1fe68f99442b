package rest

import (
	"fmt"
	"net"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/internal/global"
	v1 "github.com/harshsahu0030/chat-app-backend/internal/rest/v1"
)

type HttpServer struct {
	listener net.Listener
	router   *router.Router
}

func New(gCtx global.Context) error {
	var err error

	port := gCtx.Config().Http.Ports.REST
	if port == 0 {
		port = 80
	}

	listenType := gCtx.Config().Http.Type
	if listenType == "" {
		listenType = "tcp"
	}

	s := HttpServer{}

	s.listener, err = net.Listen(listenType, fmt.Sprintf("%s:%d", gCtx.Config().Http.Addr, port))
	if err != nil {
		return err
	}
	s.router = router.New()

	s.SetupHandlers()
	s.V1(gCtx)

	srv := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			defer func() {
				if err := recover(); err != nil {
					zap.S().Errorw("panic in rest request handler",
						"panic", err,
						"status", ctx.Response.StatusCode(),
						"duration", time.Since(start)/time.Millisecond,
						"method", string(ctx.Method()),
						"path", string(ctx.Path()),
						"ip", ctx.RemoteIP().String(),
					)
				} else {
					zap.S().Infow("rest request",
						"status", ctx.Response.StatusCode(),
						"duration", time.Since(start)/time.Millisecond,
						"method", string(ctx.Method()),
						"path", string(ctx.Path()),
						"ip", ctx.RemoteIP().String(),
					)
				}
			}()

			ctx.Response.Header.Set("Access-Control-Allow-Credentials", "true")
			ctx.Response.Header.Set("Access-Control-Allow-Headers", "*")
			ctx.Response.Header.Set("Access-Control-Allow-Methods", "*")
			ctx.Response.Header.Set("Access-Control-Allow-Origin", gCtx.Config().WebsiteURL)
			if ctx.IsOptions() {
				return
			}

			// Routing
			ctx.Response.Header.Set("Content-Type", "application/json") // default to JSON
			s.router.Handler(ctx)
		},
		ReadTimeout:                  time.Second * 600,
		IdleTimeout:                  time.Second * 10,
		DisablePreParseMultipartForm: true,
		LogAllErrors:                 true,
		StreamRequestBody:            true,
		CloseOnShutdown:              true,
	}

	// Gracefully exit when the global context is canceled
	go func() {
		<-gCtx.Done()
		_ = srv.Shutdown()
	}()

	return srv.Serve(s.listener)
}

func (s *HttpServer) V1(gCtx global.Context) {
	s.traverseRoutes(v1.API(gCtx, s.router), s.router)
}
