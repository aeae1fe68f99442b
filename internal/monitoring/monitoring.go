package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/internal/global"
)

func New(gCtx global.Context) <-chan struct{} {
	r := prometheus.NewRegistry()
	gCtx.Inst().Prometheus.Register(r)

	handler := promhttp.HandlerFor(r, promhttp.HandlerOpts{
		Registry:          r,
		EnableOpenMetrics: true,
	})

	server := fasthttp.Server{
		Name:             "chat-monitoring",
		Handler:          fasthttpadaptor.NewFastHTTPHandler(handler),
		GetOnly:          true,
		DisableKeepalive: true,
		CloseOnShutdown:  true,
	}

	done := make(chan struct{})

	go func() {
		defer close(done)
		zap.S().Infow("monitoring enabled",
			"bind", gCtx.Config().Monitoring.Bind,
		)

		if err := server.ListenAndServe(gCtx.Config().Monitoring.Bind); err != nil {
			zap.S().Fatalw("failed to bind monitoring",
				"error", err,
			)
		}
	}()

	go func() {
		<-gCtx.Done()

		_ = server.Shutdown()
	}()

	return done
}
