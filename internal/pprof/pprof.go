package pprof

import (
	"net/http"
	_ "net/http/pprof"

	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/internal/global"
)

func New(gCtx global.Context) <-chan struct{} {
	done := make(chan struct{})

	// The blank pprof import hangs its handlers off the default mux
	srv := http.Server{
		Addr:    gCtx.Config().PProf.Bind,
		Handler: http.DefaultServeMux,
	}

	go func() {
		defer close(done)
		zap.S().Infow("pprof enabled",
			"bind", gCtx.Config().PProf.Bind,
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalw("pprof failed to listen",
				"error", err,
			)
		}
	}()

	go func() {
		<-gCtx.Done()
		_ = srv.Close()
	}()

	return done
}
