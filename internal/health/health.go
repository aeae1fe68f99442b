package health

import (
	"context"
	"errors"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/internal/global"
)

var errMQDisconnected = errors.New("mq disconnected")

func New(gCtx global.Context) <-chan struct{} {
	done := make(chan struct{})

	srv := fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			defer func() {
				if err := recover(); err != nil {
					zap.S().Errorw("panic in health",
						"panic", err,
					)
				}
			}()

			var down error

			if gCtx.Inst().Mongo != nil {
				lCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
				if err := gCtx.Inst().Mongo.Ping(lCtx); err != nil {
					down = multierr.Append(down, err)
					zap.S().Warnw("mongo is not responding",
						"error", err,
					)
				}
				cancel()
			}

			if gCtx.Inst().Redis != nil {
				lCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
				if err := gCtx.Inst().Redis.Ping(lCtx); err != nil {
					down = multierr.Append(down, err)
					zap.S().Warnw("redis is not responding",
						"error", err,
					)
				}
				cancel()
			}

			if gCtx.Inst().MQ != nil && !gCtx.Inst().MQ.Connected() {
				down = multierr.Append(down, errMQDisconnected)
				zap.S().Warnw("mq is not connected")
			}

			if gCtx.Inst().S3 != nil {
				lCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
				if _, err := gCtx.Inst().S3.ListBuckets(lCtx); err != nil {
					down = multierr.Append(down, err)
					zap.S().Warnw("s3 is not responding",
						"error", err,
					)
				}
				cancel()
			}

			if down != nil {
				ctx.SetStatusCode(500)
			}
		},
	}

	go func() {
		defer close(done)
		zap.S().Infow("Health enabled",
			"bind", gCtx.Config().Health.Bind,
		)
		if err := srv.ListenAndServe(gCtx.Config().Health.Bind); err != nil {
			zap.S().Fatalw("failed to bind health",
				"error", err,
			)
		}
	}()

	go func() {
		<-gCtx.Done()
		_ = srv.Shutdown()
	}()

	return done
}
