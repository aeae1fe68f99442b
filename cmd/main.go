package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/bugsnag/panicwrap"
	"go.uber.org/zap"

	"github.com/harshsahu0030/chat-app-backend/data/model"
	"github.com/harshsahu0030/chat-app-backend/data/mutate"
	"github.com/harshsahu0030/chat-app-backend/data/query"
	"github.com/harshsahu0030/chat-app-backend/internal/api/realtime"
	"github.com/harshsahu0030/chat-app-backend/internal/configure"
	"github.com/harshsahu0030/chat-app-backend/internal/global"
	"github.com/harshsahu0030/chat-app-backend/internal/health"
	"github.com/harshsahu0030/chat-app-backend/internal/mail"
	"github.com/harshsahu0030/chat-app-backend/internal/monitoring"
	"github.com/harshsahu0030/chat-app-backend/internal/pprof"
	"github.com/harshsahu0030/chat-app-backend/internal/rest"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/auth"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/delivery"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/events"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/limiter"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mongo"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/mq"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/presence"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/prometheus"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/redis"
	"github.com/harshsahu0030/chat-app-backend/internal/svc/s3"
)

var (
	Version = "development"
	Unix    = ""
	Time    = "unknown"
	User    = "unknown"
)

func init() {
	debug.SetGCPercent(2000)

	if i, err := strconv.Atoi(Unix); err == nil {
		Time = time.Unix(int64(i), 0).Format(time.RFC3339)
	}
}

func main() {
	config := configure.New()

	exitStatus, err := panicwrap.BasicWrap(func(s string) {
		zap.S().Errorw("panic detected",
			"panic", s,
		)
	})
	if err != nil {
		zap.S().Errorw("failed to setup panic handler",
			"error", err,
		)
		os.Exit(2)
	}

	if exitStatus >= 0 {
		os.Exit(exitStatus)
	}

	if !config.NoHeader {
		zap.S().Info("Chat App Backend")
		zap.S().Infof("Version: %s", Version)
		zap.S().Infof("build.Time: %s", Time)
		zap.S().Infof("build.User: %s", User)
	}

	zap.S().Debugf("MaxProcs: %d", runtime.GOMAXPROCS(0))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	gCtx, cancel := global.WithCancel(global.New(context.Background(), config))

	{
		gCtx.Inst().Mongo, err = mongo.New(gCtx, mongo.Options{
			URI:      config.Mongo.URI,
			Username: config.Mongo.Username,
			Password: config.Mongo.Password,
			DB:       config.Mongo.DB,
			Direct:   config.Mongo.Direct,
		})
		if err != nil {
			zap.S().Fatalw("failed to setup mongo handler",
				"error", err,
			)
		}
	}

	{
		gCtx.Inst().Redis, err = redis.New(gCtx, redis.Options{
			Username:   config.Redis.Username,
			Password:   config.Redis.Password,
			Database:   config.Redis.Database,
			Sentinel:   config.Redis.Sentinel,
			Addresses:  config.Redis.Addresses,
			MasterName: config.Redis.MasterName,
		})
		if err != nil {
			zap.S().Fatalw("failed to setup redis handler",
				"error", err,
			)
		}

		gCtx.Inst().Limiter, err = limiter.New(gCtx, gCtx.Inst().Redis)
		if err != nil {
			zap.S().Fatalw("failed to setup rate limiter",
				"error", err,
			)
		}
	}

	if !config.Nats.MailDisabled {
		gCtx.Inst().MQ, err = mq.New(mq.Options{
			URI:     config.Nats.URI,
			Subject: config.Nats.MailSubject,
			Queue:   config.Nats.MailQueue,
		})
		if err != nil {
			zap.S().Fatalw("failed to setup nats handler",
				"error", err,
			)
		}
	}

	if config.S3.Enabled {
		gCtx.Inst().S3, err = s3.New(gCtx, s3.Options{
			Region:      config.S3.Region,
			Endpoint:    config.S3.Endpoint,
			AccessToken: config.S3.AccessToken,
			SecretKey:   config.S3.SecretKey,
			Namespace:   config.S3.Namespace,
		})
		if err != nil {
			zap.S().Fatalw("failed to setup s3 handler",
				"error", err,
			)
		}
	}

	{
		gCtx.Inst().Prometheus = prometheus.New(prometheus.Options{
			Labels: config.Monitoring.Labels.ToPrometheus(),
		})
	}

	{
		cdn := ""
		if config.S3.Enabled && config.S3.Endpoint != "" {
			cdn = config.S3.Endpoint + "/" + config.S3.PublicBucket
		}

		gCtx.Inst().Modelizer = model.NewInstance(model.ModelInstanceOptions{
			CDN:     cdn,
			Website: config.WebsiteURL,
		})
	}

	{
		gCtx.Inst().Query = query.New(gCtx.Inst().Mongo, gCtx.Inst().Redis)
		gCtx.Inst().Mutate = mutate.New(mutate.InstanceOptions{
			Mongo:      gCtx.Inst().Mongo,
			Redis:      gCtx.Inst().Redis,
			Prometheus: gCtx.Inst().Prometheus,
			Cache:      gCtx.Inst().Query,
		})
	}

	{
		gCtx.Inst().Auth = auth.New(auth.AuthorizerOptions{
			JWTSecret: config.Credentials.JWTSecret,
			Domain:    config.Http.Cookie.Domain,
			Secure:    config.Http.Cookie.Secure,
			Query:     gCtx.Inst().Query,
		})
	}

	{
		gCtx.Inst().Presence = presence.New(presence.Options{
			Prometheus: gCtx.Inst().Prometheus,
		})
		gCtx.Inst().Events = events.New(events.Options{
			Presence:   gCtx.Inst().Presence,
			Prometheus: gCtx.Inst().Prometheus,
		})
		gCtx.Inst().Delivery = delivery.New(delivery.Options{
			Events:    gCtx.Inst().Events,
			Query:     gCtx.Inst().Query,
			Mutate:    gCtx.Inst().Mutate,
			Modelizer: gCtx.Inst().Modelizer,
		})
	}

	wg := sync.WaitGroup{}

	if gCtx.Config().Health.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-health.New(gCtx)
		}()
	}

	if gCtx.Config().Monitoring.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-monitoring.New(gCtx)
		}()
	}

	if gCtx.Config().PProf.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-pprof.New(gCtx)
		}()
	}

	if gCtx.Inst().MQ != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-mail.New(gCtx, nil)
		}()
	}

	done := make(chan struct{})
	go func() {
		<-sig
		cancel()
		go func() {
			select {
			case <-time.After(time.Minute):
			case <-sig:
			}
			zap.S().Fatal("force shutdown")
		}()

		zap.S().Info("shutting down")

		wg.Wait()

		close(done)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := rest.New(gCtx); err != nil {
			zap.S().Fatalw("rest failed",
				"error", err,
			)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := realtime.New(gCtx); err != nil {
			zap.S().Fatalw("realtime failed",
				"error", err,
			)
		}
	}()

	zap.S().Info("running")

	<-done

	zap.S().Info("shutdown")
	os.Exit(0)
}
