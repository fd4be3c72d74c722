package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/avmarkin/checkout-service/docs"
	"github.com/avmarkin/checkout-service/internal/app"
	"github.com/avmarkin/checkout-service/internal/config"
	"github.com/avmarkin/checkout-service/internal/events"
	"github.com/avmarkin/checkout-service/internal/handler"
	"github.com/avmarkin/checkout-service/internal/postgres"
	"github.com/avmarkin/checkout-service/internal/repo"
	"github.com/avmarkin/checkout-service/internal/service"
	"github.com/avmarkin/checkout-service/internal/stripe"
	"github.com/avmarkin/checkout-service/pkg/cache"
	"github.com/avmarkin/checkout-service/pkg/trm"

	"github.com/joho/godotenv"
)

// @title           Checkout Service API
// @version         1.0
// @description     Оформление заказа, оплата через hosted checkout и сверка вебхуков
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	orderRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	orderCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)

	gateway := stripe.NewClient(conf.Stripe)
	publisher := events.NewPublisher(logger, conf.Kafka)

	checkoutService := service.NewCheckoutService(logger, txManager, orderRepo, orderRepo, gateway, conf.Stripe.PublicBaseURL)
	reconcileService := service.NewReconcileService(logger, orderRepo, publisher, orderCache)
	orderService := service.NewOrderService(logger, orderRepo, orderCache)

	httpHandler := handler.NewHTTPHandler(logger, checkoutService, orderService)
	webhookHandler := handler.NewWebhookHandler(logger, conf.Stripe, reconcileService)

	handler.RegisterMetrics()

	app := app.New(logger, conf)

	app.SetHTTPHandlers(httpHandler, webhookHandler)
	app.SetStarters(orderCache)
	app.SetClosers(publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
