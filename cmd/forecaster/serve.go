package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forecast-systemv1/config"
	"forecast-systemv1/internal/forecast"
	"forecast-systemv1/internal/gateway"
	"forecast-systemv1/internal/markethours"
	"forecast-systemv1/internal/metrics"
	"forecast-systemv1/internal/model"
	"forecast-systemv1/internal/notification"
	"forecast-systemv1/internal/predictor"
	redisstore "forecast-systemv1/internal/store/redis"
	sqlitestore "forecast-systemv1/internal/store/sqlite"

	goredis "github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

// multiNotifier fans one alert out to every configured backend.
type multiNotifier []notification.Notifier

func (m multiNotifier) Send(ctx context.Context, a notification.Alert) error {
	var firstErr error
	for _, n := range m {
		if err := n.Send(ctx, a); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve continuous forecasts over WebSocket and REST",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		params, err := config.LoadParams(cfg.ParamsPath)
		if err != nil {
			return err
		}

		store, err := sqlitestore.New(sqlitestore.Config{DBPath: cfg.SQLitePath})
		if err != nil {
			return err
		}
		defer store.Close()

		// Redis is optional: forecasts still reach the journal and the
		// gateway when it is down.
		var (
			publisher model.ForecastPublisher
			rdb       *goredis.Client
		)
		pub, err := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			slog.Warn("redis unavailable, continuing without stream publishing",
				slog.Any("err", err))
		} else {
			publisher = pub
			rdb = pub.Client()
			defer pub.Close()
		}

		var notifiers multiNotifier
		if cfg.WebhookURL != "" {
			notifiers = append(notifiers, notification.NewWebhookNotifier(cfg.WebhookURL))
		}
		if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
			notifiers = append(notifiers, notification.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
		}
		var notifier notification.Notifier
		if len(notifiers) > 0 {
			notifier = notifiers
		} else {
			notifier = notification.NewLogNotifier()
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		prom := metrics.NewMetrics()
		health := metrics.NewHealthStatus()
		health.StartLivenessChecker(ctx, rdb, store.DB(), 30*time.Second)

		metricsSrv := metrics.NewServer(cfg.MetricsAddr, health)
		metricsSrv.Start()

		hub := gateway.NewHub(store, prom)
		mux := http.NewServeMux()
		gateway.RegisterRoutes(mux, hub, cfg.Symbol, time.Now())
		gwSrv := &http.Server{Addr: cfg.GatewayAddr, Handler: mux}
		go func() {
			slog.Info("gateway listening", slog.String("addr", cfg.GatewayAddr))
			if err := gwSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("gateway server failed", slog.Any("err", err))
			}
		}()

		svc, err := forecast.New(forecast.Config{
			Symbol:    cfg.Symbol,
			Sentiment: params.DefaultSentiment,
			MacroRate: params.DefaultMacroRate,
			TimeSteps: params.TimeSteps,
		}, forecast.Deps{
			Journal:   store,
			Publisher: publisher,
			Notifier:  notifier,
			Metrics:   prom,
			Health:    health,
			BuildPredictor: predictor.Builder(predictor.Config{
				Epochs:        params.Epochs,
				LearningRate:  params.LearningRate,
				ProgressEvery: params.ProgressEvery,
			}),
		}, nil)
		if err != nil {
			return err
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			slog.Info("shutdown signal received")
			cancel()
		}()

		runOnce := func() {
			candles, err := store.ReadCandles(cfg.Symbol, cfg.HistoryLimit)
			if err != nil {
				slog.Error("read candles failed", slog.Any("err", err))
				return
			}
			prom.CandlesLoaded.Add(float64(len(candles)))

			f, err := svc.Run(ctx, candles)
			if err != nil {
				slog.Error("forecast run failed", slog.Any("err", err))
				return
			}
			hub.Publish(*f)
		}

		slog.Info("forecaster serving",
			slog.String("symbol", cfg.Symbol),
			slog.Duration("interval", cfg.ForecastInterval))

		runOnce()
		ticker := time.NewTicker(cfg.ForecastInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				gwSrv.Shutdown(shutdownCtx)
				metricsSrv.Stop(shutdownCtx)
				return nil
			case <-ticker.C:
				if cfg.MarketHoursOnly && !markethours.IsMarketOpen(time.Now()) {
					slog.Info("skipping run", slog.String("market", markethours.StatusString(time.Now())))
					continue
				}
				runOnce()
			}
		}
	},
}
