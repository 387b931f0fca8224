package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sneakerhead/internal/app"
	"sneakerhead/internal/database"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/services"
	"sneakerhead/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the order event consumer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := database.Close(db); err != nil {
					log.Warn("failed to close database", zap.Error(err))
				}
			}()
			if err := database.Migrate(db); err != nil {
				return err
			}

			var (
				mq        *rabbitmq.Client
				publisher services.EventPublisher
			)
			if cfg.MessagingEnabled() {
				mq, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange}, log)
				if err != nil {
					return err
				}
				defer func() {
					if err := mq.Close(); err != nil {
						log.Warn("failed to close rabbitmq client", zap.Error(err))
					}
				}()
				publisher = mq
			} else {
				log.Info("RABBITMQ_URL not set, order events are disabled")
			}

			server := app.New(cfg, db, publisher, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				log.Info("starting server", zap.String("addr", cfg.AppPort), zap.String("env", cfg.Env))
				if err := server.Listen(cfg.AppPort); err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info("shutting down server")
				return server.ShutdownWithTimeout(shutdownTimeout)
			})
			if mq != nil {
				g.Go(func() error {
					err := mq.Consume(gctx, app.OrderEventHandler(log))
					if errors.Is(err, rabbitmq.ErrDeliveriesClosed) && gctx.Err() != nil {
						return nil
					}
					return err
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}
			log.Info("server gracefully stopped")
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info("database migrated", zap.String("driver", cfg.DBDriver))
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Migrate(db); err != nil {
				return err
			}

			store := repositories.NewStore(db)
			auth := services.NewAuthService(store.Users, cfg.JWTSecret, cfg.SessionTTL, log)
			admin, err := auth.CreateAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			log.Info("admin created", zap.String("user_id", admin.ID), zap.String("email", admin.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&name, "name", "Administrator", "admin display name")
	cmd.Flags().StringVar(&password, "password", "", "admin password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
