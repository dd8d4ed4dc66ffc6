package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"date-journal-backend/internal/events"
	"date-journal-backend/internal/handlers"
	"date-journal-backend/internal/jobs"
	"date-journal-backend/internal/repository"
	"date-journal-backend/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, the live feed and the periodic jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		anniversary, err := cfg.Relationship.AnniversaryDate()
		if err != nil {
			return err
		}
		loc, err := cfg.Relationship.Location()
		if err != nil {
			return err
		}

		store, err := newMediaStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to create media store: %w", err)
		}
		engine, err := newEngine(ctx, cfg, db)
		if err != nil {
			return err
		}

		// Initialize repositories
		dateRepo := repository.NewDateRepository(db)
		invitationRepo := repository.NewInvitationRepository(db)
		wishlistRepo := repository.NewWishlistRepository(db)
		placeRepo := repository.NewPlaceRepository(db)
		tokenRepo := repository.NewTokenRepository(db)
		milestoneRepo := repository.NewMilestoneRepository(db)

		bus := events.NewBus()
		hub := services.NewWSHub()
		bus.Subscribe("notifications", engine.HandleChange, events.Dates, events.Invitations)
		bus.Subscribe("live-feed", hub.HandleChange)

		// Initialize handlers
		router := handlers.NewRouter(handlers.Handlers{
			Dates:       handlers.NewDateHandler(services.NewDateService(dateRepo, store, bus), cfg.Media.MaxUploadMiB<<20),
			Invitations: handlers.NewInvitationHandler(services.NewInvitationService(invitationRepo, bus, loc)),
			Wishlist:    handlers.NewWishlistHandler(services.NewWishlistService(wishlistRepo, bus)),
			Places:      handlers.NewPlaceHandler(services.NewPlaceService(placeRepo, bus)),
			Tokens:      handlers.NewTokenHandler(services.NewTokenService(tokenRepo)),
			Stats:       handlers.NewStatsHandler(services.NewStatsService(dateRepo, milestoneRepo, anniversary)),
			WebSocket:   handlers.NewWebSocketHandler(hub),
		})

		srv := &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			log.Info().
				Str("host", cfg.Server.Host).
				Int("port", cfg.Server.Port).
				Msg("Starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			return jobs.NewScheduler(engineJobs(cfg, engine)...).Run(gctx)
		})

		g.Go(func() error {
			<-gctx.Done()
			log.Info().Msg("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Server forced to shutdown")
			}
			// hijacked websocket connections are not tracked by Shutdown
			hub.Close()
			return nil
		})

		err = g.Wait()

		// let in-flight notifications finish before the pool closes
		bus.Close()
		log.Info().Msg("Server exited")
		return err
	},
}
