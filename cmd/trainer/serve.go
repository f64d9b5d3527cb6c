package main

import (
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/gmkornilov/bughouse-trainer/internal/api"
	"github.com/gmkornilov/bughouse-trainer/internal/dao"
	"github.com/gmkornilov/bughouse-trainer/internal/db"
	"github.com/gmkornilov/bughouse-trainer/internal/session"
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
	"github.com/spf13/cobra"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the trainer session over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		var repo dao.PuzzleRepository
		if cfg.StorageEnabled() {
			dbClient, err := db.NewDbClient(cfg)
			if err != nil {
				return err
			}
			defer dbClient.Close()
			repo = dao.NewPuzzleRepository(dbClient)
		} else {
			log.Info().Msg("MONGO_ADDRESS not set, puzzle sets are disabled")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := session.NewRunner(session.Options{
			ReplyDelay: cfg.Trainer.ReplyDelay,
			Rating:     cfg.Trainer.StartRating,
			Logger:     log,
		})
		go runner.Run(ctx)

		r := gin.Default()
		api.NewSessionApi(runner, puzgen.NewImporter(log), repo).Register(r)

		srv := &http.Server{Addr: cfg.ListenAddress(), Handler: r}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		log.Info().Str("addr", srv.Addr).Msg("serving")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}
