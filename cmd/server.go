package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"evault/handler"
	"evault/worker/accrual"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run evault api server and accrual worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		events := provideEventStore(database)
		snapshots := provideSnapshotStore(database)
		sys := provideSystem(ctx, events)

		svr := handler.New(sys, events, snapshots)

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			//hc
			mux.Mount("/hc", svr.HandleHC(rootCmd.Version))
		}

		{
			//metrics
			mux.Mount("/metrics", svr.HandleMetrics())
		}

		{
			//restful api
			mux.Mount("/api", svr.HandleRestAPI())
		}

		if accrualEnabled, _ := cmd.Flags().GetBool("accrual"); accrualEnabled {
			w, err := accrual.New(provideConfig(), sys, sys.Connector, snapshots)
			if err != nil {
				logrus.WithError(err).Fatal("accrual worker")
			}

			_ = w.Start()
			defer w.Stop()
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("accrual", true, "run the accrual worker in process")
}
