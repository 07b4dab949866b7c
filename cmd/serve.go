package cmd

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interview API over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	generator, err := buildGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building the ai generator",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	service := interview.NewService(generator, logger)

	srv, err := server.New(config.Server.Listen, service, logger)
	if err != nil {
		logger.Fatal("starting the server", zap.Error(err))
	}

	logger.Info("serving the interview api",
		zap.String("address", srv.Addr()),
		zap.String("version", version),
	)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("serving", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")

	if err := srv.Stop(); err != nil {
		logger.Warn("stopping the server", zap.Error(err))
	}
}
