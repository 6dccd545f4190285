package main

import (
	"os"

	"github.com/egresados/seguimiento-api/internal/pkg/logger"
	"github.com/egresados/seguimiento-api/internal/server"
)

// @title Seguimiento de Egresados API
// @version 1.0
// @description API for graduate tracking, workshops, surveys and reports.
// @description Every response uses the envelope {"success", "data", "error", "timestamp"}; payloads such as report rows are under "data".

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token issued by the auth provider

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
