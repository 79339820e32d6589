package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/skel/internal/config"
	"github.com/temirov/skel/internal/services/server"
	"github.com/temirov/skel/internal/utils"
)

const (
	serveUse              = "serve"
	serveShortDescription = "run the HTTP service"
	serveLongDescription  = `Serve the skeleton API: GET /healthz, GET /templates, GET /templates/{name},
POST /parse and POST /generate (returns a ZIP archive). A .env file in the working
directory is loaded first, and SKEL_SERVE_* variables override the serve configuration.`
	serveUsageExample = `  # Listen on all interfaces with a tighter limit
  skel serve --address 0.0.0.0:8080 --rate-limit 10 --rate-window 30s`

	addressFlagName           = "address"
	rateLimitFlagName         = "rate-limit"
	rateWindowFlagName        = "rate-window"
	addressFlagDescription    = "listen address"
	rateLimitFlagDescription  = "requests per client and window for /parse and /generate; negative disables"
	rateWindowFlagDescription = "rate limit window"

	defaultServeAddress = "127.0.0.1:8080"
	servingFormat       = "serving on http://%s\n"
	environmentLoaded   = "loaded environment file"
	errorRateWindow     = "invalid rate window %q: %w"
)

type serveFlags struct {
	address    string
	rateLimit  int
	rateWindow time.Duration
}

func newServeCommand(app *application) *cobra.Command {
	var flags serveFlags

	serveCommand := &cobra.Command{
		Use:     serveUse,
		Short:   serveShortDescription,
		Long:    serveLongDescription,
		Example: serveUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			serverConfig, configError := app.serverConfiguration(command, flags)
			if configError != nil {
				return configError
			}
			return server.NewServer(serverConfig).Run(command.Context(), func(address string) {
				fmt.Fprintf(app.stdout, servingFormat, address)
			})
		},
	}
	serveCommand.Flags().StringVar(&flags.address, addressFlagName, defaultServeAddress, addressFlagDescription)
	serveCommand.Flags().IntVar(&flags.rateLimit, rateLimitFlagName, 0, rateLimitFlagDescription)
	serveCommand.Flags().DurationVar(&flags.rateWindow, rateWindowFlagName, 0, rateWindowFlagDescription)
	return serveCommand
}

// serverConfiguration loads .env before the layered configuration so SKEL_* variables from it apply.
func (app *application) serverConfiguration(command *cobra.Command, flags serveFlags) (server.Config, error) {
	environmentPath := filepath.Join(app.workingDirectory, utils.DotEnvFileName)
	loaded, environmentError := config.LoadEnvironmentFile(environmentPath)
	if environmentError != nil {
		return server.Config{}, environmentError
	}
	if loaded {
		app.logger.Debug(environmentLoaded, zap.String("path", environmentPath))
	}
	configuration, configurationError := app.loadConfiguration()
	if configurationError != nil {
		return server.Config{}, configurationError
	}

	serverConfig := server.Config{
		Address:  resolveString(command, addressFlagName, flags.address, configuration.Serve.Address, defaultServeAddress),
		Registry: app.registry,
		Logger:   app.logger,
	}
	switch {
	case command.Flags().Changed(rateLimitFlagName):
		serverConfig.RateLimit = flags.rateLimit
	case configuration.Serve.RateLimit != nil:
		serverConfig.RateLimit = *configuration.Serve.RateLimit
	}
	switch {
	case command.Flags().Changed(rateWindowFlagName):
		serverConfig.RateWindow = flags.rateWindow
	case strings.TrimSpace(configuration.Serve.RateWindow) != utils.EmptyString:
		window, parseError := time.ParseDuration(strings.TrimSpace(configuration.Serve.RateWindow))
		if parseError != nil {
			return server.Config{}, fmt.Errorf(errorRateWindow, configuration.Serve.RateWindow, parseError)
		}
		serverConfig.RateWindow = window
	}
	return serverConfig, nil
}
