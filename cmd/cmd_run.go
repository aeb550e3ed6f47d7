package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/internal/config"
	"github.com/tickr-network/tickr/modules/marketplace"
	marketplaceapi "github.com/tickr-network/tickr/modules/marketplace/api"
	marketplaceusecase "github.com/tickr-network/tickr/modules/marketplace/usecase"
	"github.com/tickr-network/tickr/pkg/automaxprocs"
	"github.com/tickr-network/tickr/pkg/errorhandler"
	"github.com/tickr-network/tickr/pkg/logger"
	"github.com/tickr-network/tickr/pkg/logger/slogx"
)

// Register Modules
var Modules = do.Package(
	do.LazyNamed("marketplace", marketplace.New),
)

func NewRunCommand() *cobra.Command {
	// Create command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start tickr service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := automaxprocs.Init(); err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			return runHandler(cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.Bool("api-only", false, "Run only API server")
	flags.String("modules", "", "Enable specific modules to run. E.g. `marketplace`")

	// Bind flags to configuration
	config.BindPFlag("api_only", flags.Lookup("api-only"))
	config.BindPFlag("enable_modules", flags.Lookup("modules"))

	return runCmd
}

const (
	shutdownTimeout = 60 * time.Second
)

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := do.New(Modules)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		app := fiber.New(fiber.Config{
			AppName:      "Tickr",
			ErrorHandler: errorhandler.NewHTTPErrorHandler(),
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024) // bufLen = 1024
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", slogx.Any("panic", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.SendStatus(http.StatusOK))
		})

		return app, nil
	})

	// Initialize worker context to separate worker's lifecycle from main process
	ctxWorker, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	// Run modules
	{
		modules := lo.Uniq(conf.EnableModules)
		modules = lo.Map(modules, func(item string, _ int) string { return strings.TrimSpace(item) })
		modules = lo.Filter(modules, func(item string, _ int) bool { return item != "" })
		for _, moduleName := range modules {
			ctx := logger.WithContext(ctxWorker, slogx.String("module", moduleName))

			module, err := do.InvokeNamed[*marketplace.Module](injector, moduleName)
			if err != nil {
				if errors.Is(err, do.ErrServiceNotFound) {
					return errors.Errorf("Module %q is not supported", moduleName)
				}
				return errors.Wrapf(err, "can't init module %q", moduleName)
			}

			// Mount API
			apiHandlers := lo.Uniq(module.Config.APIHandlers)
			for _, handler := range apiHandlers {
				switch handler {
				case "http":
					httpServer := do.MustInvoke[*fiber.App](injector)
					moduleUsecase := marketplaceusecase.New(module.DataGateway)
					httpHandler := marketplaceapi.NewHTTPHandler(moduleUsecase, module.Processor, []byte(module.Config.EntryPassSecret))
					if err := httpHandler.Mount(httpServer); err != nil {
						return errors.Wrap(err, "can't mount Marketplace API")
					}
					logger.InfoContext(ctx, "Mounted HTTP handler")
				default:
					return errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
				}
			}

			// Run metadata sync worker
			if !conf.APIOnly && !module.Config.MetadataSync.Disabled {
				go func() {
					// stop main process if worker stopped
					defer stop()

					logger.InfoContext(ctx, "Starting metadata sync worker")
					if err := module.Worker.Run(ctx); err != nil {
						logger.PanicContext(ctx, "Something went wrong, error during running worker", slogx.Error(err))
					}
				}()
			}
		}
	}

	// Run API server
	httpServer := do.MustInvoke[*fiber.App](injector)
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	// Stop application if worker context is done
	go func() {
		<-ctxWorker.Done()
		defer stop()

		logger.InfoContext(ctx, "Tickr worker is stopped. Stopping application...")
	}()

	logger.InfoContext(ctxWorker, "Tickr started")

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}

	return nil
}
