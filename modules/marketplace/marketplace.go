package marketplace

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/do/v2"
	"github.com/tickr-network/tickr/common/errs"
	internalconfig "github.com/tickr-network/tickr/internal/config"
	"github.com/tickr-network/tickr/internal/postgres"
	"github.com/tickr-network/tickr/modules/marketplace/config"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	marketplacememory "github.com/tickr-network/tickr/modules/marketplace/repository/memory"
	marketplacepostgres "github.com/tickr-network/tickr/modules/marketplace/repository/postgres"
)

// Module bundles the wired marketplace components. The HTTP surface is
// mounted by the caller so the handler package can depend on the processor.
type Module struct {
	Config      config.Config
	DataGateway datagateway.MarketplaceDataGateway
	Processor   *Processor
	Worker      *MetadataSyncWorker

	cleanupFuncs []func(context.Context) error
}

func New(injector do.Injector) (*Module, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[internalconfig.Config](injector)
	moduleConf := conf.Modules.Marketplace

	var marketplaceDg datagateway.MarketplaceDataGateway
	var cleanupFuncs []func(context.Context) error
	switch strings.ToLower(moduleConf.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, moduleConf.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for marketplace")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		marketplaceDg = marketplacepostgres.NewRepository(pg)
	case "memory":
		marketplaceDg = marketplacememory.NewRepository()
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for marketplace is not supported", moduleConf.Database)
	}

	module := &Module{
		Config:       moduleConf,
		DataGateway:  marketplaceDg,
		Processor:    NewProcessor(marketplaceDg),
		Worker:       NewMetadataSyncWorker(marketplaceDg, moduleConf.MetadataSync),
		cleanupFuncs: cleanupFuncs,
	}
	return module, nil
}

func (m *Module) Shutdown() error {
	ctx := context.Background()
	var errList []error
	for _, cleanup := range m.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.WithStack(errors.Join(errList...))
}
