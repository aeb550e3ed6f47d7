package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/modules/marketplace/config"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
	"github.com/tickr-network/tickr/pkg/httpclient"
	"github.com/tickr-network/tickr/pkg/logger"
	"github.com/tickr-network/tickr/pkg/logger/slogx"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSyncInterval    = time.Minute
	defaultStaleAfter      = time.Hour
	defaultSyncBatchSize   = 100
	defaultSyncConcurrency = 4
)

// MetadataSyncWorker mirrors the off-chain metadata documents event URIs
// point at into the local cache, so API reads never block on third-party
// hosts.
type MetadataSyncWorker struct {
	marketplaceDg datagateway.MarketplaceDataGateway
	conf          config.MetadataSync
}

func NewMetadataSyncWorker(marketplaceDg datagateway.MarketplaceDataGateway, conf config.MetadataSync) *MetadataSyncWorker {
	if conf.Interval <= 0 {
		conf.Interval = defaultSyncInterval
	}
	if conf.StaleAfter <= 0 {
		conf.StaleAfter = defaultStaleAfter
	}
	if conf.BatchSize <= 0 {
		conf.BatchSize = defaultSyncBatchSize
	}
	if conf.Concurrency <= 0 {
		conf.Concurrency = defaultSyncConcurrency
	}
	return &MetadataSyncWorker{
		marketplaceDg: marketplaceDg,
		conf:          conf,
	}
}

// Run loops until the context is canceled. Individual fetch failures are
// logged and retried on the next round; only datagateway failures stop the
// worker.
func (w *MetadataSyncWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.conf.Interval)
	defer ticker.Stop()

	for {
		if err := w.syncOnce(ctx); err != nil {
			return errors.Wrap(err, "metadata sync round failed")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *MetadataSyncWorker) syncOnce(ctx context.Context) error {
	staleBefore := time.Now().Add(-w.conf.StaleAfter)
	events, err := w.marketplaceDg.GetEventsWithStaleMetadata(ctx, staleBefore, w.conf.BatchSize)
	if err != nil {
		return errors.Wrap(err, "failed to list events with stale metadata")
	}
	if len(events) == 0 {
		return nil
	}

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(w.conf.Concurrency)
	for _, event := range events {
		event := event
		eg.Go(func() error {
			payload, err := w.fetch(ectx, event)
			if err != nil {
				logger.WarnContext(ectx, "failed to fetch event metadata",
					slogx.Stringer("event", event.Address),
					slogx.String("uri", event.URI),
					slogx.Error(err),
				)
				return nil
			}
			if err := w.marketplaceDg.UpsertEventMetadata(ectx, entity.EventMetadata{
				Event:     event.Address,
				Payload:   payload,
				FetchedAt: time.Now().UTC(),
			}); err != nil {
				return errors.Wrapf(err, "failed to cache metadata for event %s", event.Address)
			}
			return nil
		})
	}
	return errors.WithStack(eg.Wait())
}

func (w *MetadataSyncWorker) fetch(ctx context.Context, event *entity.Event) (json.RawMessage, error) {
	client, err := httpclient.New(event.URI, httpclient.Config{Debug: w.conf.Debug})
	if err != nil {
		return nil, errors.Wrap(err, "invalid metadata uri")
	}
	resp, err := client.Get(ctx, "", httpclient.RequestOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "metadata request failed")
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, errors.Errorf("metadata host returned status %d", resp.StatusCode())
	}
	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, errors.Wrap(err, "can't read metadata body")
	}
	if !json.Valid(body) {
		return nil, errors.New("metadata document is not valid json")
	}
	return json.RawMessage(body), nil
}
