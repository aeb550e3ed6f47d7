package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
	"golang.org/x/sync/errgroup"
)

func (u *Usecase) GetEvent(ctx context.Context, addr common.Address) (*entity.Event, error) {
	event, err := u.marketplaceDg.GetEvent(ctx, addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get event")
	}
	return event, nil
}

func (u *Usecase) GetEvents(ctx context.Context, limit, offset int32) ([]*entity.Event, error) {
	events, err := u.marketplaceDg.GetEvents(ctx, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events")
	}
	return events, nil
}

// GetEventBatch fetches the given events concurrently. The result preserves
// input order; addresses with no event are skipped in the output map.
func (u *Usecase) GetEventBatch(ctx context.Context, addrs []common.Address) (map[common.Address]*entity.Event, error) {
	results := make([]*entity.Event, len(addrs))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i, addr := range addrs {
		i, addr := i, addr
		eg.Go(func() error {
			event, err := u.marketplaceDg.GetEvent(ectx, addr)
			if err != nil {
				if errors.Is(err, errs.NotFound) {
					return nil
				}
				return errors.Wrapf(err, "failed to get event %s", addr)
			}
			results[i] = event
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}
	events := make(map[common.Address]*entity.Event, len(addrs))
	for _, event := range results {
		if event != nil {
			events[event.Address] = event
		}
	}
	return events, nil
}

func (u *Usecase) GetEventMetadata(ctx context.Context, event common.Address) (*entity.EventMetadata, error) {
	metadata, err := u.marketplaceDg.GetEventMetadata(ctx, event)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get event metadata")
	}
	return metadata, nil
}
