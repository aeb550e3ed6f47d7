package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

const selectEvent = `
	SELECT address, name, category, uri, city, venue, organizer, event_date, event_time,
		capacity, tickets_sold, is_transferable, authority, created_at
	FROM marketplace_events`

func (r *Repository) GetEvent(ctx context.Context, addr common.Address) (*entity.Event, error) {
	row := r.queryable().QueryRow(ctx, selectEvent+` WHERE address = $1`+r.lockSuffix(), addr[:])
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "event %s", addr)
		}
		return nil, errors.Wrap(err, "failed to get event")
	}
	return event, nil
}

func (r *Repository) GetEvents(ctx context.Context, limit int32, offset int32) ([]*entity.Event, error) {
	rows, err := r.queryable().Query(ctx, selectEvent+`
		ORDER BY created_at DESC, address DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events")
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *Repository) CreateEvent(ctx context.Context, event entity.Event) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_events (address, name, category, uri, city, venue, organizer,
			event_date, event_time, capacity, tickets_sold, is_transferable, authority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())`,
		event.Address[:], event.Name, event.Category, event.URI, event.City, event.Venue,
		event.Organizer, event.Date, event.Time, int64(event.Capacity), int64(event.TicketsSold),
		event.IsTransferable, event.Authority[:],
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.Duplicate, "event %s", event.Address)
		}
		return errors.Wrap(err, "failed to create event")
	}
	return nil
}

func (r *Repository) UpdateEventTicketsSold(ctx context.Context, addr common.Address, ticketsSold uint32) error {
	tag, err := r.queryable().Exec(ctx, `
		UPDATE marketplace_events SET tickets_sold = $2 WHERE address = $1`,
		addr[:], int64(ticketsSold),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update tickets sold")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.NotFound, "event %s", addr)
	}
	return nil
}

func (r *Repository) GetEventMetadata(ctx context.Context, event common.Address) (*entity.EventMetadata, error) {
	row := r.queryable().QueryRow(ctx, `
		SELECT event, payload, fetched_at
		FROM marketplace_event_metadata
		WHERE event = $1`,
		event[:],
	)
	var (
		rawEvent []byte
		metadata entity.EventMetadata
	)
	if err := row.Scan(&rawEvent, &metadata.Payload, &metadata.FetchedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "metadata for event %s", event)
		}
		return nil, errors.Wrap(err, "failed to get event metadata")
	}
	addr, err := addressFromBytes(rawEvent)
	if err != nil {
		return nil, errors.Wrap(err, "invalid metadata event address")
	}
	metadata.Event = addr
	return &metadata, nil
}

func (r *Repository) GetEventsWithStaleMetadata(ctx context.Context, staleBefore time.Time, limit int32) ([]*entity.Event, error) {
	rows, err := r.queryable().Query(ctx, selectEvent+` e
		WHERE e.uri <> '' AND NOT EXISTS (
			SELECT 1 FROM marketplace_event_metadata m
			WHERE m.event = e.address AND m.fetched_at >= $1
		)
		ORDER BY e.created_at ASC
		LIMIT $2`,
		staleBefore, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events with stale metadata")
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *Repository) UpsertEventMetadata(ctx context.Context, metadata entity.EventMetadata) error {
	fetchedAt := metadata.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_event_metadata (event, payload, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event) DO UPDATE SET payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at`,
		metadata.Event[:], metadata.Payload, fetchedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to upsert event metadata")
	}
	return nil
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	var (
		rawAddress   []byte
		rawAuthority []byte
		capacity     int64
		ticketsSold  int64
		event        entity.Event
	)
	err := row.Scan(&rawAddress, &event.Name, &event.Category, &event.URI, &event.City,
		&event.Venue, &event.Organizer, &event.Date, &event.Time, &capacity, &ticketsSold,
		&event.IsTransferable, &rawAuthority, &event.CreatedAt)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	address, err := addressFromBytes(rawAddress)
	if err != nil {
		return nil, errors.Wrap(err, "invalid event address")
	}
	authority, err := addressFromBytes(rawAuthority)
	if err != nil {
		return nil, errors.Wrap(err, "invalid event authority")
	}
	event.Address = address
	event.Authority = authority
	event.Capacity = uint32(capacity)
	event.TicketsSold = uint32(ticketsSold)
	return &event, nil
}

func collectEvents(rows pgx.Rows) ([]*entity.Event, error) {
	events := make([]*entity.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan event")
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate events")
	}
	return events, nil
}
