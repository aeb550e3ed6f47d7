package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

const selectTicket = `
	SELECT address, event, owner, serial, transferable, redeemed, created_at
	FROM marketplace_tickets`

func (r *Repository) GetTicket(ctx context.Context, addr common.Address) (*entity.Ticket, error) {
	row := r.queryable().QueryRow(ctx, selectTicket+` WHERE address = $1`+r.lockSuffix(), addr[:])
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "ticket %s", addr)
		}
		return nil, errors.Wrap(err, "failed to get ticket")
	}
	return ticket, nil
}

func (r *Repository) GetTicketsByEvent(ctx context.Context, event common.Address, limit int32, offset int32) ([]*entity.Ticket, error) {
	rows, err := r.queryable().Query(ctx, selectTicket+`
		WHERE event = $1
		ORDER BY serial ASC
		LIMIT $2 OFFSET $3`,
		event[:], limit, offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tickets by event")
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *Repository) GetTicketsByOwner(ctx context.Context, owner common.Address) ([]*entity.Ticket, error) {
	rows, err := r.queryable().Query(ctx, selectTicket+`
		WHERE owner = $1
		ORDER BY created_at ASC, serial ASC`,
		owner[:],
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tickets by owner")
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *Repository) CreateTicket(ctx context.Context, ticket entity.Ticket) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_tickets (address, event, owner, serial, transferable, redeemed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		ticket.Address[:], ticket.Event[:], ticket.Owner[:], int64(ticket.Serial),
		ticket.Transferable, ticket.Redeemed,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.Duplicate, "ticket %s", ticket.Address)
		}
		return errors.Wrap(err, "failed to create ticket")
	}
	return nil
}

func (r *Repository) UpdateTicketOwner(ctx context.Context, addr common.Address, owner common.Address) error {
	tag, err := r.queryable().Exec(ctx, `
		UPDATE marketplace_tickets SET owner = $2 WHERE address = $1`,
		addr[:], owner[:],
	)
	if err != nil {
		return errors.Wrap(err, "failed to update ticket owner")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.NotFound, "ticket %s", addr)
	}
	return nil
}

func (r *Repository) SetTicketRedeemed(ctx context.Context, addr common.Address) error {
	tag, err := r.queryable().Exec(ctx, `
		UPDATE marketplace_tickets SET redeemed = TRUE WHERE address = $1`,
		addr[:],
	)
	if err != nil {
		return errors.Wrap(err, "failed to set ticket redeemed")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.NotFound, "ticket %s", addr)
	}
	return nil
}

const selectListing = `
	SELECT address, bump, marketplace, ticket, seller, price, created_at
	FROM marketplace_listings`

func (r *Repository) GetListing(ctx context.Context, addr common.Address) (*entity.Listing, error) {
	row := r.queryable().QueryRow(ctx, selectListing+` WHERE address = $1`+r.lockSuffix(), addr[:])
	listing, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "listing %s", addr)
		}
		return nil, errors.Wrap(err, "failed to get listing")
	}
	return listing, nil
}

func (r *Repository) GetListings(ctx context.Context, params datagateway.GetListingsParams) ([]*entity.Listing, error) {
	rows, err := r.queryable().Query(ctx, `
		SELECT l.address, l.bump, l.marketplace, l.ticket, l.seller, l.price, l.created_at
		FROM marketplace_listings l
		JOIN marketplace_tickets t ON t.address = l.ticket
		WHERE ($1::bytea IS NULL OR l.marketplace = $1)
			AND ($2::bytea IS NULL OR t.event = $2)
		ORDER BY l.created_at ASC, l.address ASC
		LIMIT $3 OFFSET $4`,
		nullableAddress(params.Marketplace), nullableAddress(params.Event), params.Limit, params.Offset,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query listings")
	}
	defer rows.Close()
	listings := make([]*entity.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan listing")
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate listings")
	}
	return listings, nil
}

func (r *Repository) CreateListing(ctx context.Context, listing entity.Listing) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_listings (address, bump, marketplace, ticket, seller, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		listing.Address[:], int16(listing.Bump), listing.Marketplace[:], listing.Ticket[:],
		listing.Seller[:], numericFromUint64(listing.Price),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.Duplicate, "listing %s", listing.Address)
		}
		return errors.Wrap(err, "failed to create listing")
	}
	return nil
}

func (r *Repository) DeleteListing(ctx context.Context, addr common.Address) error {
	tag, err := r.queryable().Exec(ctx, `
		DELETE FROM marketplace_listings WHERE address = $1`,
		addr[:],
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete listing")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.NotFound, "listing %s", addr)
	}
	// the escrow account closes together with the record
	if _, err := r.queryable().Exec(ctx, `
		DELETE FROM marketplace_accounts WHERE address = $1`,
		addr[:],
	); err != nil {
		return errors.Wrap(err, "failed to delete listing account")
	}
	return nil
}

func (r *Repository) GetRewardBalance(ctx context.Context, mint, owner common.Address) (uint64, error) {
	row := r.queryable().QueryRow(ctx, `
		SELECT amount FROM marketplace_reward_balances
		WHERE mint = $1 AND owner = $2`,
		mint[:], owner[:],
	)
	var amount pgtype.Numeric
	if err := row.Scan(&amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to get reward balance")
	}
	value, err := uint64FromNumeric(amount)
	if err != nil {
		return 0, errors.Wrap(err, "invalid reward balance")
	}
	return value, nil
}

func (r *Repository) AddRewardBalance(ctx context.Context, mint, owner common.Address, amount uint64) error {
	_, err := r.queryable().Exec(ctx, `
		INSERT INTO marketplace_reward_balances (mint, owner, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (mint, owner) DO UPDATE SET amount = marketplace_reward_balances.amount + EXCLUDED.amount`,
		mint[:], owner[:], numericFromUint64(amount),
	)
	if err != nil {
		return errors.Wrap(err, "failed to add reward balance")
	}
	return nil
}

// nullableAddress passes a zero address as SQL NULL so the filter collapses
// to a no-op.
func nullableAddress(addr common.Address) []byte {
	if addr.IsZero() {
		return nil
	}
	return addr[:]
}

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var (
		rawAddress []byte
		rawEvent   []byte
		rawOwner   []byte
		serial     int64
		ticket     entity.Ticket
	)
	err := row.Scan(&rawAddress, &rawEvent, &rawOwner, &serial, &ticket.Transferable,
		&ticket.Redeemed, &ticket.CreatedAt)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, field := range []struct {
		raw []byte
		dst *common.Address
	}{
		{rawAddress, &ticket.Address},
		{rawEvent, &ticket.Event},
		{rawOwner, &ticket.Owner},
	} {
		addr, err := addressFromBytes(field.raw)
		if err != nil {
			return nil, errors.Wrap(err, "invalid ticket address field")
		}
		*field.dst = addr
	}
	ticket.Serial = uint32(serial)
	return &ticket, nil
}

func scanListing(row pgx.Row) (*entity.Listing, error) {
	var (
		rawAddress     []byte
		bump           int16
		rawMarketplace []byte
		rawTicket      []byte
		rawSeller      []byte
		price          pgtype.Numeric
		listing        entity.Listing
	)
	err := row.Scan(&rawAddress, &bump, &rawMarketplace, &rawTicket, &rawSeller, &price, &listing.CreatedAt)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for _, field := range []struct {
		raw []byte
		dst *common.Address
	}{
		{rawAddress, &listing.Address},
		{rawMarketplace, &listing.Marketplace},
		{rawTicket, &listing.Ticket},
		{rawSeller, &listing.Seller},
	} {
		addr, err := addressFromBytes(field.raw)
		if err != nil {
			return nil, errors.Wrap(err, "invalid listing address field")
		}
		*field.dst = addr
	}
	value, err := uint64FromNumeric(price)
	if err != nil {
		return nil, errors.Wrap(err, "invalid listing price")
	}
	listing.Bump = uint8(bump)
	listing.Price = value
	return &listing, nil
}

func collectTickets(rows pgx.Rows) ([]*entity.Ticket, error) {
	tickets := make([]*entity.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan ticket")
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate tickets")
	}
	return tickets, nil
}
