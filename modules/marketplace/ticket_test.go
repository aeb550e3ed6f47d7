package marketplace

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

// setupEvent provisions a manager-run event with the given capacity and
// returns the organizer and event addresses.
func setupEvent(t *testing.T, p *Processor, tag string, capacity uint32, transferable bool) (common.Address, common.Address) {
	t.Helper()
	organizer, _ := setupOrganizer(t, p, tag+"-organizer")
	params := testCreateEventParams(organizer, tag, capacity)
	params.Args.IsTransferable = transferable
	event, err := p.CreateEvent(context.Background(), params)
	require.NoError(t, err)
	return organizer, event.Address
}

func mintTicket(t *testing.T, p *Processor, event common.Address, recipient common.Address, tag string) *entity.Ticket {
	t.Helper()
	fund(t, p, recipient, 10*constants.RentExemptReserve)
	ticket, err := p.GenerateTicket(context.Background(), GenerateTicketParams{
		Event:         event,
		TicketAddress: testWallet("ticket-" + tag),
		Recipient:     recipient,
	})
	require.NoError(t, err)
	return ticket
}

func TestGenerateTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("serials run from one to capacity", func(t *testing.T) {
		p, dg := newTestProcessor()
		organizer, event := setupEvent(t, p, "gen-serials", 3, true)

		for i := 1; i <= 3; i++ {
			ticket, err := p.GenerateTicket(ctx, GenerateTicketParams{
				Event:         event,
				TicketAddress: testWallet(fmt.Sprintf("gen-serials-ticket-%d", i)),
				Recipient:     organizer,
			})
			require.NoError(t, err)
			assert.Equal(t, uint32(i), ticket.Serial)
		}

		stored, err := dg.GetEvent(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, uint32(3), stored.TicketsSold)
	})

	t.Run("minting past capacity changes nothing", func(t *testing.T) {
		p, dg := newTestProcessor()
		_, event := setupEvent(t, p, "gen-cap", 1, true)
		buyer := testWallet("gen-cap-buyer")
		fund(t, p, buyer, 10*constants.RentExemptReserve)

		_, err := p.GenerateTicket(ctx, GenerateTicketParams{
			Event:         event,
			TicketAddress: testWallet("gen-cap-ticket-1"),
			Recipient:     buyer,
		})
		require.NoError(t, err)

		payerBefore := balanceOf(t, dg, buyer)
		_, err = p.GenerateTicket(ctx, GenerateTicketParams{
			Event:         event,
			TicketAddress: testWallet("gen-cap-ticket-2"),
			Recipient:     buyer,
		})
		assert.ErrorIs(t, err, errs.CapacityExceeded)

		stored, err := dg.GetEvent(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), stored.TicketsSold)
		assert.Equal(t, payerBefore, balanceOf(t, dg, buyer))
		_, err = dg.GetAccount(ctx, testWallet("gen-cap-ticket-2"))
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("ticket inherits event transferability", func(t *testing.T) {
		p, _ := newTestProcessor()
		_, event := setupEvent(t, p, "gen-soulbound", 5, false)
		holder := testWallet("gen-soulbound-holder")

		ticket := mintTicket(t, p, event, holder, "gen-soulbound")
		assert.False(t, ticket.Transferable)
		assert.Equal(t, holder, ticket.Owner)
	})

	t.Run("rejects an unknown event", func(t *testing.T) {
		p, _ := newTestProcessor()
		recipient := testWallet("gen-unknown-recipient")
		fund(t, p, recipient, 10*constants.RentExemptReserve)

		_, err := p.GenerateTicket(ctx, GenerateTicketParams{
			Event:         testWallet("gen-no-such-event"),
			TicketAddress: testWallet("gen-unknown-ticket"),
			Recipient:     recipient,
		})
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("rejects a non-collection account as event", func(t *testing.T) {
		p, _ := newTestProcessor()
		wallet := testWallet("gen-wallet-as-event")
		fund(t, p, wallet, 10*constants.RentExemptReserve)

		_, err := p.GenerateTicket(ctx, GenerateTicketParams{
			Event:         wallet,
			TicketAddress: testWallet("gen-wallet-ticket"),
			Recipient:     wallet,
		})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
}

func TestRedeemTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("owner redeems once", func(t *testing.T) {
		p, dg := newTestProcessor()
		_, event := setupEvent(t, p, "redeem", 5, true)
		holder := testWallet("redeem-holder")
		ticket := mintTicket(t, p, event, holder, "redeem")

		redeemed, err := p.RedeemTicket(ctx, RedeemTicketParams{Ticket: ticket.Address, Owner: holder})
		require.NoError(t, err)
		assert.True(t, redeemed.Redeemed)

		stored, err := dg.GetTicket(ctx, ticket.Address)
		require.NoError(t, err)
		assert.True(t, stored.Redeemed)

		_, err = p.RedeemTicket(ctx, RedeemTicketParams{Ticket: ticket.Address, Owner: holder})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("only the owner redeems", func(t *testing.T) {
		p, _ := newTestProcessor()
		_, event := setupEvent(t, p, "redeem-auth", 5, true)
		holder := testWallet("redeem-auth-holder")
		ticket := mintTicket(t, p, event, holder, "redeem-auth")

		_, err := p.RedeemTicket(ctx, RedeemTicketParams{Ticket: ticket.Address, Owner: testWallet("redeem-auth-stranger")})
		assert.ErrorIs(t, err, errs.Unauthorized)
	})
}
