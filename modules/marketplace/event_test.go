package marketplace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
	"github.com/tickr-network/tickr/modules/marketplace/internal/entity"
)

// setupOrganizer registers a funded wallet as an active manager and returns
// it together with its manager record address.
func setupOrganizer(t *testing.T, p *Processor, tag string) (common.Address, common.Address) {
	t.Helper()
	organizer := testWallet(tag)
	fund(t, p, organizer, 100*constants.RentExemptReserve)
	manager, err := p.SetupManager(context.Background(), SetupManagerParams{Authority: organizer})
	require.NoError(t, err)
	return organizer, manager.Address
}

func testCreateEventParams(organizer common.Address, tag string, capacity uint32) CreateEventParams {
	return CreateEventParams{
		Args: CreateEventArgs{
			Name:           "Summer Fest " + tag,
			Category:       "music",
			URI:            "https://example.com/events/" + tag + ".json",
			City:           "Lisbon",
			Venue:          "Altice Arena",
			Organizer:      "Tickr Live",
			Date:           "2026-09-12",
			Time:           "20:00",
			Capacity:       capacity,
			IsTransferable: true,
		},
		EventAddress: testWallet("event-" + tag),
		Organizer:    organizer,
	}
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("manager creates an event", func(t *testing.T) {
		p, dg := newTestProcessor()
		organizer, managerAddr := setupOrganizer(t, p, "evt-organizer")

		params := testCreateEventParams(organizer, "a", 100)
		event, err := p.CreateEvent(ctx, params)
		require.NoError(t, err)

		assert.Equal(t, params.EventAddress, event.Address)
		assert.Equal(t, managerAddr, event.Authority)
		assert.Equal(t, uint32(100), event.Capacity)
		assert.Equal(t, uint32(0), event.TicketsSold)
		assert.True(t, event.IsTransferable)

		account, err := dg.GetAccount(ctx, event.Address)
		require.NoError(t, err)
		assert.Equal(t, entity.AccountKindEventCollection, account.Kind)
		assert.Equal(t, constants.RentExemptReserve, account.Lamports)

		stored, err := dg.GetEvent(ctx, event.Address)
		require.NoError(t, err)
		assert.Equal(t, event.Name, stored.Name)
	})

	t.Run("unregistered organizer is unauthorized", func(t *testing.T) {
		p, _ := newTestProcessor()
		organizer := testWallet("evt-rando")
		fund(t, p, organizer, 10*constants.RentExemptReserve)

		_, err := p.CreateEvent(ctx, testCreateEventParams(organizer, "b", 10))
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("event address collision is a duplicate", func(t *testing.T) {
		p, _ := newTestProcessor()
		organizer, _ := setupOrganizer(t, p, "evt-organizer-2")

		params := testCreateEventParams(organizer, "c", 10)
		_, err := p.CreateEvent(ctx, params)
		require.NoError(t, err)

		params.Args.Name = "Another Name"
		_, err = p.CreateEvent(ctx, params)
		assert.ErrorIs(t, err, errs.Duplicate)
	})

	t.Run("validates arguments", func(t *testing.T) {
		p, _ := newTestProcessor()
		organizer, _ := setupOrganizer(t, p, "evt-organizer-3")

		params := testCreateEventParams(organizer, "d", 0)
		_, err := p.CreateEvent(ctx, params)
		assert.ErrorIs(t, err, errs.InvalidArgument)

		params = testCreateEventParams(organizer, "e", 10)
		params.Args.Name = ""
		_, err = p.CreateEvent(ctx, params)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("lists newest first", func(t *testing.T) {
		p, dg := newTestProcessor()
		organizer, _ := setupOrganizer(t, p, "evt-organizer-4")

		first, err := p.CreateEvent(ctx, testCreateEventParams(organizer, "f", 10))
		require.NoError(t, err)
		second, err := p.CreateEvent(ctx, testCreateEventParams(organizer, "g", 10))
		require.NoError(t, err)

		events, err := dg.GetEvents(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, second.Address, events[0].Address)
		assert.Equal(t, first.Address, events[1].Address)
	})
}
