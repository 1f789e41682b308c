package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrmz14/proyecto-rifas/internal/domain"
	"github.com/jrmz14/proyecto-rifas/internal/repository/dao"
)

type mockTicketRepo struct {
	listByStateRangeFn func(ctx context.Context, raffleID uint, states []domain.TicketState, low, high string) ([]domain.Ticket, error)
	listByStateFn      func(ctx context.Context, raffleID uint, states []domain.TicketState) ([]domain.Ticket, error)
	searchByPrefixFn   func(ctx context.Context, raffleID uint, prefix string, limit int) ([]domain.Ticket, error)
	listAllFn          func(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	reserveBatchFn     func(ctx context.Context, raffleID uint, numbers []string, buyer domain.Buyer, payment domain.Payment) error
	confirmSaleFn      func(ctx context.Context, id uint) (domain.Ticket, error)
	cancelFn           func(ctx context.Context, id uint) (domain.Ticket, error)
}

func (m *mockTicketRepo) ListByStateRange(ctx context.Context, raffleID uint, states []domain.TicketState, low, high string) ([]domain.Ticket, error) {
	return m.listByStateRangeFn(ctx, raffleID, states, low, high)
}

func (m *mockTicketRepo) ListByState(ctx context.Context, raffleID uint, states []domain.TicketState) ([]domain.Ticket, error) {
	return m.listByStateFn(ctx, raffleID, states)
}

func (m *mockTicketRepo) SearchByPrefix(ctx context.Context, raffleID uint, prefix string, limit int) ([]domain.Ticket, error) {
	return m.searchByPrefixFn(ctx, raffleID, prefix, limit)
}

func (m *mockTicketRepo) ListAll(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	return m.listAllFn(ctx, raffleID)
}

func (m *mockTicketRepo) ReserveBatch(ctx context.Context, raffleID uint, numbers []string, buyer domain.Buyer, payment domain.Payment) error {
	return m.reserveBatchFn(ctx, raffleID, numbers, buyer, payment)
}

func (m *mockTicketRepo) ConfirmSale(ctx context.Context, id uint) (domain.Ticket, error) {
	return m.confirmSaleFn(ctx, id)
}

func (m *mockTicketRepo) CancelReservation(ctx context.Context, id uint) (domain.Ticket, error) {
	return m.cancelFn(ctx, id)
}

func TestTicketService_PurchaseBatch(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		svc := NewTicketService(&mockTicketRepo{})

		err := svc.PurchaseBatch(context.Background(), 1, nil, domain.Buyer{}, domain.Payment{})
		assert.ErrorIs(t, err, ErrEmptyBatch)
	})

	t.Run("batch error surfaces the failing number", func(t *testing.T) {
		repo := &mockTicketRepo{
			reserveBatchFn: func(_ context.Context, _ uint, _ []string, _ domain.Buyer, _ domain.Payment) error {
				return &dao.BatchError{Number: "042", State: "reserved", Err: dao.ErrTicketUnavailable}
			},
		}
		svc := NewTicketService(repo)

		err := svc.PurchaseBatch(context.Background(), 1, []string{"041", "042"}, domain.Buyer{}, domain.Payment{})
		require.Error(t, err)

		var batchErr *BatchError
		require.ErrorAs(t, err, &batchErr)
		assert.Equal(t, "042", batchErr.Number)
		assert.Equal(t, "reserved", batchErr.State)
		assert.ErrorIs(t, err, ErrTicketUnavailable)
	})

	t.Run("success passes buyer and payment through", func(t *testing.T) {
		var gotBuyer domain.Buyer
		var gotNumbers []string

		repo := &mockTicketRepo{
			reserveBatchFn: func(_ context.Context, _ uint, numbers []string, buyer domain.Buyer, _ domain.Payment) error {
				gotNumbers = numbers
				gotBuyer = buyer
				return nil
			},
		}
		svc := NewTicketService(repo)

		buyer := domain.Buyer{NationalID: "V12345678", FirstName: "Maria", LastName: "Perez", Phone: "+584141234567"}
		err := svc.PurchaseBatch(context.Background(), 1, []string{"001", "002"}, buyer, domain.Payment{Bank: "Banesco"})
		require.NoError(t, err)

		assert.Equal(t, []string{"001", "002"}, gotNumbers)
		assert.Equal(t, buyer, gotBuyer)
	})
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name     string
		param    string
		width    int
		wantLow  string
		wantHigh string
	}{
		{"valid range", "100-199", 3, "100", "199"},
		{"valid unpadded", "0-99", 3, "000", "099"},
		{"missing", "", 3, "000", "099"},
		{"no separator", "100199", 3, "000", "099"},
		{"garbage low", "abc-199", 3, "000", "099"},
		{"garbage high", "100-xyz", 3, "000", "099"},
		{"inverted", "199-100", 3, "000", "099"},
		{"negative", "-100-199", 3, "000", "099"},
		{"width 4", "9900-9999", 4, "9900", "9999"},
		{"width 2 default", "", 2, "00", "99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRange(tt.param, tt.width)
			assert.Equal(t, tt.wantLow, got.Low)
			assert.Equal(t, tt.wantHigh, got.High)
		})
	}
}

func TestRangeBlocks(t *testing.T) {
	blocks := rangeBlocks(1000, 3)
	require.Len(t, blocks, 10)
	assert.Equal(t, NumberRange{Low: "000", High: "099"}, blocks[0])
	assert.Equal(t, NumberRange{Low: "900", High: "999"}, blocks[9])

	blocks = rangeBlocks(250, 3)
	require.Len(t, blocks, 3)
	assert.Equal(t, NumberRange{Low: "200", High: "249"}, blocks[2])
}

func TestTicketService_ListRange(t *testing.T) {
	raffle := domain.Raffle{ID: 1, TicketCount: 1000}
	repo := &mockTicketRepo{
		listByStateRangeFn: func(_ context.Context, _ uint, _ []domain.TicketState, low, high string) ([]domain.Ticket, error) {
			assert.Equal(t, "100", low)
			assert.Equal(t, "199", high)
			return []domain.Ticket{
				{Number: "100", State: domain.TicketAvailable},
				{
					Number: "101",
					State:  domain.TicketReserved,
					Buyer: domain.Buyer{
						NationalID: "V12345678",
						FirstName:  "Maria",
						LastName:   "Perez",
						Phone:      "+584141234567",
					},
					Payment: domain.Payment{Bank: "Banesco", Reference: "9876"},
				},
			}, nil
		},
	}
	svc := NewTicketService(repo)

	listing, err := svc.ListRange(context.Background(), raffle, "100-199")
	require.NoError(t, err)

	// The public board only ever sees {number, state}; buyer and
	// payment data stay server-side.
	assert.Equal(t, []domain.TicketStatus{
		{Number: "100", State: domain.TicketAvailable},
		{Number: "101", State: domain.TicketReserved},
	}, listing.Tickets)
	assert.Equal(t, NumberRange{Low: "100", High: "199"}, listing.Current)
	assert.Len(t, listing.Ranges, 10)
}

func TestTicketService_Search(t *testing.T) {
	t.Run("short query returns nothing without hitting the store", func(t *testing.T) {
		svc := NewTicketService(&mockTicketRepo{})

		statuses, err := svc.Search(context.Background(), 1, "4")
		require.NoError(t, err)
		assert.Empty(t, statuses)
	})

	t.Run("delegates with the result cap", func(t *testing.T) {
		repo := &mockTicketRepo{
			searchByPrefixFn: func(_ context.Context, _ uint, prefix string, limit int) ([]domain.Ticket, error) {
				assert.Equal(t, "42", prefix)
				assert.Equal(t, searchResultLimit, limit)
				return []domain.Ticket{
					{Number: "420", State: domain.TicketAvailable},
					{Number: "421", State: domain.TicketSold},
				}, nil
			},
		}
		svc := NewTicketService(repo)

		statuses, err := svc.Search(context.Background(), 1, "42")
		require.NoError(t, err)
		assert.Equal(t, []domain.TicketStatus{
			{Number: "420", State: domain.TicketAvailable},
			{Number: "421", State: domain.TicketSold},
		}, statuses)
	})
}

func TestTicketService_AdminQueue(t *testing.T) {
	repo := &mockTicketRepo{
		listByStateFn: func(_ context.Context, _ uint, states []domain.TicketState) ([]domain.Ticket, error) {
			assert.ElementsMatch(t, []domain.TicketState{domain.TicketReserved, domain.TicketSold}, states)
			return []domain.Ticket{
				{Number: "007", State: domain.TicketReserved, Buyer: domain.Buyer{FirstName: "Ana", Phone: "+584140000001"}},
				{Number: "008", State: domain.TicketReserved, Buyer: domain.Buyer{FirstName: "Luis"}},
				{Number: "009", State: domain.TicketSold, Buyer: domain.Buyer{FirstName: "Eva", Phone: "+584140000002"}},
			}, nil
		},
	}
	svc := NewTicketService(repo)

	queue, err := svc.AdminQueue(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, queue, 3)

	assert.Contains(t, queue[0].WhatsAppURL, "https://wa.me/+584140000001?text=")
	assert.Empty(t, queue[1].WhatsAppURL, "reserved ticket without phone gets no link")
	assert.Empty(t, queue[2].WhatsAppURL, "sold ticket gets no link")
}

func TestTicketService_ConfirmSale(t *testing.T) {
	t.Run("with phone builds a notification", func(t *testing.T) {
		repo := &mockTicketRepo{
			confirmSaleFn: func(_ context.Context, id uint) (domain.Ticket, error) {
				return domain.Ticket{
					ID:     id,
					Number: "123",
					State:  domain.TicketSold,
					Buyer:  domain.Buyer{FirstName: "Carlos", Phone: "+584149999999"},
				}, nil
			},
		}
		svc := NewTicketService(repo)

		ticket, notification, err := svc.ConfirmSale(context.Background(), 5)
		require.NoError(t, err)

		assert.Equal(t, domain.TicketSold, ticket.State)
		require.NotNil(t, notification)
		assert.Equal(t, "+584149999999", notification.Phone)
		assert.Contains(t, notification.Message, "Carlos")
		assert.Contains(t, notification.Message, "*123*")
		assert.Contains(t, notification.WhatsAppURL, "https://wa.me/")
	})

	t.Run("without phone the notification is omitted", func(t *testing.T) {
		repo := &mockTicketRepo{
			confirmSaleFn: func(_ context.Context, id uint) (domain.Ticket, error) {
				return domain.Ticket{ID: id, Number: "123", State: domain.TicketSold}, nil
			},
		}
		svc := NewTicketService(repo)

		_, notification, err := svc.ConfirmSale(context.Background(), 5)
		require.NoError(t, err)
		assert.Nil(t, notification)
	})

	t.Run("not reserved", func(t *testing.T) {
		repo := &mockTicketRepo{
			confirmSaleFn: func(_ context.Context, _ uint) (domain.Ticket, error) {
				return domain.Ticket{}, fmt.Errorf("r.dao.ConfirmSale -> %w", ErrTicketNotReserved)
			},
		}
		svc := NewTicketService(repo)

		_, _, err := svc.ConfirmSale(context.Background(), 5)
		assert.ErrorIs(t, err, ErrTicketNotReserved)
	})
}
