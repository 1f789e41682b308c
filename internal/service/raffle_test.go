package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrmz14/proyecto-rifas/internal/domain"
)

type mockRaffleRepo struct {
	createFn      func(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	getActiveFn   func(ctx context.Context) (domain.Raffle, error)
	getByIDFn     func(ctx context.Context, id uint) (domain.Raffle, error)
	getFinishedFn func(ctx context.Context, limit int) ([]domain.Raffle, error)
	deleteFn      func(ctx context.Context, id uint) error
}

func (m *mockRaffleRepo) Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	return m.createFn(ctx, raffle)
}

func (m *mockRaffleRepo) GetActive(ctx context.Context) (domain.Raffle, error) {
	return m.getActiveFn(ctx)
}

func (m *mockRaffleRepo) GetByID(ctx context.Context, id uint) (domain.Raffle, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockRaffleRepo) GetFinished(ctx context.Context, limit int) ([]domain.Raffle, error) {
	return m.getFinishedFn(ctx, limit)
}

func (m *mockRaffleRepo) Delete(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

type mockTicketCreator struct {
	bulkCreateFn func(ctx context.Context, raffleID uint, numbers []string) error
}

func (m *mockTicketCreator) BulkCreate(ctx context.Context, raffleID uint, numbers []string) error {
	return m.bulkCreateFn(ctx, raffleID, numbers)
}

func TestNumberSequence(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		width     int
		wantFirst string
		wantLast  string
	}{
		{"width 2", 100, 2, "00", "99"},
		{"width 3", 1000, 3, "000", "999"},
		{"width 4", 10000, 4, "0000", "9999"},
		{"partial block", 250, 3, "000", "249"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			numbers := numberSequence(tt.count, tt.width)

			require.Len(t, numbers, tt.count)
			assert.Equal(t, tt.wantFirst, numbers[0])
			assert.Equal(t, tt.wantLast, numbers[len(numbers)-1])

			seen := make(map[string]bool, tt.count)
			for _, n := range numbers {
				assert.Len(t, n, tt.width)
				assert.False(t, seen[n], "number %v appears twice", n)
				seen[n] = true
			}
		})
	}
}

func TestRaffleService_CreateRaffle_GeneratesTickets(t *testing.T) {
	var generated []string
	var generatedFor uint

	repo := &mockRaffleRepo{
		createFn: func(_ context.Context, raffle domain.Raffle) (domain.Raffle, error) {
			raffle.ID = 7
			return raffle, nil
		},
	}
	tickets := &mockTicketCreator{
		bulkCreateFn: func(_ context.Context, raffleID uint, numbers []string) error {
			generatedFor = raffleID
			generated = numbers
			return nil
		},
	}

	svc := NewRaffleService(repo, tickets)

	created, err := svc.CreateRaffle(context.Background(), domain.Raffle{Name: "Rifa Navidad", TicketCount: 100})
	require.NoError(t, err)

	assert.Equal(t, uint(7), created.ID)
	assert.Equal(t, uint(7), generatedFor)
	require.Len(t, generated, 100)
	assert.Equal(t, "00", generated[0])
	assert.Equal(t, "99", generated[99])
}

func TestRaffleService_CreateRaffle_ActiveRaffleExists(t *testing.T) {
	repo := &mockRaffleRepo{
		createFn: func(_ context.Context, _ domain.Raffle) (domain.Raffle, error) {
			return domain.Raffle{}, fmt.Errorf("r.dao.Insert -> %w", ErrActiveRaffleExists)
		},
	}
	tickets := &mockTicketCreator{
		bulkCreateFn: func(_ context.Context, _ uint, _ []string) error {
			t.Fatal("no tickets should be generated when the insert fails")
			return nil
		},
	}

	svc := NewRaffleService(repo, tickets)

	_, err := svc.CreateRaffle(context.Background(), domain.Raffle{Active: true, TicketCount: 100})
	assert.ErrorIs(t, err, ErrActiveRaffleExists)
}

func TestRaffleService_CreateRaffle_GenerationFailure(t *testing.T) {
	bulkErr := errors.New("insert failed")

	repo := &mockRaffleRepo{
		createFn: func(_ context.Context, raffle domain.Raffle) (domain.Raffle, error) {
			raffle.ID = 1
			return raffle, nil
		},
	}
	tickets := &mockTicketCreator{
		bulkCreateFn: func(_ context.Context, _ uint, _ []string) error {
			return bulkErr
		},
	}

	svc := NewRaffleService(repo, tickets)

	_, err := svc.CreateRaffle(context.Background(), domain.Raffle{TicketCount: 100})
	assert.ErrorIs(t, err, bulkErr)
}

func TestRaffleService_GetOverview(t *testing.T) {
	t.Run("with active raffle", func(t *testing.T) {
		repo := &mockRaffleRepo{
			getActiveFn: func(_ context.Context) (domain.Raffle, error) {
				return domain.Raffle{ID: 3, Name: "Rifa Activa", Active: true}, nil
			},
			getFinishedFn: func(_ context.Context, limit int) ([]domain.Raffle, error) {
				assert.Equal(t, finishedRafflesShown, limit)
				return []domain.Raffle{{ID: 1}, {ID: 2}}, nil
			},
		}

		svc := NewRaffleService(repo, &mockTicketCreator{})

		overview, err := svc.GetOverview(context.Background())
		require.NoError(t, err)

		require.NotNil(t, overview.Active)
		assert.Equal(t, uint(3), overview.Active.ID)
		assert.Len(t, overview.Finished, 2)
	})

	t.Run("no active raffle is not an error", func(t *testing.T) {
		repo := &mockRaffleRepo{
			getActiveFn: func(_ context.Context) (domain.Raffle, error) {
				return domain.Raffle{}, fmt.Errorf("r.dao.FindActive -> %w", ErrNoActiveRaffle)
			},
			getFinishedFn: func(_ context.Context, _ int) ([]domain.Raffle, error) {
				return nil, nil
			},
		}

		svc := NewRaffleService(repo, &mockTicketCreator{})

		overview, err := svc.GetOverview(context.Background())
		require.NoError(t, err)
		assert.Nil(t, overview.Active)
	})
}

func TestRaffle_NumberWidth(t *testing.T) {
	assert.Equal(t, 2, domain.Raffle{TicketCount: 100}.NumberWidth())
	assert.Equal(t, 3, domain.Raffle{TicketCount: 101}.NumberWidth())
	assert.Equal(t, 3, domain.Raffle{TicketCount: 1000}.NumberWidth())
	assert.Equal(t, 4, domain.Raffle{TicketCount: 1001}.NumberWidth())
	assert.Equal(t, 4, domain.Raffle{TicketCount: 10000}.NumberWidth())
}
