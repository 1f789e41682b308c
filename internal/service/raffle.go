package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jrmz14/proyecto-rifas/internal/domain"
	"github.com/jrmz14/proyecto-rifas/internal/repository"
)

var (
	ErrRaffleNotFound     = repository.ErrRaffleNotFound
	ErrNoActiveRaffle     = repository.ErrNoActiveRaffle
	ErrActiveRaffleExists = repository.ErrActiveRaffleExists
)

// finishedRafflesShown caps the landing page's list of past raffles.
const finishedRafflesShown = 5

type RaffleRepository interface {
	Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	GetActive(ctx context.Context) (domain.Raffle, error)
	GetByID(ctx context.Context, id uint) (domain.Raffle, error)
	GetFinished(ctx context.Context, limit int) ([]domain.Raffle, error)
	Delete(ctx context.Context, id uint) error
}

type TicketCreator interface {
	BulkCreate(ctx context.Context, raffleID uint, numbers []string) error
}

type RaffleService struct {
	repo       RaffleRepository
	ticketRepo TicketCreator
}

func NewRaffleService(repo RaffleRepository, ticketRepo TicketCreator) *RaffleService {
	return &RaffleService{
		repo:       repo,
		ticketRepo: ticketRepo,
	}
}

// RaffleOverview is the landing page data: the raffle currently open
// for purchases, if any, plus the most recently drawn past raffles.
type RaffleOverview struct {
	Active   *domain.Raffle  `json:"active"`
	Finished []domain.Raffle `json:"finished"`
}

// CreateRaffle persists the raffle and then generates its full ticket
// sequence. The two steps are deliberately separate transactions: the
// raffle insert commits first and the bulk ticket insert runs against
// the already visible parent row, keeping the creation transaction
// short.
func (s *RaffleService) CreateRaffle(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	created, err := s.repo.Create(ctx, raffle)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	numbers := numberSequence(created.TicketCount, created.NumberWidth())
	if err := s.ticketRepo.BulkCreate(ctx, created.ID, numbers); err != nil {
		zap.L().Error("ticket generation failed after raffle insert",
			zap.Uint("raffleID", created.ID),
			zap.Error(err),
		)

		return domain.Raffle{}, fmt.Errorf("s.ticketRepo.BulkCreate -> %w", err)
	}

	zap.L().Info("raffle created",
		zap.Uint("raffleID", created.ID),
		zap.Int("ticketCount", created.TicketCount),
	)

	return created, nil
}

func (s *RaffleService) GetActiveRaffle(ctx context.Context) (domain.Raffle, error) {
	raffle, err := s.repo.GetActive(ctx)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.GetActive -> %w", err)
	}

	return raffle, nil
}

func (s *RaffleService) GetRaffle(ctx context.Context, id uint) (domain.Raffle, error) {
	raffle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return raffle, nil
}

// GetOverview never fails on a missing active raffle; the landing page
// simply shows no open raffle in that case.
func (s *RaffleService) GetOverview(ctx context.Context) (RaffleOverview, error) {
	overview := RaffleOverview{}

	active, err := s.repo.GetActive(ctx)
	if err == nil {
		overview.Active = &active
	} else if !isNoActiveRaffle(err) {
		return RaffleOverview{}, fmt.Errorf("s.repo.GetActive -> %w", err)
	}

	finished, err := s.repo.GetFinished(ctx, finishedRafflesShown)
	if err != nil {
		return RaffleOverview{}, fmt.Errorf("s.repo.GetFinished -> %w", err)
	}
	overview.Finished = finished

	return overview, nil
}

func (s *RaffleService) DeleteRaffle(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func isNoActiveRaffle(err error) bool {
	return errors.Is(err, ErrNoActiveRaffle)
}

// numberSequence builds the zero-padded numbers "0".."count-1" at the
// given width. Fixed-width padding is what keeps lexicographic and
// numeric ordering aligned for the range queries downstream.
func numberSequence(count, width int) []string {
	numbers := make([]string, count)
	for i := 0; i < count; i++ {
		numbers[i] = fmt.Sprintf("%0*d", width, i)
	}

	return numbers
}
