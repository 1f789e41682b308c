package repository

import (
	"context"
	"fmt"

	"github.com/jrmz14/proyecto-rifas/internal/domain"
	"github.com/jrmz14/proyecto-rifas/internal/repository/dao"
)

var (
	ErrRaffleNotFound     = dao.ErrRaffleNotFound
	ErrNoActiveRaffle     = dao.ErrNoActiveRaffle
	ErrActiveRaffleExists = dao.ErrActiveRaffleExists
)

type RaffleDAO interface {
	Insert(ctx context.Context, raffle dao.Raffle) (dao.Raffle, error)
	FindActive(ctx context.Context) (dao.Raffle, error)
	FindByID(ctx context.Context, id uint) (dao.Raffle, error)
	FindFinished(ctx context.Context, limit int) ([]dao.Raffle, error)
	Delete(ctx context.Context, id uint) error
}

type RaffleRepository struct {
	dao RaffleDAO
}

func NewRaffleRepository(dao RaffleDAO) *RaffleRepository {
	return &RaffleRepository{
		dao: dao,
	}
}

func (r *RaffleRepository) domainToDao(raffle domain.Raffle) dao.Raffle {
	return dao.Raffle{
		ID:          raffle.ID,
		Name:        raffle.Name,
		Description: raffle.Description,
		Prize:       raffle.Prize,
		ImageURL:    raffle.ImageURL,
		Price:       raffle.Price,
		TicketCount: raffle.TicketCount,
		StartDate:   raffle.StartDate,
		DrawDate:    raffle.DrawDate,
		Active:      raffle.Active,
		CreatedAt:   raffle.CreatedAt,
		UpdatedAt:   raffle.UpdatedAt,
	}
}

func (r *RaffleRepository) daoToDomain(raffle dao.Raffle) domain.Raffle {
	return domain.Raffle{
		ID:          raffle.ID,
		Name:        raffle.Name,
		Description: raffle.Description,
		Prize:       raffle.Prize,
		ImageURL:    raffle.ImageURL,
		Price:       raffle.Price,
		TicketCount: raffle.TicketCount,
		StartDate:   raffle.StartDate,
		DrawDate:    raffle.DrawDate,
		Active:      raffle.Active,
		CreatedAt:   raffle.CreatedAt,
		UpdatedAt:   raffle.UpdatedAt,
	}
}

func (r *RaffleRepository) Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(raffle))
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RaffleRepository) GetActive(ctx context.Context) (domain.Raffle, error) {
	raffle, err := r.dao.FindActive(ctx)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return r.daoToDomain(raffle), nil
}

func (r *RaffleRepository) GetByID(ctx context.Context, id uint) (domain.Raffle, error) {
	raffle, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(raffle), nil
}

func (r *RaffleRepository) GetFinished(ctx context.Context, limit int) ([]domain.Raffle, error) {
	rafflesDAO, err := r.dao.FindFinished(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindFinished -> %w", err)
	}

	raffles := make([]domain.Raffle, len(rafflesDAO))
	for i, raffleDAO := range rafflesDAO {
		raffles[i] = r.daoToDomain(raffleDAO)
	}

	return raffles, nil
}

func (r *RaffleRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
