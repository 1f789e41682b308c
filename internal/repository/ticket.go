package repository

import (
	"context"
	"fmt"

	"github.com/jrmz14/proyecto-rifas/internal/domain"
	"github.com/jrmz14/proyecto-rifas/internal/repository/dao"
)

var (
	ErrTicketNotFound        = dao.ErrTicketNotFound
	ErrTicketUnavailable     = dao.ErrTicketUnavailable
	ErrTicketNotReserved     = dao.ErrTicketNotReserved
	ErrDuplicateTicketNumber = dao.ErrDuplicateTicketNumber
)

// BatchError surfaces which number failed a reservation batch and why.
type BatchError = dao.BatchError

type TicketDAO interface {
	BulkInsert(ctx context.Context, tickets []dao.Ticket) error
	FindByStateRange(ctx context.Context, raffleID uint, states []string, low, high string) ([]dao.Ticket, error)
	FindByState(ctx context.Context, raffleID uint, states []string) ([]dao.Ticket, error)
	SearchByPrefix(ctx context.Context, raffleID uint, prefix string, limit int) ([]dao.Ticket, error)
	FindAllByRaffle(ctx context.Context, raffleID uint) ([]dao.Ticket, error)
	ReserveBatch(ctx context.Context, raffleID uint, numbers []string, fields dao.PurchaseFields) error
	ConfirmSale(ctx context.Context, id uint) (dao.Ticket, error)
	CancelReservation(ctx context.Context, id uint) (dao.Ticket, error)
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(dao TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

func (r *TicketRepository) daoToDomain(ticket dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:       ticket.ID,
		RaffleID: ticket.RaffleID,
		Number:   ticket.Number,
		State:    domain.TicketState(ticket.State),
		Buyer: domain.Buyer{
			NationalID: ticket.NationalID,
			FirstName:  ticket.FirstName,
			LastName:   ticket.LastName,
			Phone:      ticket.Phone,
		},
		Payment: domain.Payment{
			Bank:          ticket.Bank,
			Reference:     ticket.Reference,
			TransferImage: ticket.TransferImage,
		},
		PurchasedAt: ticket.PurchasedAt,
	}
}

func (r *TicketRepository) daosToDomain(ticketsDAO []dao.Ticket) []domain.Ticket {
	tickets := make([]domain.Ticket, len(ticketsDAO))
	for i, ticketDAO := range ticketsDAO {
		tickets[i] = r.daoToDomain(ticketDAO)
	}

	return tickets
}

func statesToDAO(states []domain.TicketState) []string {
	daoStates := make([]string, len(states))
	for i, state := range states {
		daoStates[i] = string(state)
	}

	return daoStates
}

// BulkCreate inserts the freshly generated number sequence of a raffle,
// every ticket starting out available.
func (r *TicketRepository) BulkCreate(ctx context.Context, raffleID uint, numbers []string) error {
	tickets := make([]dao.Ticket, len(numbers))
	for i, number := range numbers {
		tickets[i] = dao.Ticket{
			RaffleID: raffleID,
			Number:   number,
			State:    dao.TicketStateAvailable,
		}
	}

	if err := r.dao.BulkInsert(ctx, tickets); err != nil {
		return fmt.Errorf("r.dao.BulkInsert -> %w", err)
	}

	return nil
}

func (r *TicketRepository) ListByStateRange(ctx context.Context, raffleID uint, states []domain.TicketState, low, high string) ([]domain.Ticket, error) {
	ticketsDAO, err := r.dao.FindByStateRange(ctx, raffleID, statesToDAO(states), low, high)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStateRange -> %w", err)
	}

	return r.daosToDomain(ticketsDAO), nil
}

func (r *TicketRepository) ListByState(ctx context.Context, raffleID uint, states []domain.TicketState) ([]domain.Ticket, error) {
	ticketsDAO, err := r.dao.FindByState(ctx, raffleID, statesToDAO(states))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByState -> %w", err)
	}

	return r.daosToDomain(ticketsDAO), nil
}

func (r *TicketRepository) SearchByPrefix(ctx context.Context, raffleID uint, prefix string, limit int) ([]domain.Ticket, error) {
	ticketsDAO, err := r.dao.SearchByPrefix(ctx, raffleID, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.SearchByPrefix -> %w", err)
	}

	return r.daosToDomain(ticketsDAO), nil
}

func (r *TicketRepository) ListAll(ctx context.Context, raffleID uint) ([]domain.Ticket, error) {
	ticketsDAO, err := r.dao.FindAllByRaffle(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllByRaffle -> %w", err)
	}

	return r.daosToDomain(ticketsDAO), nil
}

// ReserveBatch applies an all-or-nothing reservation of the requested
// numbers. A *dao.BatchError coming back identifies the offending
// number; it is passed through unwrapped so callers can inspect it.
func (r *TicketRepository) ReserveBatch(ctx context.Context, raffleID uint, numbers []string, buyer domain.Buyer, payment domain.Payment) error {
	fields := dao.PurchaseFields{
		NationalID:    buyer.NationalID,
		FirstName:     buyer.FirstName,
		LastName:      buyer.LastName,
		Phone:         buyer.Phone,
		Bank:          payment.Bank,
		Reference:     payment.Reference,
		TransferImage: payment.TransferImage,
	}

	return r.dao.ReserveBatch(ctx, raffleID, numbers, fields)
}

func (r *TicketRepository) ConfirmSale(ctx context.Context, id uint) (domain.Ticket, error) {
	ticket, err := r.dao.ConfirmSale(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.ConfirmSale -> %w", err)
	}

	return r.daoToDomain(ticket), nil
}

func (r *TicketRepository) CancelReservation(ctx context.Context, id uint) (domain.Ticket, error) {
	ticket, err := r.dao.CancelReservation(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.CancelReservation -> %w", err)
	}

	return r.daoToDomain(ticket), nil
}
