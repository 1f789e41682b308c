package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrmz14/proyecto-rifas/internal/domain"
	"github.com/jrmz14/proyecto-rifas/internal/repository"
)

var (
	ErrTicketNotFound    = repository.ErrTicketNotFound
	ErrTicketUnavailable = repository.ErrTicketUnavailable
	ErrTicketNotReserved = repository.ErrTicketNotReserved
	ErrEmptyBatch        = errors.New("no ticket numbers requested")
)

// BatchError identifies the number that made a purchase batch fail.
type BatchError = repository.BatchError

// searchResultLimit caps the incremental search endpoint.
const searchResultLimit = 50

// rangeBlockSize is the size of the number blocks the ticket board is
// navigated in.
const rangeBlockSize = 100

type TicketRepository interface {
	ListByStateRange(ctx context.Context, raffleID uint, states []domain.TicketState, low, high string) ([]domain.Ticket, error)
	ListByState(ctx context.Context, raffleID uint, states []domain.TicketState) ([]domain.Ticket, error)
	SearchByPrefix(ctx context.Context, raffleID uint, prefix string, limit int) ([]domain.Ticket, error)
	ListAll(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
	ReserveBatch(ctx context.Context, raffleID uint, numbers []string, buyer domain.Buyer, payment domain.Payment) error
	ConfirmSale(ctx context.Context, id uint) (domain.Ticket, error)
	CancelReservation(ctx context.Context, id uint) (domain.Ticket, error)
}

type TicketService struct {
	repo TicketRepository
}

func NewTicketService(repo TicketRepository) *TicketService {
	return &TicketService{
		repo: repo,
	}
}

// NumberRange is one navigable block of the ticket board, e.g.
// "000"-"099".
type NumberRange struct {
	Low  string `json:"low"`
	High string `json:"high"`
}

// RangeListing is the board page for one block: the block's
// {number, state} pairs in ascending number order plus the full block
// navigation. Buyer and payment data never leave the server through
// the public board.
type RangeListing struct {
	Tickets []domain.TicketStatus `json:"tickets"`
	Ranges  []NumberRange         `json:"ranges"`
	Current NumberRange           `json:"current"`
}

// AdminTicket is one admin queue entry. Reserved tickets with a phone
// on file carry a prefilled WhatsApp link for the confirmation
// message.
type AdminTicket struct {
	Ticket      domain.Ticket `json:"ticket"`
	WhatsAppURL string        `json:"whatsapp_url,omitempty"`
}

// PurchaseBatch reserves the requested numbers of the raffle for one
// buyer, all or nothing. The caller is responsible for resolving the
// active raffle; duplicates within the batch are processed
// independently (the second occurrence fails the availability check
// inside the same transaction, aborting the batch).
func (s *TicketService) PurchaseBatch(ctx context.Context, raffleID uint, numbers []string, buyer domain.Buyer, payment domain.Payment) error {
	if len(numbers) == 0 {
		return ErrEmptyBatch
	}

	if err := s.repo.ReserveBatch(ctx, raffleID, numbers, buyer, payment); err != nil {
		return fmt.Errorf("s.repo.ReserveBatch -> %w", err)
	}

	return nil
}

// ListRange returns one block of the ticket board. The raffle decides
// the padding width; a missing or malformed rangeParam degrades to the
// first block rather than failing.
func (s *TicketService) ListRange(ctx context.Context, raffle domain.Raffle, rangeParam string) (RangeListing, error) {
	width := raffle.NumberWidth()
	current := parseRange(rangeParam, width)

	states := []domain.TicketState{domain.TicketAvailable, domain.TicketReserved, domain.TicketSold}
	tickets, err := s.repo.ListByStateRange(ctx, raffle.ID, states, current.Low, current.High)
	if err != nil {
		return RangeListing{}, fmt.Errorf("s.repo.ListByStateRange -> %w", err)
	}

	return RangeListing{
		Tickets: toStatuses(tickets),
		Ranges:  rangeBlocks(raffle.TicketCount, width),
		Current: current,
	}, nil
}

// Search returns up to 50 {number, state} pairs whose number starts
// with query. Queries shorter than two characters return nothing; the
// front end calls this on every keystroke.
func (s *TicketService) Search(ctx context.Context, raffleID uint, query string) ([]domain.TicketStatus, error) {
	if len(query) < 2 {
		return []domain.TicketStatus{}, nil
	}

	tickets, err := s.repo.SearchByPrefix(ctx, raffleID, query, searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.SearchByPrefix -> %w", err)
	}

	return toStatuses(tickets), nil
}

// Statuses returns the {number, state} pair of every ticket in the
// raffle, read fresh from the store on every call.
func (s *TicketService) Statuses(ctx context.Context, raffleID uint) ([]domain.TicketStatus, error) {
	tickets, err := s.repo.ListAll(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListAll -> %w", err)
	}

	return toStatuses(tickets), nil
}

// AdminQueue lists the raffle's reserved and sold tickets, most recent
// transaction first.
func (s *TicketService) AdminQueue(ctx context.Context, raffleID uint) ([]AdminTicket, error) {
	tickets, err := s.repo.ListByState(ctx, raffleID, []domain.TicketState{domain.TicketReserved, domain.TicketSold})
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByState -> %w", err)
	}

	queue := make([]AdminTicket, len(tickets))
	for i, ticket := range tickets {
		entry := AdminTicket{Ticket: ticket}
		if ticket.State == domain.TicketReserved && ticket.Buyer.Phone != "" && ticket.Buyer.FirstName != "" {
			message := fmt.Sprintf(
				"🎉 ¡Felicidades, %v! El pago de tu número (%v) ha sido CONFIRMADO. ¡Ya es tuyo!",
				ticket.Buyer.FirstName, ticket.Number,
			)
			entry.WhatsAppURL = whatsAppLink(ticket.Buyer.Phone, message)
		}
		queue[i] = entry
	}

	return queue, nil
}

// ConfirmSale marks a reserved ticket as sold and derives the WhatsApp
// notification for the caller to dispatch. The notification is nil
// when the buyer left no phone; that is not an error.
func (s *TicketService) ConfirmSale(ctx context.Context, ticketID uint) (domain.Ticket, *domain.Notification, error) {
	ticket, err := s.repo.ConfirmSale(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, nil, fmt.Errorf("s.repo.ConfirmSale -> %w", err)
	}

	var notification *domain.Notification
	if ticket.Buyer.Phone != "" {
		message := fmt.Sprintf(
			"¡Hola %v! Tu número *%v* para la rifa ha sido confirmado y vendido con éxito. ¡Mucha suerte!",
			ticket.Buyer.FirstName, ticket.Number,
		)
		notification = &domain.Notification{
			Phone:       ticket.Buyer.Phone,
			Message:     message,
			WhatsAppURL: whatsAppLink(ticket.Buyer.Phone, message),
		}
	}

	return ticket, notification, nil
}

// CancelReservation rolls a reserved ticket back to available with its
// buyer and payment data cleared. Calling it on a ticket in any other
// state changes nothing.
func (s *TicketService) CancelReservation(ctx context.Context, ticketID uint) (domain.Ticket, error) {
	ticket, err := s.repo.CancelReservation(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.CancelReservation -> %w", err)
	}

	return ticket, nil
}

func toStatuses(tickets []domain.Ticket) []domain.TicketStatus {
	statuses := make([]domain.TicketStatus, len(tickets))
	for i, ticket := range tickets {
		statuses[i] = domain.TicketStatus{
			Number: ticket.Number,
			State:  ticket.State,
		}
	}

	return statuses
}

// parseRange parses a "low-high" query parameter into a padded block.
// Anything unparseable falls back to the first block; a bad range
// should never break the board.
func parseRange(rangeParam string, width int) NumberRange {
	defaultRange := NumberRange{
		Low:  fmt.Sprintf("%0*d", width, 0),
		High: fmt.Sprintf("%0*d", width, rangeBlockSize-1),
	}

	low, high, found := strings.Cut(rangeParam, "-")
	if !found {
		return defaultRange
	}

	lowN, err := strconv.Atoi(low)
	if err != nil {
		return defaultRange
	}
	highN, err := strconv.Atoi(high)
	if err != nil {
		return defaultRange
	}
	if lowN < 0 || highN < lowN {
		return defaultRange
	}

	return NumberRange{
		Low:  fmt.Sprintf("%0*d", width, lowN),
		High: fmt.Sprintf("%0*d", width, highN),
	}
}

// rangeBlocks enumerates the blocks of 100 covering the raffle's
// number space.
func rangeBlocks(ticketCount, width int) []NumberRange {
	var ranges []NumberRange
	for start := 0; start < ticketCount; start += rangeBlockSize {
		end := start + rangeBlockSize - 1
		if end > ticketCount-1 {
			end = ticketCount - 1
		}
		ranges = append(ranges, NumberRange{
			Low:  fmt.Sprintf("%0*d", width, start),
			High: fmt.Sprintf("%0*d", width, end),
		})
	}

	return ranges
}

// whatsAppLink builds a wa.me URL with the message prefilled.
func whatsAppLink(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%v?text=%v", phone, url.QueryEscape(message))
}
