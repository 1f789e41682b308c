package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrTicketUnavailable     = errors.New("ticket not available")
	ErrTicketNotReserved     = errors.New("ticket not reserved")
	ErrDuplicateTicketNumber = errors.New("ticket number already exists in this raffle")
)

const (
	TicketStateAvailable = "available"
	TicketStateReserved  = "reserved"
	TicketStateSold      = "sold"
)

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	RaffleID uint   `gorm:"not null;uniqueIndex:idx_raffle_number"`
	Number   string `gorm:"size:4;not null;uniqueIndex:idx_raffle_number"`
	State    string `gorm:"size:20;not null;default:available;index"`

	NationalID string `gorm:"size:20"`
	FirstName  string `gorm:"size:100"`
	LastName   string `gorm:"size:100"`
	Phone      string `gorm:"size:20"`

	Bank          string `gorm:"size:100"`
	Reference     string `gorm:"size:20"`
	TransferImage string

	PurchasedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PurchaseFields is the buyer and payment metadata attached uniformly
// to every ticket of a reservation batch.
type PurchaseFields struct {
	NationalID    string
	FirstName     string
	LastName      string
	Phone         string
	Bank          string
	Reference     string
	TransferImage string
}

// BatchError reports which requested number made a reservation batch
// fail and why. State carries the ticket's current state when the
// cause is ErrTicketUnavailable.
type BatchError struct {
	Number string
	State  string
	Err    error
}

func (e *BatchError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("number %v: %v (state: %v)", e.Number, e.Err, e.State)
	}

	return fmt.Sprintf("number %v: %v", e.Number, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

// BulkInsert creates the full number sequence for a raffle as a single
// batched insert. At the default scale of 10000 tickets per raffle,
// row-by-row inserts are not an option.
func (d *TicketDAO) BulkInsert(ctx context.Context, tickets []Ticket) error {
	result := d.db.WithContext(ctx).CreateInBatches(tickets, 500)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateTicketNumber
		}

		return result.Error
	}

	return nil
}

func (d *TicketDAO) FindByID(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *TicketDAO) FindByNumber(ctx context.Context, raffleID uint, number string) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ? AND number = ?", raffleID, number).
		First(&ticket)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

// FindByStateRange returns the tickets whose padded number falls in
// [low, high] and whose state is in states, ordered by number
// ascending. Numbers are fixed-width zero-padded strings, so the
// lexicographic comparison the query relies on matches numeric order.
func (d *TicketDAO) FindByStateRange(ctx context.Context, raffleID uint, states []string, low, high string) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ? AND state IN ? AND number >= ? AND number <= ?", raffleID, states, low, high).
		Order("number ASC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// FindByState returns tickets in the given states ordered by
// purchased_at descending, most recent transaction first. This feeds
// the admin queue.
func (d *TicketDAO) FindByState(ctx context.Context, raffleID uint, states []string) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ? AND state IN ?", raffleID, states).
		Order("purchased_at DESC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// likeEscaper neutralizes LIKE wildcards in user input so the prefix
// matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (d *TicketDAO) SearchByPrefix(ctx context.Context, raffleID uint, prefix string, limit int) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ? AND number LIKE ?", raffleID, likeEscaper.Replace(prefix)+"%").
		Limit(limit).
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) FindAllByRaffle(ctx context.Context, raffleID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("raffle_id = ?", raffleID).
		Order("number ASC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// ReserveBatch transitions every requested number of the raffle from
// available to reserved in one transaction. Each row is locked with
// SELECT ... FOR UPDATE before its state is checked, so of two batches
// racing for the same number exactly one commits and the other fails
// the state check once the lock is released. Any failure aborts the
// whole batch; no partial reservation is ever visible.
func (d *TicketDAO) ReserveBatch(ctx context.Context, raffleID uint, numbers []string, fields PurchaseFields) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		for _, number := range numbers {
			var ticket Ticket

			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("raffle_id = ? AND number = ?", raffleID, number).
				First(&ticket).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &BatchError{Number: number, Err: ErrTicketNotFound}
				}

				return err
			}

			if ticket.State != TicketStateAvailable {
				return &BatchError{Number: number, State: ticket.State, Err: ErrTicketUnavailable}
			}

			ticket.State = TicketStateReserved
			ticket.NationalID = fields.NationalID
			ticket.FirstName = fields.FirstName
			ticket.LastName = fields.LastName
			ticket.Phone = fields.Phone
			ticket.Bank = fields.Bank
			ticket.Reference = fields.Reference
			ticket.TransferImage = fields.TransferImage
			ticket.PurchasedAt = &now

			if err := tx.Save(&ticket).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// ConfirmSale transitions a reserved ticket to sold. Buyer and payment
// data stay on the ticket. Confirming a ticket in any other state
// returns ErrTicketNotReserved.
func (d *TicketDAO) ConfirmSale(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ticket, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}

			return err
		}

		if ticket.State != TicketStateReserved {
			return ErrTicketNotReserved
		}

		ticket.State = TicketStateSold

		return tx.Save(&ticket).Error
	})
	if err != nil {
		return Ticket{}, err
	}

	return ticket, nil
}

// CancelReservation rolls a reserved ticket back to available and
// clears all buyer and payment fields, leaving the ticket
// indistinguishable from one that was never touched. Tickets in any
// other state are left untouched, which makes the call idempotent.
func (d *TicketDAO) CancelReservation(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ticket, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}

			return err
		}

		if ticket.State != TicketStateReserved {
			return nil
		}

		ticket.State = TicketStateAvailable
		ticket.NationalID = ""
		ticket.FirstName = ""
		ticket.LastName = ""
		ticket.Phone = ""
		ticket.Bank = ""
		ticket.Reference = ""
		ticket.TransferImage = ""
		ticket.PurchasedAt = nil

		// Save writes zero values too, which is exactly what clearing
		// the buyer and payment columns needs.
		return tx.Save(&ticket).Error
	})
	if err != nil {
		return Ticket{}, err
	}

	return ticket, nil
}
