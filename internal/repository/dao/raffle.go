package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrRaffleNotFound     = errors.New("raffle not found")
	ErrNoActiveRaffle     = errors.New("no active raffle")
	ErrActiveRaffleExists = errors.New("an active raffle already exists")
)

type Raffle struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Description string `gorm:"not null"`
	Prize       string `gorm:"not null"`
	ImageURL    string

	Price       float64 `gorm:"type:decimal(6,2);not null"`
	TicketCount int     `gorm:"not null;default:10000"`

	StartDate time.Time `gorm:"not null"`
	DrawDate  time.Time `gorm:"not null"`

	// The partial unique index lets the database reject a second
	// active raffle even when two creates race past the count check.
	Active bool `gorm:"not null;default:false;index;uniqueIndex:idx_single_active_raffle,where:active = true"`

	Tickets []Ticket `gorm:"foreignKey:RaffleID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type RaffleDAO struct {
	db *gorm.DB
}

func NewRaffleDAO(db *gorm.DB) *RaffleDAO {
	return &RaffleDAO{
		db: db,
	}
}

// Insert persists a new raffle. When the raffle is marked active the
// insert is rejected if another active raffle already exists, so the
// single-active invariant fails fast at write time instead of
// degrading at query time. The count check gives the readable error;
// the partial unique index on active raffles closes the race two
// concurrent creates would otherwise win together, and its violation
// maps to the same sentinel.
func (d *RaffleDAO) Insert(ctx context.Context, raffle Raffle) (Raffle, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if raffle.Active {
			var count int64
			if err := tx.Model(&Raffle{}).Where("active = ?", true).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrActiveRaffleExists
			}
		}

		return tx.Create(&raffle).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Raffle{}, ErrActiveRaffleExists
		}

		return Raffle{}, err
	}

	return raffle, nil
}

// FindActive returns the single raffle with active = true. Zero active
// raffles and more than one active raffle are both reported as
// ErrNoActiveRaffle: an operator misconfiguration must read the same
// as absence to the buyer-facing flows.
func (d *RaffleDAO) FindActive(ctx context.Context) (Raffle, error) {
	var raffles []Raffle

	result := d.db.WithContext(ctx).Where("active = ?", true).Limit(2).Find(&raffles)
	if result.Error != nil {
		return Raffle{}, result.Error
	}

	if len(raffles) != 1 {
		return Raffle{}, ErrNoActiveRaffle
	}

	return raffles[0], nil
}

func (d *RaffleDAO) FindByID(ctx context.Context, id uint) (Raffle, error) {
	var raffle Raffle

	result := d.db.WithContext(ctx).First(&raffle, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Raffle{}, ErrRaffleNotFound
		}

		return Raffle{}, result.Error
	}

	return raffle, nil
}

// FindFinished returns the most recently drawn inactive raffles.
func (d *RaffleDAO) FindFinished(ctx context.Context, limit int) ([]Raffle, error) {
	var raffles []Raffle

	result := d.db.WithContext(ctx).
		Where("active = ?", false).
		Order("draw_date DESC").
		Limit(limit).
		Find(&raffles)
	if result.Error != nil {
		return nil, result.Error
	}

	return raffles, nil
}

// Delete removes a raffle. Its tickets go with it through the cascade
// on the foreign key.
func (d *RaffleDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Raffle{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRaffleNotFound
	}

	return nil
}
