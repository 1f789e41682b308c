package request

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	// Digits only, 2 to 4 of them; the padding width of the active
	// raffle decides which lengths actually exist.
	ticketNumberRegex = regexp2.MustCompile(`^\d{2,4}$`, regexp2.None)
	phoneRegex        = regexp2.MustCompile(`^\+?\d{7,15}$`, regexp2.None)
)

type PurchaseRequest struct {
	Numbers []string `json:"numbers" binding:"required"`

	NationalID string `json:"national_id" binding:"required"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`

	Bank          string `json:"bank" binding:"required"`
	Reference     string `json:"reference" binding:"required"`
	TransferImage string `json:"transfer_image"`
}

func (req *PurchaseRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Numbers, validation.Required, validation.By(validTicketNumbers)),
		validation.Field(&req.NationalID, validation.Required, validation.Length(5, 20)),
		validation.Field(&req.FirstName, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Phone, validation.Required, validation.By(matchPattern(phoneRegex, "must be a valid phone number"))),
		validation.Field(&req.Bank, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Reference, validation.Required, validation.Length(1, 20)),
	)
}

func validTicketNumbers(value interface{}) error {
	numbers, ok := value.([]string)
	if !ok {
		return errors.New("must be a list of ticket numbers")
	}

	for _, number := range numbers {
		matched, err := ticketNumberRegex.MatchString(number)
		if err != nil || !matched {
			return fmt.Errorf("%v is not a valid ticket number", number)
		}
	}

	return nil
}

func matchPattern(re *regexp2.Regexp, message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}

		matched, err := re.MatchString(s)
		if err != nil || !matched {
			return errors.New(message)
		}

		return nil
	}
}
