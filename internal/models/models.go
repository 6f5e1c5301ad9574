package models

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/martium/fsh/internal/shared"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

var hundred = decimal.NewFromInt(100)

// ServiceSummary is the list view projection of a funeral service.
type ServiceSummary struct {
	OrderNumber          int    `json:"order_number"`
	ServiceDates         string `json:"service_dates"`
	CustomerNames        string `json:"customer_names"`
	CustomerPhoneNumbers string `json:"customer_phone_numbers"`
	DepartedInfo         string `json:"departed_info"`
}

// ServiceRecord is the full detail of a funeral service.
//
// OrderNumber is assigned by the store and ignored on writes.
type ServiceRecord struct {
	OrderNumber               int             `json:"order_number" toml:"-"`
	OrderDate                 string          `json:"order_date" toml:"order_date"`
	CustomerNames             string          `json:"customer_names" toml:"customer_names"`
	CustomerPhoneNumbers      string          `json:"customer_phone_numbers" toml:"customer_phone_numbers"`
	CustomerEmails            string          `json:"customer_emails" toml:"customer_emails"`
	CustomerAddresses         string          `json:"customer_addresses" toml:"customer_addresses"`
	ServiceDates              string          `json:"service_dates" toml:"service_dates"`
	ServicePlaces             string          `json:"service_places" toml:"service_places"`
	ServiceTypes              string          `json:"service_types" toml:"service_types"`
	ServiceDuration           string          `json:"service_duration" toml:"service_duration"`
	ServiceMusiciansCount     int             `json:"service_musicians_count" toml:"service_musicians_count" validate:"gte=0"`
	ServiceMusicProgram       string          `json:"service_music_program" toml:"service_music_program"`
	DepartedInfo              string          `json:"departed_info" toml:"departed_info"`
	DepartedConfession        string          `json:"departed_confession" toml:"departed_confession"`
	DepartedRemainsType       string          `json:"departed_remains_type" toml:"departed_remains_type"`
	ServiceMusicianUnitPrices string          `json:"service_musician_unit_prices" toml:"service_musician_unit_prices"`
	ServiceDiscountPercentage decimal.Decimal `json:"service_discount_percentage" toml:"service_discount_percentage"`
	ServicePaymentAmount      decimal.Decimal `json:"service_payment_amount" toml:"service_payment_amount"`
	ServicePaymentType        string          `json:"service_payment_type" toml:"service_payment_type"`
	ServiceDescription        string          `json:"service_description" toml:"service_description"`
}

// Validate checks the numeric fields. Text fields carry no format rules.
func (r *ServiceRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if r.ServiceDiscountPercentage.IsNegative() || r.ServiceDiscountPercentage.GreaterThan(hundred) {
		return fmt.Errorf("%w: discount percentage %s is outside 0..100", shared.ErrInvalidInput, r.ServiceDiscountPercentage)
	}
	if r.ServicePaymentAmount.IsNegative() {
		return fmt.Errorf("%w: payment amount %s is negative", shared.ErrInvalidInput, r.ServicePaymentAmount)
	}
	return nil
}

// Summary projects the record onto its list view fields.
func (r *ServiceRecord) Summary() ServiceSummary {
	return ServiceSummary{
		OrderNumber:          r.OrderNumber,
		ServiceDates:         r.ServiceDates,
		CustomerNames:        r.CustomerNames,
		CustomerPhoneNumbers: r.CustomerPhoneNumbers,
		DepartedInfo:         r.DepartedInfo,
	}
}

// Equal reports whether both records hold the same values. Amounts compare numerically,
// so 12.50 equals 12.5.
func (r *ServiceRecord) Equal(o *ServiceRecord) bool {
	if r == nil || o == nil {
		return r == o
	}
	a, b := *r, *o
	if !a.ServiceDiscountPercentage.Equal(b.ServiceDiscountPercentage) || !a.ServicePaymentAmount.Equal(b.ServicePaymentAmount) {
		return false
	}
	a.ServiceDiscountPercentage, b.ServiceDiscountPercentage = decimal.Zero, decimal.Zero
	a.ServicePaymentAmount, b.ServicePaymentAmount = decimal.Zero, decimal.Zero
	return a == b
}

// Clone returns a copy suitable for the copy operation: same fields, no order number.
func (r *ServiceRecord) Clone() *ServiceRecord {
	c := *r
	c.OrderNumber = 0
	return &c
}

// RecordStore is the persistence contract for funeral services.
//
// Writes report success as a boolean (exactly one row affected); errors are reserved for
// an unavailable store, invalid input or failed statements.
type RecordStore interface {
	List(ctx context.Context, searchPhrase string) ([]ServiceSummary, error) // List returns summaries newest first, optionally filtered
	Get(ctx context.Context, orderNumber int) (*ServiceRecord, error)        // Get returns the full record for an order number
	NextOrderNumber(ctx context.Context) (int, error)                        // NextOrderNumber returns the advisory next identifier
	Create(ctx context.Context, record *ServiceRecord) (bool, error)          // Create inserts a record and assigns its order number
	Update(ctx context.Context, orderNumber int, record *ServiceRecord) (bool, error)
}

// Operation is the mode a record form is opened in.
type Operation int

const (
	OperationCreate Operation = iota
	OperationEdit
	OperationCopy
)

func (o Operation) String() string {
	switch o {
	case OperationCreate:
		return "create"
	case OperationEdit:
		return "edit"
	case OperationCopy:
		return "copy"
	default:
		return ""
	}
}

// CreatesRecord reports whether saving in this mode inserts a new row.
func (o Operation) CreatesRecord() bool {
	return o == OperationCreate || o == OperationCopy
}
