package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/martium/fsh/internal/shared"
	"github.com/shopspring/decimal"
)

// FieldKind tells editors how a field's text is parsed.
type FieldKind int

const (
	TextField FieldKind = iota
	LongTextField // free text that may span lines
	IntegerField
	DecimalField
)

// Field describes one editable [ServiceRecord] field.
type Field struct {
	Key   string // kebab-case key used for CLI flags and export headers
	Label string // human readable label
	Kind  FieldKind
	Group string // form section: order, customer, service, departed, payment
	Get   func(r *ServiceRecord) string
	Set   func(r *ServiceRecord, value string) error
}

// PhoneNumbersKey is the key of the customer phone numbers field, which display code formats per region.
const PhoneNumbersKey = "customer-phones"

// RecordFields lists every editable field in display order.
var RecordFields = []Field{
	textField("order-date", "Order date", "order", func(r *ServiceRecord) *string { return &r.OrderDate }),
	textField("customer-names", "Customer names", "customer", func(r *ServiceRecord) *string { return &r.CustomerNames }),
	textField(PhoneNumbersKey, "Customer phone numbers", "customer", func(r *ServiceRecord) *string { return &r.CustomerPhoneNumbers }),
	textField("customer-emails", "Customer emails", "customer", func(r *ServiceRecord) *string { return &r.CustomerEmails }),
	longTextField("customer-addresses", "Customer addresses", "customer", func(r *ServiceRecord) *string { return &r.CustomerAddresses }),
	textField("service-dates", "Service dates", "service", func(r *ServiceRecord) *string { return &r.ServiceDates }),
	textField("service-places", "Service places", "service", func(r *ServiceRecord) *string { return &r.ServicePlaces }),
	textField("service-types", "Service types", "service", func(r *ServiceRecord) *string { return &r.ServiceTypes }),
	textField("service-duration", "Service duration", "service", func(r *ServiceRecord) *string { return &r.ServiceDuration }),
	{
		Key:   "musicians-count",
		Label: "Musicians count",
		Kind:  IntegerField,
		Group: "service",
		Get:   func(r *ServiceRecord) string { return strconv.Itoa(r.ServiceMusiciansCount) },
		Set: func(r *ServiceRecord, value string) error {
			value = strings.TrimSpace(value)
			if value == "" {
				r.ServiceMusiciansCount = 0
				return nil
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: musicians count %q is not a whole number", shared.ErrInvalidInput, value)
			}
			r.ServiceMusiciansCount = n
			return nil
		},
	},
	longTextField("music-program", "Music program", "service", func(r *ServiceRecord) *string { return &r.ServiceMusicProgram }),
	longTextField("departed-info", "Departed info", "departed", func(r *ServiceRecord) *string { return &r.DepartedInfo }),
	textField("departed-confession", "Departed confession", "departed", func(r *ServiceRecord) *string { return &r.DepartedConfession }),
	textField("departed-remains-type", "Remains type", "departed", func(r *ServiceRecord) *string { return &r.DepartedRemainsType }),
	textField("musician-unit-prices", "Musician unit prices", "payment", func(r *ServiceRecord) *string { return &r.ServiceMusicianUnitPrices }),
	decimalField("discount-percentage", "Discount percentage", func(r *ServiceRecord) *decimal.Decimal { return &r.ServiceDiscountPercentage }),
	decimalField("payment-amount", "Payment amount", func(r *ServiceRecord) *decimal.Decimal { return &r.ServicePaymentAmount }),
	textField("payment-type", "Payment type", "payment", func(r *ServiceRecord) *string { return &r.ServicePaymentType }),
	longTextField("service-description", "Service description", "payment", func(r *ServiceRecord) *string { return &r.ServiceDescription }),
}

// ParseDecimal parses an amount, accepting a comma as the decimal separator.
// Blank input is zero.
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", shared.ErrInvalidInput, value)
	}
	return d, nil
}

func textField(key, label, group string, ptr func(r *ServiceRecord) *string) Field {
	return Field{
		Key:   key,
		Label: label,
		Kind:  TextField,
		Group: group,
		Get:   func(r *ServiceRecord) string { return *ptr(r) },
		Set: func(r *ServiceRecord, value string) error {
			*ptr(r) = value
			return nil
		},
	}
}

func longTextField(key, label, group string, ptr func(r *ServiceRecord) *string) Field {
	f := textField(key, label, group, ptr)
	f.Kind = LongTextField
	return f
}

func decimalField(key, label string, ptr func(r *ServiceRecord) *decimal.Decimal) Field {
	return Field{
		Key:   key,
		Label: label,
		Kind:  DecimalField,
		Group: "payment",
		Get:   func(r *ServiceRecord) string { return ptr(r).String() },
		Set: func(r *ServiceRecord, value string) error {
			d, err := ParseDecimal(value)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			*ptr(r) = d
			return nil
		},
	}
}
