package orders

import (
	"strings"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Checkout collects the buyer's decisions in the order they are made:
// fulfillment, delivery details when delivering, payment method, and the
// buyer's confirmation that payment was made. Validate checks all of them
// together.
type Checkout struct {
	fulfillment enums.DeliveryType
	info        *models.DeliveryInfo
	payment     string
	confirmed   bool
}

func NewCheckout() *Checkout { return &Checkout{} }

func (c *Checkout) Pickup() *Checkout {
	c.fulfillment = enums.DeliveryTypePickup
	c.info = nil
	return c
}

func (c *Checkout) Delivery(info models.DeliveryInfo) *Checkout {
	c.fulfillment = enums.DeliveryTypeDelivery
	info.Class = strings.TrimSpace(info.Class)
	info.Roll = strings.TrimSpace(info.Roll)
	info.Time = strings.TrimSpace(info.Time)
	c.info = &info
	return c
}

func (c *Checkout) Pay(method string) *Checkout {
	c.payment = method
	return c
}

// Confirm records the buyer's statement that payment was made. It is not
// verified against any processor.
func (c *Checkout) Confirm(paid bool) *Checkout {
	c.confirmed = paid
	return c
}

func (c *Checkout) Fulfillment() enums.DeliveryType { return c.fulfillment }

// Validate reports the first missing or invalid decision.
func (c *Checkout) Validate() error {
	if !c.fulfillment.IsValid() {
		return errs.Invalid("delivery_type", "must be pickup or delivery")
	}
	if c.fulfillment == enums.DeliveryTypeDelivery {
		if err := validateDeliveryInfo(c.info); err != nil {
			return err
		}
	}
	if _, err := c.paymentMethod(); err != nil {
		return err
	}
	if !c.confirmed {
		return errs.Invalid("payment", "must be confirmed before placing the order")
	}
	return nil
}

func (c *Checkout) paymentMethod() (enums.PaymentMethod, error) {
	pm, err := enums.ParsePaymentMethod(c.payment)
	if err != nil {
		return "", errs.Invalid("payment_method", "must be Cash or UPI")
	}
	return pm, nil
}

func validateDeliveryInfo(info *models.DeliveryInfo) error {
	if info == nil {
		return errs.New(errs.CodeIncompleteDeliveryInfo, "delivery details are required").
			WithDetails(map[string]string{"class": "is required", "roll": "is required", "time": "is required"})
	}
	err := validate.Struct(info)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.Wrap(errs.CodeIncompleteDeliveryInfo, err, "delivery details are incomplete")
	}
	missing := map[string]string{}
	for _, fe := range fieldErrs {
		missing[strings.ToLower(fe.Field())] = "is required"
	}
	return errs.New(errs.CodeIncompleteDeliveryInfo, "delivery details are incomplete").WithDetails(missing)
}
