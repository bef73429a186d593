package orders

import (
	"fmt"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
)

// StatusMode selects the status progression. Linear is the normal mode;
// binary mirrors older builds that only knew pending and completed.
type StatusMode string

const (
	StatusModeLinear StatusMode = "linear"
	StatusModeBinary StatusMode = "binary"
)

func ParseStatusMode(value string) (StatusMode, error) {
	switch StatusMode(value) {
	case StatusModeLinear, StatusModeBinary:
		return StatusMode(value), nil
	case "":
		return StatusModeLinear, nil
	}
	return "", fmt.Errorf("invalid status mode %q", value)
}

var validNext = map[StatusMode]map[enums.OrderStatus]enums.OrderStatus{
	StatusModeLinear: {
		enums.OrderStatusPending:   enums.OrderStatusPreparing,
		enums.OrderStatusPreparing: enums.OrderStatusReady,
		enums.OrderStatusReady:     enums.OrderStatusCompleted,
	},
	StatusModeBinary: {
		enums.OrderStatusPending:   enums.OrderStatusCompleted,
		enums.OrderStatusPreparing: enums.OrderStatusCompleted,
		enums.OrderStatusReady:     enums.OrderStatusCompleted,
	},
}

// NextStatus returns the single status reachable from from.
func NextStatus(mode StatusMode, from enums.OrderStatus) (enums.OrderStatus, bool) {
	next, ok := validNext[mode][from]
	return next, ok
}

func CanTransition(mode StatusMode, from, to enums.OrderStatus) bool {
	next, ok := NextStatus(mode, from)
	return ok && next == to
}
