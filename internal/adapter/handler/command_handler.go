package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/almazuulu/inventory-mgmt-tool/internal/core/domain"
	"github.com/almazuulu/inventory-mgmt-tool/internal/core/service"
)

var ErrInvalidCommand = errors.New("invalid command")

const (
	respOK    = "OK"
	respEmpty = "EMPTY"
	errPrefix = "ERR: "
)

// CommandHandler turns text commands into engine operations and engine
// results back into response lines.
type CommandHandler struct {
	engine *service.Engine
}

func NewCommandHandler(engine *service.Engine) *CommandHandler {
	return &CommandHandler{engine: engine}
}

// Handle parses and executes one input line. Blank lines yield an
// empty response and are not forwarded to the engine.
func (h *CommandHandler) Handle(ctx context.Context, line string) string {
	if strings.TrimSpace(line) == "" {
		return ""
	}

	op, err := Parse(line)
	if err != nil {
		return errPrefix + err.Error()
	}

	res, err := h.engine.Execute(ctx, op)
	if err != nil {
		return errPrefix + err.Error()
	}

	return format(op, res)
}

// Parse converts one command line into an operation. Command words are
// case-insensitive; location and item ids are taken verbatim.
func Parse(line string) (domain.Operation, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return domain.Operation{}, fmt.Errorf("%w: need a command group and an operation", ErrInvalidCommand)
	}

	group := strings.ToUpper(tokens[0])
	verb := strings.ToUpper(tokens[1])
	args := tokens[2:]

	switch group {
	case "LOCATION":
		return parseLocation(verb, args)
	case "INVENTORY":
		return parseInventory(verb, args)
	default:
		return domain.Operation{}, fmt.Errorf("%w: unknown domain: %s", ErrInvalidCommand, tokens[0])
	}
}

func parseLocation(verb string, args []string) (domain.Operation, error) {
	var kind domain.OpKind
	switch verb {
	case "REGISTER":
		kind = domain.OpRegisterLocation
	case "UNREGISTER":
		kind = domain.OpUnregisterLocation
	default:
		return domain.Operation{}, fmt.Errorf("%w: unknown LOCATION operation: %s", ErrInvalidCommand, verb)
	}

	if len(args) != 1 {
		return domain.Operation{}, fmt.Errorf("%w: LOCATION %s takes 1 argument, got %d", ErrInvalidCommand, verb, len(args))
	}
	if err := validateID(args[0], "location_id"); err != nil {
		return domain.Operation{}, err
	}

	return domain.Operation{Kind: kind, Location: args[0]}, nil
}

func parseInventory(verb string, args []string) (domain.Operation, error) {
	switch verb {
	case "INCREMENT", "DECREMENT":
		if len(args) != 3 {
			return domain.Operation{}, fmt.Errorf("%w: INVENTORY %s takes 3 arguments, got %d", ErrInvalidCommand, verb, len(args))
		}
		if err := validateID(args[0], "location_id"); err != nil {
			return domain.Operation{}, err
		}
		if err := validateID(args[1], "item_id"); err != nil {
			return domain.Operation{}, err
		}
		qty, err := parseQuantity(args[2])
		if err != nil {
			return domain.Operation{}, err
		}
		kind := domain.OpIncrement
		if verb == "DECREMENT" {
			kind = domain.OpDecrement
		}
		return domain.Operation{Kind: kind, Location: args[0], Item: args[1], Quantity: qty}, nil

	case "TRANSFER":
		if len(args) != 4 {
			return domain.Operation{}, fmt.Errorf("%w: INVENTORY TRANSFER takes 4 arguments, got %d", ErrInvalidCommand, len(args))
		}
		if err := validateID(args[0], "from_location_id"); err != nil {
			return domain.Operation{}, err
		}
		if err := validateID(args[1], "to_location_id"); err != nil {
			return domain.Operation{}, err
		}
		if err := validateID(args[2], "item_id"); err != nil {
			return domain.Operation{}, err
		}
		qty, err := parseQuantity(args[3])
		if err != nil {
			return domain.Operation{}, err
		}
		return domain.Operation{Kind: domain.OpTransfer, Location: args[0], Target: args[1], Item: args[2], Quantity: qty}, nil

	case "OBSERVE":
		if len(args) != 1 {
			return domain.Operation{}, fmt.Errorf("%w: INVENTORY OBSERVE takes 1 argument, got %d", ErrInvalidCommand, len(args))
		}
		if err := validateID(args[0], "location_id"); err != nil {
			return domain.Operation{}, err
		}
		return domain.Operation{Kind: domain.OpObserve, Location: args[0]}, nil

	default:
		return domain.Operation{}, fmt.Errorf("%w: unknown INVENTORY operation: %s", ErrInvalidCommand, verb)
	}
}

func validateID(id, name string) error {
	if id == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidCommand, name)
	}
	// Underscores alone do not make an identifier.
	hasAlnum := false
	for _, r := range id {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			hasAlnum = true
		case r == '_':
		default:
			return errInvalidID(name, id)
		}
	}
	if !hasAlnum {
		return errInvalidID(name, id)
	}
	return nil
}

func errInvalidID(name, id string) error {
	return fmt.Errorf("%w: %s must be alphanumeric (underscores allowed), got %q", ErrInvalidCommand, name, id)
}

func parseQuantity(token string) (int, error) {
	qty, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid quantity: %q is not an integer", ErrInvalidCommand, token)
	}
	if qty <= 0 {
		return 0, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidCommand)
	}
	return qty, nil
}

func format(op domain.Operation, res domain.Result) string {
	if op.Kind != domain.OpObserve {
		return respOK
	}
	if len(res.Items) == 0 {
		return respEmpty
	}

	lines := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		lines = append(lines, fmt.Sprintf("ITEM %s %d", item.Item, item.Quantity))
	}
	return strings.Join(lines, "\n")
}
