package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/currency"
	"github.com/mamadbah2/cement/internal/domain/models"
	"github.com/mamadbah2/cement/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// Ledger is the subset of the reconciliation engine the dispatcher drives.
type Ledger interface {
	CreateSale(ctx context.Context, in models.SaleInput) (models.SaleRecord, error)
	UpdateSale(ctx context.Context, id string, in models.SaleInput) (models.SaleRecord, error)
	DeleteSale(ctx context.Context, id string) (models.SaleRecord, error)
	AddDelivery(ctx context.Context, shop string, stockType models.StockType, quantity int, date models.Date) (models.DeliveryRecord, error)
	DeleteDelivery(ctx context.Context, shop, deliveryID string) (models.DeliveryRecord, error)
	Sale(id string) (models.SaleRecord, error)
	Delivery(shop, id string) (models.DeliveryRecord, error)
	ShopInventory(shop string) (models.ShopInventory, error)
	Inventory() models.InventoryData
}

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	Summary(f models.SalesFilter) models.SalesReport
}

// Dispatcher executes parsed commands against the ledger.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
	Describe(cmd models.Command) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	ledger    Ledger
	reporting ReportingAdapter
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a command dispatcher. Sale dates default to the
// current day in loc.
func NewService(ledger Ledger, reporting ReportingAdapter, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		ledger:    ledger,
		reporting: reporting,
		logger:    logger,
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// HandleCommand runs the command and returns the reply for the sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	today := models.DateOf(s.now())

	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandSale:
		in, err := parseSaleArgs(cmd.Args, today)
		if err != nil {
			return "", err
		}
		rec, err := s.ledger.CreateSale(ctx, in)
		if err != nil {
			return "", err
		}
		return s.saleReply("Sale recorded", rec), nil
	case models.CommandEdit:
		if len(cmd.Args) < 1 {
			return "", ErrInvalidArguments
		}
		original, err := s.ledger.Sale(cmd.Args[0])
		if err != nil {
			return "", err
		}
		in, err := parseSaleArgs(cmd.Args[1:], original.Date)
		if err != nil {
			return "", err
		}
		rec, err := s.ledger.UpdateSale(ctx, original.ID, in)
		if err != nil {
			return "", err
		}
		return s.saleReply("Sale updated", rec), nil
	case models.CommandDelivery:
		shop, stockType, qty, date, err := parseDeliveryArgs(cmd.Args, today)
		if err != nil {
			return "", err
		}
		rec, err := s.ledger.AddDelivery(ctx, shop, stockType, qty, date)
		if err != nil {
			return "", err
		}
		message := fmt.Sprintf("Delivery recorded (ID %s): %d %s bags to %s on %s.", rec.ID, rec.Quantity, rec.StockType, shop, rec.Date)
		if left, ok := s.available(shop, stockType); ok {
			message += fmt.Sprintf(" Stock now %d.", left)
		}
		return message, nil
	case models.CommandStock:
		var shops []string
		if len(cmd.Args) > 0 {
			shop, err := models.ResolveShop(cmd.Args[0])
			if err != nil {
				return "", err
			}
			shops = []string{shop}
		}
		return reporting.FormatStock(s.ledger.Inventory(), shops), nil
	case models.CommandSummary:
		filter := models.SalesFilter{}
		title := "Sales summary (all shops)"
		if len(cmd.Args) > 0 {
			shop, err := models.ResolveShop(cmd.Args[0])
			if err != nil {
				return "", err
			}
			filter.Shop = shop
			title = fmt.Sprintf("Sales summary (%s)", shop)
		}
		return reporting.FormatSummary(title, s.reporting.Summary(filter)), nil
	case models.CommandDeleteSale:
		if len(cmd.Args) != 1 {
			return "", ErrInvalidArguments
		}
		rec, err := s.ledger.DeleteSale(ctx, cmd.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Sale %s deleted. %d %s bags returned to %s.", rec.ID, rec.BagsSold, rec.StockType, rec.ShopName), nil
	case models.CommandDeleteDelivery:
		shop, id, err := parseDeliveryRef(cmd.Args)
		if err != nil {
			return "", err
		}
		rec, err := s.ledger.DeleteDelivery(ctx, shop, id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Delivery %s deleted. %d %s bags removed from %s.", rec.ID, rec.Quantity, rec.StockType, shop), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

// Describe checks that a destructive command targets an existing record and
// returns the confirmation question to ask.
func (s *Service) Describe(cmd models.Command) (string, error) {
	switch cmd.Type {
	case models.CommandDeleteSale:
		if len(cmd.Args) != 1 {
			return "", ErrInvalidArguments
		}
		rec, err := s.ledger.Sale(cmd.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Delete sale %s (%s, %d %s bags on %s)? Reply yes to confirm or no to cancel.",
			rec.ID, rec.ShopName, rec.BagsSold, rec.StockType, rec.Date), nil
	case models.CommandDeleteDelivery:
		shop, id, err := parseDeliveryRef(cmd.Args)
		if err != nil {
			return "", err
		}
		rec, err := s.ledger.Delivery(shop, id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Delete delivery %s (%s, %d %s bags on %s)? Reply yes to confirm or no to cancel.",
			rec.ID, shop, rec.Quantity, rec.StockType, rec.Date), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) saleReply(prefix string, rec models.SaleRecord) string {
	message := fmt.Sprintf("%s (ID %s): %s, %d %s bags @ %s on %s.\nExpected %s, received %s, expenses %s, discrepancy %s.",
		prefix, rec.ID, rec.ShopName, rec.BagsSold, rec.StockType, currency.Format(rec.PricePerBag), rec.Date,
		currency.Format(rec.ExpectedRevenue), currency.Format(rec.TotalTransfer), currency.Format(rec.Expenses),
		currency.FormatDiscrepancy(rec.Discrepancy))
	if left, ok := s.available(rec.ShopName, rec.StockType); ok {
		message += fmt.Sprintf("\n%s %s stock left: %d.", rec.ShopName, rec.StockType, left)
	}
	return message
}

func (s *Service) available(shop string, t models.StockType) (int, bool) {
	inv, err := s.ledger.ShopInventory(shop)
	if err != nil {
		s.logger.Debug("stock lookup after command failed", zap.String("shop", shop), zap.Error(err))
		return 0, false
	}
	return inv.CurrentStock[t], true
}

// parseSaleArgs reads "<shop#> <type> <bags> <price> <transfer> [expenses] [notes...]".
func parseSaleArgs(args []string, date models.Date) (models.SaleInput, error) {
	if len(args) < 5 {
		return models.SaleInput{}, ErrInvalidArguments
	}

	shop, err := models.ResolveShop(args[0])
	if err != nil {
		return models.SaleInput{}, err
	}
	stockType, err := models.ParseStockType(args[1])
	if err != nil {
		return models.SaleInput{}, err
	}
	bags, err := strconv.Atoi(args[2])
	if err != nil {
		return models.SaleInput{}, ErrInvalidArguments
	}
	price, err := currency.Parse(args[3])
	if err != nil {
		return models.SaleInput{}, ErrInvalidArguments
	}
	transfer, err := currency.Parse(args[4])
	if err != nil {
		return models.SaleInput{}, ErrInvalidArguments
	}

	expenses := decimal.Zero
	idx := 5
	if len(args) > 5 {
		if v, err := currency.Parse(args[5]); err == nil {
			expenses = v
			idx = 6
		}
	}

	notes := ""
	if len(args) > idx {
		notes = strings.Join(args[idx:], " ")
	}

	return models.SaleInput{
		Date:          date,
		ShopName:      shop,
		StockType:     stockType,
		BagsSold:      bags,
		PricePerBag:   price,
		TotalTransfer: transfer,
		Expenses:      expenses,
		Notes:         notes,
	}, nil
}

// parseDeliveryArgs reads "<shop#> <type> <quantity> [YYYY-MM-DD]".
func parseDeliveryArgs(args []string, today models.Date) (string, models.StockType, int, models.Date, error) {
	if len(args) < 3 || len(args) > 4 {
		return "", "", 0, models.Date{}, ErrInvalidArguments
	}

	shop, err := models.ResolveShop(args[0])
	if err != nil {
		return "", "", 0, models.Date{}, err
	}
	stockType, err := models.ParseStockType(args[1])
	if err != nil {
		return "", "", 0, models.Date{}, err
	}
	qty, err := strconv.Atoi(args[2])
	if err != nil {
		return "", "", 0, models.Date{}, ErrInvalidArguments
	}

	date := today
	if len(args) == 4 {
		if date, err = models.ParseDate(args[3]); err != nil {
			return "", "", 0, models.Date{}, err
		}
	}
	return shop, stockType, qty, date, nil
}

func parseDeliveryRef(args []string) (string, string, error) {
	if len(args) != 2 {
		return "", "", ErrInvalidArguments
	}
	shop, err := models.ResolveShop(args[0])
	if err != nil {
		return "", "", err
	}
	return shop, args[1], nil
}
