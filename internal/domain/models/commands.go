package models

import "strings"

// CommandType enumerates supported shop staff command categories.
type CommandType string

const (
	CommandSale           CommandType = "sale"
	CommandEdit           CommandType = "edit"
	CommandDelivery       CommandType = "delivery"
	CommandStock          CommandType = "stock"
	CommandSummary        CommandType = "summary"
	CommandDeleteSale     CommandType = "delete-sale"
	CommandDeleteDelivery CommandType = "delete-delivery"
	CommandConfirm        CommandType = "confirm"
	CommandCancel         CommandType = "cancel"
	CommandHelp           CommandType = "help"
	CommandUnknown        CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"sale":            CommandSale,
	"sales":           CommandSale,
	"sell":            CommandSale,
	"edit":            CommandEdit,
	"delivery":        CommandDelivery,
	"deliver":         CommandDelivery,
	"stock":           CommandStock,
	"summary":         CommandSummary,
	"delete-sale":     CommandDeleteSale,
	"delete-delivery": CommandDeleteDelivery,
	"yes":             CommandConfirm,
	"y":               CommandConfirm,
	"confirm":         CommandConfirm,
	"no":              CommandCancel,
	"n":               CommandCancel,
	"cancel":          CommandCancel,
	"help":            CommandHelp,
}

// RequiresConfirmation reports whether the command destroys a record and
// must be confirmed before it runs.
func (t CommandType) RequiresConfirmation() bool {
	return t == CommandDeleteSale || t == CommandDeleteDelivery
}

// Command represents a parsed staff instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// Only the command word is case-folded; arguments keep their case.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(strings.TrimSpace(message))
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	if t, ok := commandAliases[head]; ok {
		cmd.Type = t
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
