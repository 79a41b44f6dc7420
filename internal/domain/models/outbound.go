package models

// OutboundMessageRequest represents requests to send a message manually via the API.
type OutboundMessageRequest struct {
	To      string `json:"to" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// CommandUsage describes how a staff member writes one command.
type CommandUsage struct {
	Title   string `json:"title"`
	Example string `json:"example"`
}

// Usage is the help text shown for each command.
var Usage = map[CommandType]CommandUsage{
	CommandSale: {
		Title:   "Record a sale",
		Example: "sale <shop#> <dangote|ashaka> <bags> <price> <transfer> [expenses] [notes], e.g. sale 1 dangote 100 4000 380000 5000",
	},
	CommandEdit: {
		Title:   "Edit a sale",
		Example: "edit <saleID> <shop#> <type> <bags> <price> <transfer> [expenses] [notes]",
	},
	CommandDelivery: {
		Title:   "Record a delivery",
		Example: "delivery <shop#> <type> <bags> [YYYY-MM-DD], e.g. delivery 1 dangote 600",
	},
	CommandStock: {
		Title:   "Stock levels",
		Example: "stock [shop#]",
	},
	CommandSummary: {
		Title:   "Sales summary",
		Example: "summary",
	},
	CommandDeleteSale: {
		Title:   "Delete a sale",
		Example: "delete-sale <saleID>",
	},
	CommandDeleteDelivery: {
		Title:   "Delete a delivery",
		Example: "delete-delivery <shop#> <deliveryID>",
	},
}

// HelpOrder is the order commands are listed in the help message.
var HelpOrder = []CommandType{
	CommandSale, CommandEdit, CommandDelivery, CommandStock, CommandSummary, CommandDeleteSale, CommandDeleteDelivery,
}
