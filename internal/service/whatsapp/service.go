package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/config"
	"github.com/mamadbah2/cement/internal/domain/models"
	"github.com/mamadbah2/cement/internal/service/commands"
	client "github.com/mamadbah2/cement/pkg/clients/whatsapp"
)

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	sessions   *SessionManager
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, sessions *SessionManager, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		sessions:   sessions,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.sessions == nil {
		svc.sessions = NewSessionManager(DefaultConfirmationTTL)
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, msg := range payload.Messages() {
		if err := s.handleInboundMessage(ctx, msg); err != nil {
			s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := msg.Body()
	if text == "" {
		return errors.New("empty message body")
	}

	cmd := models.ParseCommand(text)

	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply := s.reply(ctx, msg.From, cmd)
	return s.send(ctx, msg.From, reply)
}

// reply runs cmd for sender and returns the text to send back.
func (s *MetaWhatsAppService) reply(ctx context.Context, sender string, cmd models.Command) string {
	prefix := ""
	if pending, ok := s.sessions.Take(sender); ok {
		switch cmd.Type {
		case models.CommandConfirm:
			return s.run(ctx, sender, pending)
		case models.CommandCancel:
			return "Cancelled. Nothing was deleted."
		}
		prefix = "Pending deletion cancelled.\n\n"
	}

	switch {
	case cmd.Type == models.CommandConfirm || cmd.Type == models.CommandCancel:
		return prefix + "Nothing is waiting for confirmation."
	case cmd.Type == models.CommandHelp || cmd.Type == models.CommandUnknown:
		return prefix + helpText()
	case cmd.Type.RequiresConfirmation():
		prompt, err := s.dispatcher.Describe(cmd)
		if err != nil {
			return prefix + s.errorReply(cmd, err)
		}
		s.sessions.Await(sender, cmd)
		return prefix + prompt
	default:
		return prefix + s.run(ctx, sender, cmd)
	}
}

func (s *MetaWhatsAppService) run(ctx context.Context, sender string, cmd models.Command) string {
	reply, err := s.dispatcher.HandleCommand(ctx, cmd, sender)
	if err != nil {
		return s.errorReply(cmd, err)
	}
	return reply
}

func (s *MetaWhatsAppService) errorReply(cmd models.Command, err error) string {
	switch {
	case errors.Is(err, commands.ErrInvalidArguments):
		return fmt.Sprintf("Could not read that command.\nUsage: %s", models.Usage[cmd.Type].Example)
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return helpText()
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrInsufficientStock):
		return "Error: " + err.Error()
	default:
		s.logger.Error("command failed", zap.String("command", string(cmd.Type)), zap.Error(err))
		return "Something went wrong while saving. Nothing was changed, please try again."
	}
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         to,
		Body:       body,
		PreviewURL: false,
	})
	return err
}

// SendOutbound lets internal operators push quick notifications via HTTP.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	return s.send(ctx, req.To, req.Message)
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Cement tracker commands:")
	for _, t := range models.HelpOrder {
		usage := models.Usage[t]
		fmt.Fprintf(&b, "\n- %s: %s", usage.Title, usage.Example)
	}
	return b.String()
}
