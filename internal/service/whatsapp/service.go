package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/config"
	"github.com/mamadbah2/smartbell/internal/domain/models"
	"github.com/mamadbah2/smartbell/internal/service/commands"
	client "github.com/mamadbah2/smartbell/pkg/clients/whatsapp"
)

// ErrMessagingDisabled is returned when no WhatsApp client is configured.
var ErrMessagingDisabled = errors.New("whatsapp messaging is not configured")

// MessagingService describes the operations the HTTP layer and scheduler can perform.
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
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. A nil client disables outbound delivery.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
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

	if s.cfg.VerifyToken == "" || verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes every inbound message and returns the first failure.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, msg := range payload.AllMessages() {
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
		s.logger.Debug("ignoring message without text", zap.String("type", msg.Type), zap.String("message_id", msg.ID))
		return nil
	}

	cmd := models.ParseCommand(text)

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	if err != nil {
		s.logger.Info("command rejected",
			zap.String("from", msg.From),
			zap.String("command", string(cmd.Type)),
			zap.Error(err))
		reply = replyForError(cmd, err)
	} else {
		s.logger.Info("command handled",
			zap.String("from", msg.From),
			zap.String("command", string(cmd.Type)),
			zap.Strings("args", cmd.Args))
	}

	return s.send(ctx, msg.From, reply, false)
}

// SendOutbound lets internal operators and the scheduler push notifications.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	return s.send(ctx, req.To, req.Message, req.PreviewURL)
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body string, previewURL bool) error {
	if s.client == nil {
		return ErrMessagingDisabled
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         to,
		Body:       body,
		PreviewURL: previewURL,
	})
	return err
}

var usage = map[models.CommandType]string{
	models.CommandMilk: "Usage: /milk <tag> <liters> [morning|afternoon|evening] [notes], e.g. /milk Bonita 12.5 morning",
	models.CommandDone: "Usage: /done <task id>",
}

func replyForError(cmd models.Command, err error) string {
	switch {
	case errors.Is(err, commands.ErrInvalidArguments):
		if u, ok := usage[cmd.Type]; ok {
			return u
		}
		return commands.HelpText
	case errors.Is(err, commands.ErrUnknownCattle):
		return fmt.Sprintf("No animal with tag %q on this ranch.", firstArg(cmd))
	case errors.Is(err, commands.ErrTaskNotFound):
		return fmt.Sprintf("No task with id %q.", firstArg(cmd))
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return "Unknown command.\n" + commands.HelpText
	default:
		return "Something went wrong, please try again."
	}
}

func firstArg(cmd models.Command) string {
	if len(cmd.Args) == 0 {
		return ""
	}
	return cmd.Args[0]
}
