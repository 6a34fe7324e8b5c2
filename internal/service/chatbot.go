package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/internal/facebook"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

// WebhookEnvelope is the Messenger Platform webhook body
type WebhookEnvelope struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry is one page entry within a webhook delivery
type WebhookEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// MessagingEvent is a single messaging event, either a message or a postback
type MessagingEvent struct {
	Sender    Participant      `json:"sender"`
	Recipient Participant      `json:"recipient"`
	Timestamp int64            `json:"timestamp"`
	Message   *ReceivedMessage `json:"message,omitempty"`
	Postback  *Postback        `json:"postback,omitempty"`
}

// Participant identifies a conversation party by page-scoped ID
type Participant struct {
	ID string `json:"id"`
}

// ReceivedMessage is an inbound user message
type ReceivedMessage struct {
	MID         string               `json:"mid"`
	Text        string               `json:"text,omitempty"`
	Attachments []ReceivedAttachment `json:"attachments,omitempty"`
}

// ReceivedAttachment is an inbound attachment reference
type ReceivedAttachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload carries the attachment URL
type AttachmentPayload struct {
	URL string `json:"url"`
}

// Postback is a button press event
type Postback struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// GraphAPI is the Messenger surface the chatbot needs
type GraphAPI interface {
	GetProfileName(ctx context.Context, psid string) (string, error)
	SendMessage(ctx context.Context, psid string, message *facebook.Message) error
}

// OrderFinder resolves a customer display name to their newest order
type OrderFinder interface {
	GetNewestByCustomerName(ctx context.Context, name string) (*domain.SaleOrder, error)
}

// ChatbotService turns Messenger events into replies about sale orders
type ChatbotService struct {
	graph            GraphAPI
	orders           OrderFinder
	orderLinkBaseURL string
	logger           *zap.Logger
}

// NewChatbotService creates a new chatbot service
func NewChatbotService(graph GraphAPI, orders OrderFinder, orderLinkBaseURL string, logger *zap.Logger) *ChatbotService {
	return &ChatbotService{
		graph:            graph,
		orders:           orders,
		orderLinkBaseURL: strings.TrimRight(orderLinkBaseURL, "/"),
		logger:           logger,
	}
}

const (
	replyNotFoundFmt  = `ไม่พบคำสั่งซื้อในระบบสำหรับชื่อ "%s".`
	replyOrderFmt     = "สวัสดีคุณ %s คุณมีคำสั่งซื้อ. หากต้องการรายละเอียดเพิ่มเติมกรุณาเข้าลิงก์: %s"
	replyGenericFmt   = `คุณส่งข้อความ "%s" หากต้องการตรวจสอบคำสั่งซื้อ พิมพ์ "ออเดอร์"`
	replyError        = "ขออภัย เกิดข้อผิดพลาดในการดึงข้อมูลคำสั่งซื้อของคุณ กรุณาลองใหม่อีกครั้ง"
	replyConfirmed    = "คำสั่งซื้อของคุณได้รับการยืนยันแล้ว เราจะดำเนินการโดยเร็วที่สุด"
	replyCancelled    = "คำสั่งซื้อของคุณถูกยกเลิกแล้ว แจ้งให้เราทราบหากคุณต้องการความช่วยเหลือใด ๆ"
	cardTitleFmt      = "คุณ %s มีคำสั่งซื้อ"
	cardSubtitle      = "คลิกลิงก์เพื่อตรวจสอบคำสั่งซื้อเพิ่มเติม"
	cardDetailsButton = "ดูรายละเอียดคำสั่งซื้อ"
	cardYesButton     = "ใช่! นี่คือสินค้าที่ต้องการ"
	cardNoButton      = "ไม่! สินค้านี้ไม่ถูกต้อง"
)

// HandleEvent processes one messaging event end to end. Errors are absorbed into
// an apology reply; the webhook acknowledgement never depends on this.
func (s *ChatbotService) HandleEvent(ctx context.Context, event *MessagingEvent) {
	psid := event.Sender.ID

	switch {
	case event.Message != nil:
		s.handleMessage(ctx, psid, event.Message)
	case event.Postback != nil:
		s.handlePostback(ctx, psid, event.Postback)
	default:
		s.logger.Debug("Ignoring messaging event with no message or postback",
			zap.String("psid", psid))
	}
}

func (s *ChatbotService) handleMessage(ctx context.Context, psid string, msg *ReceivedMessage) {
	reply, err := s.composeReply(ctx, psid, msg)
	if err != nil {
		s.logger.Error("Failed to compose chatbot reply", zap.String("psid", psid), zap.Error(err))
		reply = facebook.TextMessage(replyError)
	}
	if reply == nil {
		return
	}

	if err := s.graph.SendMessage(ctx, psid, reply); err != nil {
		s.logger.Error("Failed to send chatbot reply", zap.String("psid", psid), zap.Error(err))
	}
}

func (s *ChatbotService) composeReply(ctx context.Context, psid string, msg *ReceivedMessage) (*facebook.Message, error) {
	name, err := s.graph.GetProfileName(ctx, psid)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetNewestByCustomerName(ctx, name)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	// Text takes precedence over attachments so a captioned photo is
	// classified by its caption.
	if msg.Text != "" {
		if hasOrderIntent(msg.Text) {
			if order == nil {
				return facebook.TextMessage(fmt.Sprintf(replyNotFoundFmt, name)), nil
			}
			return facebook.TextMessage(fmt.Sprintf(replyOrderFmt, order.CustomerName, s.orderLink(order))), nil
		}
		return facebook.TextMessage(fmt.Sprintf(replyGenericFmt, msg.Text)), nil
	}

	if len(msg.Attachments) > 0 {
		if order == nil {
			return facebook.TextMessage(fmt.Sprintf(replyNotFoundFmt, name)), nil
		}

		card := facebook.ButtonTemplate(
			fmt.Sprintf(cardTitleFmt, order.CustomerName),
			cardSubtitle,
			facebook.Button{Type: "web_url", Title: cardDetailsButton, URL: s.orderLink(order)},
			facebook.Button{Type: "postback", Title: cardYesButton, Payload: "yes"},
			facebook.Button{Type: "postback", Title: cardNoButton, Payload: "no"},
		)
		card.Attachment.Payload.Elements[0].ImageURL = msg.Attachments[0].Payload.URL
		return card, nil
	}

	return nil, nil
}

func (s *ChatbotService) handlePostback(ctx context.Context, psid string, pb *Postback) {
	var reply *facebook.Message

	switch pb.Payload {
	case "yes":
		reply = facebook.TextMessage(replyConfirmed)
	case "no":
		reply = facebook.TextMessage(replyCancelled)
	default:
		s.logger.Debug("Ignoring unknown postback payload",
			zap.String("psid", psid),
			zap.String("payload", pb.Payload),
		)
		return
	}

	if err := s.graph.SendMessage(ctx, psid, reply); err != nil {
		s.logger.Error("Failed to send postback reply", zap.String("psid", psid), zap.Error(err))
	}
}

func (s *ChatbotService) orderLink(order *domain.SaleOrder) string {
	return fmt.Sprintf("%s/order/%s", s.orderLinkBaseURL, order.ID)
}

var orderIntentKeywords = []string{"order", "ออเดอร์", "คำสั่งซื้อ"}

func hasOrderIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range orderIntentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	_, ok := err.(*errors.ErrNotFound)
	return ok
}

// EventTimeout bounds the processing of a single webhook event.
const EventTimeout = 15 * time.Second
