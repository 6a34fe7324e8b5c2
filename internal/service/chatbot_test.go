package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/internal/facebook"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

type fakeGraph struct {
	profileName string
	profileErr  error
	sent        []*facebook.Message
	sentTo      []string
	sendErr     error
}

func (f *fakeGraph) GetProfileName(ctx context.Context, psid string) (string, error) {
	return f.profileName, f.profileErr
}

func (f *fakeGraph) SendMessage(ctx context.Context, psid string, message *facebook.Message) error {
	f.sent = append(f.sent, message)
	f.sentTo = append(f.sentTo, psid)
	return f.sendErr
}

type fakeOrderFinder struct {
	order *domain.SaleOrder
}

func (f *fakeOrderFinder) GetNewestByCustomerName(ctx context.Context, name string) (*domain.SaleOrder, error) {
	if f.order == nil || f.order.CustomerName != name {
		return nil, &errors.ErrNotFound{Resource: "sale_order", ID: name}
	}
	return f.order, nil
}

const testBaseURL = "https://weliveapp.netlify.app"

func textEvent(psid, text string) *MessagingEvent {
	return &MessagingEvent{
		Sender:  Participant{ID: psid},
		Message: &ReceivedMessage{Text: text},
	}
}

func TestChatbotOrderIntentWithMatch(t *testing.T) {
	order := &domain.SaleOrder{ID: uuid.New(), CustomerName: "สมชาย ใจดี"}
	graph := &fakeGraph{profileName: "สมชาย ใจดี"}
	svc := NewChatbotService(graph, &fakeOrderFinder{order: order}, testBaseURL, zap.NewNop())

	svc.HandleEvent(context.Background(), textEvent("psid-1", "ขอดู order หน่อย"))

	require.Len(t, graph.sent, 1)
	assert.Equal(t, "psid-1", graph.sentTo[0])
	assert.Contains(t, graph.sent[0].Text, order.ID.String())
	assert.Contains(t, graph.sent[0].Text, testBaseURL+"/order/")
}

func TestChatbotOrderIntentThaiKeyword(t *testing.T) {
	order := &domain.SaleOrder{ID: uuid.New(), CustomerName: "สมชาย ใจดี"}
	graph := &fakeGraph{profileName: "สมชาย ใจดี"}
	svc := NewChatbotService(graph, &fakeOrderFinder{order: order}, testBaseURL, zap.NewNop())

	svc.HandleEvent(context.Background(), textEvent("psid-1", "ออเดอร์ของฉันอยู่ไหน"))

	require.Len(t, graph.sent, 1)
	assert.Contains(t, graph.sent[0].Text, order.ID.String())
}

func TestChatbotOrderIntentNoMatch(t *testing.T) {
	graph := &fakeGraph{profileName: "ไม่มีใคร"}
	svc := NewChatbotService(graph, &fakeOrderFinder{}, testBaseURL, zap.NewNop())

	svc.HandleEvent(context.Background(), textEvent("psid-1", "order"))

	require.Len(t, graph.sent, 1)
	assert.Contains(t, graph.sent[0].Text, "ไม่พบคำสั่งซื้อ")
	assert.NotContains(t, graph.sent[0].Text, "/order/")
}

func TestChatbotAttachmentWithMatch(t *testing.T) {
	order := &domain.SaleOrder{ID: uuid.New(), CustomerName: "สมชาย ใจดี"}
	graph := &fakeGraph{profileName: "สมชาย ใจดี"}
	svc := NewChatbotService(graph, &fakeOrderFinder{order: order}, testBaseURL, zap.NewNop())

	svc.HandleEvent(context.Background(), &MessagingEvent{
		Sender: Participant{ID: "psid-1"},
		Message: &ReceivedMessage{
			Attachments: []ReceivedAttachment{
				{Type: "image", Payload: AttachmentPayload{URL: "https://cdn.example/pic.jpg"}},
			},
		},
	})

	require.Len(t, graph.sent, 1)
	msg := graph.sent[0]
	require.NotNil(t, msg.Attachment)
	require.Len(t, msg.Attachment.Payload.Elements, 1)
	el := msg.Attachment.Payload.Elements[0]
	assert.Equal(t, "https://cdn.example/pic.jpg", el.ImageURL)
	require.Len(t, el.Buttons, 3)
	assert.Equal(t, "web_url", el.Buttons[0].Type)
	assert.Contains(t, el.Buttons[0].URL, order.ID.String())
	assert.Equal(t, "yes", el.Buttons[1].Payload)
	assert.Equal(t, "no", el.Buttons[2].Payload)
}

func TestChatbotCaptionedAttachmentClassifiedByText(t *testing.T) {
	order := &domain.SaleOrder{ID: uuid.New(), CustomerName: "สมชาย ใจดี"}
	graph := &fakeGraph{profileName: "สมชาย ใจดี"}
	svc := NewChatbotService(graph, &fakeOrderFinder{order: order}, testBaseURL, zap.NewNop())

	svc.HandleEvent(context.Background(), &MessagingEvent{
		Sender: Participant{ID: "psid-1"},
		Message: &ReceivedMessage{
			Text: "order",
			Attachments: []ReceivedAttachment{
				{Type: "image", Payload: AttachmentPayload{URL: "https://cdn.example/pic.jpg"}},
			},
		},
	})

	require.Len(t, graph.sent, 1)
	msg := graph.sent[0]
	assert.Nil(t, msg.Attachment)
	assert.Contains(t, msg.Text, testBaseURL+"/order/"+order.ID.String())
}

func TestChatbotEmptyMessageSendsNothing(t *testing.T) {
	graph := &fakeGraph{profileName: "สมชาย ใจดี"}
	svc := NewChatbotService(graph, &fakeOrderFinder{}, testBaseURL, zap.NewNop())

	svc.HandleEvent(context.Background(), &MessagingEvent{
		Sender:  Participant{ID: "psid-1"},
		Message: &ReceivedMessage{},
	})

	assert.Empty(t, graph.sent)
}

func TestChatbotProfileLookupErrorSendsApology(t *testing.T) {
	graph := &fakeGraph{profileErr: &errors.ErrUpstream{Service: "facebook"}}
	svc := NewChatbotService(graph, &fakeOrderFinder{}, testBaseURL, zap.NewNop())

	svc.HandleEvent(context.Background(), textEvent("psid-1", "order"))

	require.Len(t, graph.sent, 1)
	assert.Contains(t, graph.sent[0].Text, "ขออภัย")
}

func TestChatbotPostbackMapping(t *testing.T) {
	tests := []struct {
		payload string
		want    string
	}{
		{"yes", "ยืนยัน"},
		{"no", "ยกเลิก"},
	}

	for _, tt := range tests {
		graph := &fakeGraph{}
		svc := NewChatbotService(graph, &fakeOrderFinder{}, testBaseURL, zap.NewNop())

		svc.HandleEvent(context.Background(), &MessagingEvent{
			Sender:   Participant{ID: "psid-1"},
			Postback: &Postback{Payload: tt.payload},
		})

		require.Len(t, graph.sent, 1, "payload %q", tt.payload)
		assert.Contains(t, graph.sent[0].Text, tt.want)
	}
}

func TestChatbotUnknownPostbackSendsNothing(t *testing.T) {
	graph := &fakeGraph{}
	svc := NewChatbotService(graph, &fakeOrderFinder{}, testBaseURL, zap.NewNop())

	svc.HandleEvent(context.Background(), &MessagingEvent{
		Sender:   Participant{ID: "psid-1"},
		Postback: &Postback{Payload: "maybe"},
	})

	assert.Empty(t, graph.sent)
}

func TestChatbotPlainTextGetsGenericPrompt(t *testing.T) {
	graph := &fakeGraph{profileName: "สมชาย ใจดี"}
	svc := NewChatbotService(graph, &fakeOrderFinder{}, testBaseURL, zap.NewNop())

	svc.HandleEvent(context.Background(), textEvent("psid-1", "สวัสดีครับ"))

	require.Len(t, graph.sent, 1)
	assert.Contains(t, graph.sent[0].Text, "สวัสดีครับ")
	assert.NotContains(t, graph.sent[0].Text, "/order/")
}
