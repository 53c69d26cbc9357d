package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/smartbell/internal/domain/models"
	service "github.com/mamadbah2/smartbell/internal/service/whatsapp"
)

type fakeMessaging struct {
	handled  []models.WebhookPayload
	sent     []models.OutboundMessageRequest
	verifyOK bool
	err      error
}

func (f *fakeMessaging) VerifyWebhookToken(_, _, challenge string) (string, error) {
	if !f.verifyOK {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

func (f *fakeMessaging) HandleWebhook(_ context.Context, payload models.WebhookPayload) error {
	f.handled = append(f.handled, payload)
	return f.err
}

func (f *fakeMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, req)
	return nil
}

func newWebhookEngine(svc service.MessagingService) *gin.Engine {
	h := NewWebhookHandler(svc, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	r.POST("/send-message", h.SendMessage)
	return r
}

func TestVerify(t *testing.T) {
	cases := []struct {
		name     string
		verifyOK bool
		status   int
		body     string
	}{
		{"accepted", true, http.StatusOK, "1158201444"},
		{"rejected", false, http.StatusForbidden, "verification failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newWebhookEngine(&fakeMessaging{verifyOK: tc.verifyOK})

			req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=v&hub.challenge=1158201444", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
		})
	}
}

func TestReceiveAcknowledgesProcessingFailures(t *testing.T) {
	svc := &fakeMessaging{err: errors.New("dispatcher failed")}
	r := newWebhookEngine(svc)

	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"messages":[{"from":"521","id":"wamid.1","type":"text","text":{"body":"/stats"}}]}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.handled, 1)
	msgs := svc.handled[0].AllMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "/stats", msgs[0].Body())
}

func TestReceiveRejectsMalformedJSON(t *testing.T) {
	svc := &fakeMessaging{}
	r := newWebhookEngine(svc)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.handled)
}

func TestSendMessage(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		body   any
		status int
	}{
		{"accepted", nil, models.OutboundMessageRequest{To: "521", Message: "hola"}, http.StatusAccepted},
		{"missing recipient", nil, gin.H{"message": "hola"}, http.StatusBadRequest},
		{"disabled", fmt.Errorf("send: %w", service.ErrMessagingDisabled), models.OutboundMessageRequest{To: "521", Message: "hola"}, http.StatusServiceUnavailable},
		{"upstream failure", errors.New("meta 500"), models.OutboundMessageRequest{To: "521", Message: "hola"}, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeMessaging{err: tc.err}
			r := newWebhookEngine(svc)

			w := doJSON(t, r, http.MethodPost, "/send-message", tc.body)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusAccepted {
				require.Len(t, svc.sent, 1)
				assert.Equal(t, "hola", svc.sent[0].Message)
			}
		})
	}
}

func TestReceiveIgnoresStatusCallbacks(t *testing.T) {
	svc := &fakeMessaging{}
	r := newWebhookEngine(svc)

	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"statuses":[{"id":"wamid.1","status":"delivered"}]}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.handled)
}
