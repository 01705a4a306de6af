package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nixrix/site-api/internal/notify"
	"github.com/nixrix/site-api/pkg/logging"
)

// fakeSender records relay attempts and fails on demand.
type fakeSender struct {
	calls int
	sent  []notify.EmailMessage
	err   error
}

func (f *fakeSender) Send(_ context.Context, msg notify.EmailMessage) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestHandler(sender notify.EmailSender) *Handler {
	return NewHandler(HandlerConfig{
		Sender:    sender,
		FromEmail: "noreply@nixrix.com",
		ToEmail:   "leads@nixrix.com",
		Logger:    logging.New("error"),
	})
}

func postLead(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/lead", reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Submit(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func validContactForm() Submission {
	return Submission{
		Kind:         KindContactForm,
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		BusinessType: "retail",
		Message:      "Need a new site",
		Source:       SourceContact,
		PageURL:      "https://nixrix.com/contact",
	}
}

func TestSubmitSuccess(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender)

	w := postLead(t, h, validContactForm())

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if !resp.OK {
		t.Error("expected ok:true")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one relay, got %d", len(sender.sent))
	}

	msg := sender.sent[0]
	if msg.ReplyTo != "jane@example.com" {
		t.Errorf("expected reply_to to be the submitter, got %q", msg.ReplyTo)
	}
	if msg.From != "noreply@nixrix.com" || msg.To != "leads@nixrix.com" {
		t.Errorf("unexpected from/to: %q -> %q", msg.From, msg.To)
	}
	if !strings.Contains(msg.Subject, "Contact Form") || !strings.Contains(msg.Subject, "jane@example.com") {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.Text, "Need a new site") {
		t.Error("expected message in text body")
	}
	if !strings.Contains(msg.HTML, "<pre") {
		t.Error("expected HTML body")
	}
}

func TestSubmitInvalidEmailNoRelay(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender)

	sub := validContactForm()
	sub.Email = "not-an-email"
	w := postLead(t, h, sub)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.OK || resp.Error != "invalid email" {
		t.Errorf("unexpected response %+v", resp)
	}
	if sender.calls != 0 {
		t.Errorf("expected zero provider calls, got %d", sender.calls)
	}
}

func TestSubmitMissingKind(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender)

	w := postLead(t, h, Submission{Email: "jane@example.com"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Error != "missing type" {
		t.Errorf("expected missing type error, got %q", resp.Error)
	}
	if sender.calls != 0 {
		t.Errorf("expected zero provider calls, got %d", sender.calls)
	}
}

func TestSubmitContactFormMissingBusinessType(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender)

	sub := validContactForm()
	sub.BusinessType = ""
	w := postLead(t, h, sub)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Error != "missing businessType" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestSubmitChatLiveRequestWithoutMessage(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender)

	w := postLead(t, h, Submission{
		Kind:   KindChatLiveRequest,
		Name:   "Jane",
		Email:  "jane@example.com",
		Source: SourceChatbot,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitInvalidJSON(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender)

	w := postLead(t, h, "{")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Error != "invalid JSON" {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if sender.calls != 0 {
		t.Errorf("expected zero provider calls, got %d", sender.calls)
	}
}

func TestSubmitProviderRejection(t *testing.T) {
	providerBody := strings.Repeat("p", 400)
	sender := &fakeSender{err: &notify.ProviderError{Body: providerBody}}
	h := newTestHandler(sender)

	w := postLead(t, h, validContactForm())

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Error != "email provider failed" {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if len(resp.Detail) != detailMaxLen {
		t.Errorf("expected detail capped at %d chars, got %d", detailMaxLen, len(resp.Detail))
	}
	if !strings.HasPrefix(providerBody, resp.Detail) {
		t.Error("detail should be a prefix of the provider body")
	}
}

func TestSubmitTransportError(t *testing.T) {
	sender := &fakeSender{err: errors.New("dial tcp: connection refused")}
	h := newTestHandler(sender)

	w := postLead(t, h, validContactForm())

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Error != "server error" {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if !strings.Contains(resp.Detail, "connection refused") {
		t.Errorf("expected transport detail, got %q", resp.Detail)
	}
}

func TestSubmitNotConfigured(t *testing.T) {
	h := NewHandler(HandlerConfig{Logger: logging.New("error")})

	w := postLead(t, h, validContactForm())

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Error != "server email env vars not set" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestSubmitConfigCheckedBeforeBody(t *testing.T) {
	h := NewHandler(HandlerConfig{Logger: logging.New("error")})

	w := postLead(t, h, "{not json at all")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected configuration failure before parsing, got %d", w.Code)
	}
}

func TestSubmitOptionsNoContent(t *testing.T) {
	h := newTestHandler(&fakeSender{})

	req := httptest.NewRequest(http.MethodOptions, "/api/lead", strings.NewReader("ignored body"))
	w := httptest.NewRecorder()
	h.Submit(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Error("expected empty body")
	}
}

func TestSubmitMethodNotAllowed(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender)

	req := httptest.NewRequest(http.MethodGet, "/api/lead", nil)
	w := httptest.NewRecorder()
	h.Submit(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.OK {
		t.Error("expected ok:false")
	}
	if sender.calls != 0 {
		t.Errorf("expected zero provider calls, got %d", sender.calls)
	}
}

func TestSubmitLongMessageTruncatedInRelay(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender)

	sub := validContactForm()
	sub.Message = strings.Repeat("a", 9000)
	w := postLead(t, h, sub)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	text := sender.sent[0].Text
	idx := strings.Index(text, "Message:\n")
	if idx < 0 {
		t.Fatal("expected message section")
	}
	section := text[idx+len("Message:\n"):]
	if section != strings.Repeat("a", MaxMessageLen)+Ellipsis {
		t.Errorf("expected %d chars plus ellipsis, got %d runes", MaxMessageLen, len([]rune(section)))
	}
}

func TestSubmitUnknownKindRelaysWithFallbackSubject(t *testing.T) {
	sender := &fakeSender{}
	h := newTestHandler(sender)

	w := postLead(t, h, Submission{Kind: "PARTNER_INQUIRY", Email: "jane@example.com", Source: SourceContact})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(sender.sent[0].Subject, "New Lead") {
		t.Errorf("expected fallback subject, got %q", sender.sent[0].Subject)
	}
}
