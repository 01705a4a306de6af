package leads

import (
	"regexp"
	"strings"
)

// Submission kinds, one per form surface behavior. The kind decides which
// optional fields are meaningful and which subject label the notification
// email gets.
const (
	KindWelcomeCode     = "WELCOME_CODE"
	KindContactForm     = "CONTACT_FORM"
	KindChatLiveRequest = "CHAT_LIVE_REQUEST"
	KindCareers         = "CAREERS"
	KindAudit           = "AUDIT"
	KindChatMessage     = "CHAT_MESSAGE"
)

// Sources identify the UI surface that produced a submission.
const (
	SourceHomepage = "homepage"
	SourceContact  = "contact"
	SourceChatbot  = "chatbot"
	SourceCareers  = "careers"
)

// DefaultWelcomeCode is the promotional code the contact form applies when
// the submitter opts in to the welcome offer without typing a code.
const DefaultWelcomeCode = "NIXWELCOME"

// Field length caps. Values beyond a cap are truncated with a visible
// ellipsis before they reach the outgoing notification.
const (
	MaxKindLen            = 50
	MaxEmailLen           = 254
	MaxNameLen            = 200
	MaxPhoneLen           = 100
	MaxMessageLen         = 8000
	MaxBusinessTypeLen    = 120
	MaxServiceInterestLen = 180
	MaxWelcomeCodeLen     = 100
	MaxSourceLen          = 50
	MaxPageURLLen         = 2000
	MaxMetaValueLen       = 500
)

// Ellipsis marks truncated values so the reader of the notification can
// tell the original was longer.
const Ellipsis = "…"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission is a lead captured by one of the site's form surfaces. It is
// transient: it lives for one request, is relayed as an email, and is
// never stored.
type Submission struct {
	Kind            string            `json:"type"`
	Name            string            `json:"name,omitempty"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone,omitempty"`
	Message         string            `json:"message,omitempty"`
	BusinessType    string            `json:"businessType,omitempty"`
	ServiceInterest string            `json:"serviceInterest,omitempty"`
	WelcomeCode     string            `json:"welcomeCode,omitempty"`
	Source          string            `json:"source"`
	PageURL         string            `json:"pageUrl,omitempty"`
	Meta            map[string]string `json:"meta,omitempty"`
}

// SafeString trims s and caps it at max runes, appending an ellipsis when
// truncation happened. Truncation is idempotent: capping an already-capped
// value yields the same string.
func SafeString(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + Ellipsis
}

// IsEmail reports whether s looks like local@domain.tld.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Normalize trims and caps every free-text field in place. Must run before
// Validate so required-field checks see trimmed values.
func (s *Submission) Normalize() {
	s.Kind = SafeString(s.Kind, MaxKindLen)
	s.Name = SafeString(s.Name, MaxNameLen)
	s.Email = SafeString(s.Email, MaxEmailLen)
	s.Phone = SafeString(s.Phone, MaxPhoneLen)
	s.Message = SafeString(s.Message, MaxMessageLen)
	s.BusinessType = SafeString(s.BusinessType, MaxBusinessTypeLen)
	s.ServiceInterest = SafeString(s.ServiceInterest, MaxServiceInterestLen)
	s.WelcomeCode = SafeString(s.WelcomeCode, MaxWelcomeCodeLen)
	s.Source = SafeString(s.Source, MaxSourceLen)
	s.PageURL = SafeString(s.PageURL, MaxPageURLLen)
	for k, v := range s.Meta {
		s.Meta[k] = SafeString(v, MaxMetaValueLen)
	}
}

// Validate checks required fields, first failure wins: kind, then email,
// then the contact form's extra required fields. CHAT_LIVE_REQUEST
// deliberately does not require a message.
func (s *Submission) Validate() error {
	if s.Kind == "" {
		return ErrMissingKind
	}
	if s.Email == "" || !IsEmail(s.Email) {
		return ErrInvalidEmail
	}
	if s.Kind == KindContactForm {
		if s.BusinessType == "" {
			return ErrMissingBusinessType
		}
		if s.Message == "" {
			return ErrMissingMessage
		}
	}
	return nil
}

// WelcomeCodeValue resolves the code for welcome-code style submissions,
// preferring the meta entry the homepage modal sends.
func (s *Submission) WelcomeCodeValue() string {
	if code := s.Meta["code"]; code != "" {
		return SafeString(code, MaxWelcomeCodeLen)
	}
	return s.WelcomeCode
}
