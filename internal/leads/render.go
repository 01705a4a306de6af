package leads

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"
)

// subjectLabels maps each kind to the human label used in the notification
// subject. Unknown kinds fall back to a generic label rather than being
// rejected, so a new form surface cannot silently drop leads.
var subjectLabels = map[string]string{
	KindWelcomeCode:     "Welcome Code",
	KindContactForm:     "Contact Form",
	KindChatLiveRequest: "Live Chat Request",
	KindCareers:         "Careers Application",
	KindAudit:           "Audit Request",
	KindChatMessage:     "Chat Message",
}

// SubjectLabel returns the human label for a kind.
func SubjectLabel(kind string) string {
	if label, ok := subjectLabels[kind]; ok {
		return label
	}
	return "New Lead"
}

// Subject builds the notification subject line. The submitter's email is
// always included for quick scanning in the inbox.
func Subject(s *Submission) string {
	return fmt.Sprintf("[NIXRIX Lead] %s — %s", SubjectLabel(s.Kind), s.Email)
}

// TextBody renders the line-oriented plain-text notification: common
// fields, kind-specific fields, meta context, then the free-text message.
// Fields must already be normalized.
func TextBody(s *Submission, now time.Time) string {
	lines := []string{
		"Type: " + s.Kind,
		"Source: " + s.Source,
		"Email: " + s.Email,
		"Time: " + now.UTC().Format(time.RFC3339),
		"Page: " + s.PageURL,
		"",
	}

	switch s.Kind {
	case KindWelcomeCode, KindAudit:
		lines = append(lines, "Welcome Code: "+s.WelcomeCodeValue())
	case KindContactForm:
		lines = append(lines,
			"Name: "+s.Name,
			"Phone: "+s.Phone,
			"Business Type: "+s.BusinessType,
			"Service Interest: "+s.ServiceInterest,
			"Welcome Code: "+s.WelcomeCode,
		)
	case KindChatLiveRequest:
		lines = append(lines,
			"Name: "+s.Name,
			"Phone: "+s.Phone,
			"Welcome Code: "+s.WelcomeCode,
		)
	default:
		if s.Name != "" {
			lines = append(lines, "Name: "+s.Name)
		}
		if s.Phone != "" {
			lines = append(lines, "Phone: "+s.Phone)
		}
	}

	lines = append(lines, metaLines(s)...)

	if s.Message != "" {
		lines = append(lines, "", "Message:", s.Message)
	}

	return strings.Join(lines, "\n")
}

// metaLines renders extra key/value context sorted by key for stable
// output. The "code" entry is skipped for kinds that already rendered it.
func metaLines(s *Submission) []string {
	if len(s.Meta) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.Meta))
	for k := range s.Meta {
		if k == "code" && (s.Kind == KindWelcomeCode || s.Kind == KindAudit) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("Meta %s: %s", k, s.Meta[k]))
	}
	return lines
}

// HTMLBody wraps the plain-text body in the notification's HTML shell.
// Every interpolated value is escaped so submitted content cannot inject
// markup into the rendered email.
func HTMLBody(textBody string) string {
	return fmt.Sprintf(`<div style="font-family: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto; line-height: 1.5;">
  <h2>NIXRIX Lead</h2>
  <pre style="background:#f6f7f9;border:1px solid #e5e7eb;border-radius:12px;padding:16px;white-space:pre-wrap;">%s</pre>
</div>`, html.EscapeString(textBody))
}
