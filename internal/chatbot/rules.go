package chatbot

import "strings"

// Rule pairs a set of trigger keywords with a canned reply. Matching is
// case-insensitive substring containment over the visitor's message.
type Rule struct {
	Name     string
	Keywords []string
	Reply    string
}

// FallbackRuleName labels replies that matched no rule.
const FallbackRuleName = "fallback"

// defaultRules is evaluated in order, first match wins. Order matters:
// callback requests are checked before the broad service keywords.
var defaultRules = []Rule{
	{
		Name:     "live_request",
		Keywords: []string{"speak", "talk", "human", "person", "live", "real", "call", "callback"},
		Reply: "No problem — you can request a callback from our team. " +
			"Tap **Request Live Chat with Team** below and enter your details.",
	},
	{
		Name:     "services",
		Keywords: []string{"service", "offer", "do", "build"},
		Reply: "We build **full SME digital systems**, not just websites:\n\n" +
			"- Conversion Website (clear messaging + strong CTAs)\n" +
			"- Lead Capture + CRM-ready tracking\n" +
			"- Automation workflows (follow-ups, tasks, handovers)\n" +
			"- KPI Dashboards & reporting\n" +
			"- SEO foundations & visibility\n\n" +
			"Tell me your business type (Retail / Manufacturing / Services) and your main goal — " +
			"more leads, better follow-up, or better visibility?",
	},
	{
		Name:     "welcome_code",
		Keywords: []string{"welcome", "code", "offer"},
		Reply: "Our **Welcome Code** is a limited-time offer for first-time clients.\n\n" +
			"If you request a callback and mention the code, we'll include bonus setup in your rollout plan.\n\n" +
			"Tap **Request Live Chat with Team** and we'll email you the details.",
	},
	{
		Name:     "pricing",
		Keywords: []string{"cost", "price", "pricing", "budget"},
		Reply: "We don't use one-size pricing because every SME system is different.\n\n" +
			"After a quick audit call, we'll send a clear proposal based on:\n" +
			"- pages/features\n" +
			"- CRM + automation needs\n" +
			"- dashboards/reporting\n" +
			"- timeline\n\n" +
			"If you want, request a callback and we'll give you a precise plan + quote.",
	},
	{
		Name:     "timeline",
		Keywords: []string{"time", "long", "fast", "quick", "timeline"},
		Reply: "Typical delivery depends on scope, but the process is:\n\n" +
			"1) Audit & plan\n" +
			"2) Build & review\n" +
			"3) Launch & improve\n\n" +
			"If you share what you need (website only vs full system), I can guide you on a realistic timeline.",
	},
	{
		Name:     "dashboards",
		Keywords: []string{"dashboard", "kpi", "power bi", "data", "analytics"},
		Reply: "Yes — we can embed dashboards and track KPIs like:\n\n" +
			"- leads, conversions, enquiries\n" +
			"- sales performance\n" +
			"- pipeline stages\n" +
			"- response times\n\n" +
			"We also add plain-language insights so it's easy to understand.",
	},
	{
		Name:     "automation",
		Keywords: []string{"crm", "automation", "workflow", "automate", "follow up"},
		Reply: "Absolutely. We can set up:\n\n" +
			"- lead capture -> CRM pipeline\n" +
			"- automated follow-ups\n" +
			"- tasks/reminders for your team\n" +
			"- proposal / onboarding workflow (optional)\n\n" +
			"Want the callback team to review your current process? Tap the button below.",
	},
	{
		Name:     "contact",
		Keywords: []string{"contact", "email", "reach"},
		Reply: "You can reach us at:\n\n" +
			"hello@nixrix.com\n" +
			"Leeds, UK\n\n" +
			"Or request a callback via the button below.",
	},
}

const fallbackReply = "I can help with:\n" +
	"- conversion websites\n" +
	"- lead capture + CRM-ready setup\n" +
	"- automation workflows\n" +
	"- dashboards & reporting\n" +
	"- SEO foundations\n\n" +
	"What's your business type and your #1 goal right now?"

// quickReplies are the suggestion chips the widget offers before the
// visitor types anything.
var quickReplies = []string{
	"What do you build for SMEs?",
	"How does the welcome code work?",
	"Can you set up CRM + automation?",
	"How long does a project take?",
}

// Responder answers visitor messages from the canned rule table.
type Responder struct {
	rules    []Rule
	fallback string
}

// NewResponder creates a responder with the site's default rule table.
func NewResponder() *Responder {
	return &Responder{rules: defaultRules, fallback: fallbackReply}
}

// Reply returns the canned answer for text along with the name of the
// rule that matched.
func (r *Responder) Reply(text string) (reply, rule string) {
	lower := strings.ToLower(text)
	for _, candidate := range r.rules {
		for _, kw := range candidate.Keywords {
			if strings.Contains(lower, kw) {
				return candidate.Reply, candidate.Name
			}
		}
	}
	return r.fallback, FallbackRuleName
}

// QuickReplies returns the widget's suggestion chips.
func (r *Responder) QuickReplies() []string {
	out := make([]string, len(quickReplies))
	copy(out, quickReplies)
	return out
}
