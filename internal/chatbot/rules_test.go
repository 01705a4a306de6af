package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplyMatchesKeywords(t *testing.T) {
	r := NewResponder()

	reply, rule := r.Reply("Can I speak to a human?")
	assert.Equal(t, "live_request", rule)
	assert.Contains(t, reply, "Request Live Chat with Team")
}

func TestReplyRuleOrder(t *testing.T) {
	r := NewResponder()

	// "call" wins over "service" because callback requests are checked first.
	_, rule := r.Reply("Can someone call me about your services?")
	assert.Equal(t, "live_request", rule)
}

func TestReplyCaseInsensitive(t *testing.T) {
	r := NewResponder()

	_, lower := r.Reply("how much does it cost?")
	_, upper := r.Reply("HOW MUCH DOES IT COST?")
	assert.Equal(t, "pricing", lower)
	assert.Equal(t, "pricing", upper)
}

func TestReplyPerRule(t *testing.T) {
	r := NewResponder()

	cases := []struct {
		text string
		rule string
	}{
		{"what do you build?", "services"},
		{"tell me about the welcome code", "welcome_code"},
		{"what's your pricing?", "pricing"},
		{"what's the timeline for launch?", "timeline"},
		{"we want kpi dashboards", "dashboards"},
		{"we need crm automation", "automation"},
		{"how can I reach you?", "contact"},
	}
	for _, tc := range cases {
		_, rule := r.Reply(tc.text)
		assert.Equal(t, tc.rule, rule, "text %q", tc.text)
	}
}

func TestReplyFallback(t *testing.T) {
	r := NewResponder()

	reply, rule := r.Reply("zzzzz")
	assert.Equal(t, FallbackRuleName, rule)
	assert.Contains(t, reply, "conversion websites")
}

func TestQuickRepliesCopied(t *testing.T) {
	r := NewResponder()

	chips := r.QuickReplies()
	assert.Len(t, chips, 4)

	chips[0] = "mutated"
	assert.NotEqual(t, "mutated", r.QuickReplies()[0])
}
