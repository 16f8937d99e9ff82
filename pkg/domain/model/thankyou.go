package model

import (
	"sort"
	"strings"
)

// Fallback confirmation content used when the default message leaves
// fields unset.
const (
	defaultThankYouTitleEn   = "Thank You!"
	defaultThankYouTitleFr   = "Merci !"
	defaultThankYouMessageEn = "Your response has been recorded."
	defaultThankYouMessageFr = "Votre réponse a été enregistrée."

	// defaultRedirectDelay is the countdown in seconds before following a
	// redirect URL when no delay is configured
	defaultRedirectDelay = 3

	// missingPrioritySentinel ranks rules without an explicit priority after
	// every prioritized rule
	missingPrioritySentinel = 999
)

// ThankYouSettings configures the post-submission confirmation screen:
// a default message plus a priority-ordered list of conditional rules.
type ThankYouSettings struct {
	DefaultMessage ThankYouMessage
	Rules          []ThankYouRule
}

// ThankYouMessage is the unconditional confirmation content
type ThankYouMessage struct {
	TitleEn        string
	TitleFr        string
	MessageEn      string
	MessageFr      string
	EnableRedirect bool
	RedirectURL    string
	RedirectDelay  *int
}

// ThankYouRule selects alternative confirmation content when its condition
// matches the submitted values. Lower priority numbers are evaluated first.
type ThankYouRule struct {
	ID            string
	Name          string
	Condition     Condition
	TitleEn       string
	TitleFr       string
	MessageEn     string
	MessageFr     string
	RedirectURL   string
	RedirectDelay *int
	Priority      *int
}

func (r *ThankYouRule) effectivePriority() int {
	if r.Priority == nil {
		return missingPrioritySentinel
	}
	return *r.Priority
}

// ThankYouResult is the single resolved confirmation payload
type ThankYouResult struct {
	TitleEn       string
	TitleFr       string
	MessageEn     string
	MessageFr     string
	RedirectURL   string
	RedirectDelay int
	// MatchedRule is nil when the default message was selected
	MatchedRule *ThankYouRule
}

// EvaluateThankYouPage resolves the confirmation content for a submission.
// Rules are scanned in ascending priority order (a copy is sorted; the
// settings are never mutated) and the first rule whose condition matches
// wins. Rules with no condition field ID are skipped. When nothing matches,
// the default message is returned with fallback strings substituted for
// unset fields. Pure given its two inputs.
func EvaluateThankYouPage(settings *ThankYouSettings, values FormValues) ThankYouResult {
	result := defaultThankYouResult(settings)

	if settings == nil || len(settings.Rules) == 0 {
		return result
	}

	rules := make([]ThankYouRule, len(settings.Rules))
	copy(rules, settings.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].effectivePriority() < rules[j].effectivePriority()
	})

	for i := range rules {
		rule := &rules[i]
		if rule.Condition.FieldID == "" {
			continue
		}
		if !EvaluateCondition(values.Get(rule.Condition.FieldID), rule.Condition.Operator, rule.Condition.Value) {
			continue
		}

		delay := defaultRedirectDelay
		if rule.RedirectDelay != nil {
			delay = *rule.RedirectDelay
		}
		return ThankYouResult{
			TitleEn:       titleOrFirstSentence(rule.TitleEn, rule.MessageEn, defaultThankYouTitleEn),
			TitleFr:       titleOrFirstSentence(rule.TitleFr, rule.MessageFr, defaultThankYouTitleFr),
			MessageEn:     rule.MessageEn,
			MessageFr:     rule.MessageFr,
			RedirectURL:   rule.RedirectURL,
			RedirectDelay: delay,
			MatchedRule:   rule,
		}
	}

	return result
}

// defaultThankYouResult builds the result for the no-rule-matched case
func defaultThankYouResult(settings *ThankYouSettings) ThankYouResult {
	result := ThankYouResult{
		TitleEn:       defaultThankYouTitleEn,
		TitleFr:       defaultThankYouTitleFr,
		MessageEn:     defaultThankYouMessageEn,
		MessageFr:     defaultThankYouMessageFr,
		RedirectDelay: defaultRedirectDelay,
	}
	if settings == nil {
		return result
	}

	msg := settings.DefaultMessage
	if msg.TitleEn != "" {
		result.TitleEn = msg.TitleEn
	}
	if msg.TitleFr != "" {
		result.TitleFr = msg.TitleFr
	}
	if msg.MessageEn != "" {
		result.MessageEn = msg.MessageEn
	}
	if msg.MessageFr != "" {
		result.MessageFr = msg.MessageFr
	}
	if msg.EnableRedirect {
		result.RedirectURL = msg.RedirectURL
	}
	if msg.RedirectDelay != nil {
		result.RedirectDelay = *msg.RedirectDelay
	}
	return result
}

// titleOrFirstSentence falls back to the first sentence of the message when
// a rule sets no explicit title, then to the hardcoded default.
func titleOrFirstSentence(title, message, fallback string) string {
	if title != "" {
		return title
	}
	if message != "" {
		first, _, _ := strings.Cut(message, ".")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return fallback
}
