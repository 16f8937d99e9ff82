package model_test

import (
	"testing"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func intPtr(n int) *int { return &n }

func TestEvaluateThankYouPage(t *testing.T) {
	t.Run("nil settings yield the built-in fallback", func(t *testing.T) {
		result := model.EvaluateThankYouPage(nil, model.FormValues{})

		gt.Value(t, result.TitleEn).Equal("Thank You!")
		gt.Value(t, result.TitleFr).Equal("Merci !")
		gt.Value(t, result.MessageEn).Equal("Your response has been recorded.")
		gt.Value(t, result.MessageFr).Equal("Votre réponse a été enregistrée.")
		gt.Value(t, result.MatchedRule).Nil()
	})

	t.Run("first matching rule in priority order wins", func(t *testing.T) {
		settings := &model.ThankYouSettings{
			Rules: []model.ThankYouRule{
				{
					ID:        "late",
					Condition: model.Condition{FieldID: "rating", Operator: types.OperatorGreaterThan, Value: 0},
					TitleEn:   "Any rating",
					Priority:  intPtr(10),
				},
				{
					ID:        "early",
					Condition: model.Condition{FieldID: "rating", Operator: types.OperatorGreaterThan, Value: 3},
					TitleEn:   "Great rating",
					Priority:  intPtr(1),
				},
			},
		}

		result := model.EvaluateThankYouPage(settings, model.FormValues{"rating": 5})
		gt.Value(t, result.TitleEn).Equal("Great rating")
		gt.Value(t, result.MatchedRule.ID).Equal("early")

		result = model.EvaluateThankYouPage(settings, model.FormValues{"rating": 2})
		gt.Value(t, result.TitleEn).Equal("Any rating")
		gt.Value(t, result.MatchedRule.ID).Equal("late")
	})

	t.Run("rules without priority sort last", func(t *testing.T) {
		settings := &model.ThankYouSettings{
			Rules: []model.ThankYouRule{
				{
					ID:        "unprioritized",
					Condition: model.Condition{FieldID: "x", Operator: types.OperatorIsNotEmpty},
					TitleEn:   "No priority",
				},
				{
					ID:        "prioritized",
					Condition: model.Condition{FieldID: "x", Operator: types.OperatorIsNotEmpty},
					TitleEn:   "Priority 500",
					Priority:  intPtr(500),
				},
			},
		}

		result := model.EvaluateThankYouPage(settings, model.FormValues{"x": "v"})
		gt.Value(t, result.MatchedRule.ID).Equal("prioritized")
	})

	t.Run("rules with empty condition field ID are skipped", func(t *testing.T) {
		settings := &model.ThankYouSettings{
			DefaultMessage: model.ThankYouMessage{TitleEn: "Default"},
			Rules: []model.ThankYouRule{
				{
					ID:        "broken",
					Condition: model.Condition{Operator: types.OperatorIsNotEmpty},
					TitleEn:   "Never",
					Priority:  intPtr(1),
				},
			},
		}

		result := model.EvaluateThankYouPage(settings, model.FormValues{"x": "v"})
		gt.Value(t, result.TitleEn).Equal("Default")
		gt.Value(t, result.MatchedRule).Nil()
	})

	t.Run("evaluation does not reorder the configured rules", func(t *testing.T) {
		settings := &model.ThankYouSettings{
			Rules: []model.ThankYouRule{
				{ID: "b", Condition: model.Condition{FieldID: "x", Operator: types.OperatorIsNotEmpty}, Priority: intPtr(2)},
				{ID: "a", Condition: model.Condition{FieldID: "x", Operator: types.OperatorIsNotEmpty}, Priority: intPtr(1)},
			},
		}

		model.EvaluateThankYouPage(settings, model.FormValues{"x": "v"})
		gt.Value(t, settings.Rules[0].ID).Equal("b")
		gt.Value(t, settings.Rules[1].ID).Equal("a")
	})

	t.Run("matched rule without title derives it from the first sentence", func(t *testing.T) {
		settings := &model.ThankYouSettings{
			Rules: []model.ThankYouRule{
				{
					ID:        "msg-only",
					Condition: model.Condition{FieldID: "x", Operator: types.OperatorIsNotEmpty},
					MessageEn: "We received it. Expect a reply soon.",
					MessageFr: "Nous l'avons reçue. Réponse bientôt.",
				},
			},
		}

		result := model.EvaluateThankYouPage(settings, model.FormValues{"x": "v"})
		gt.Value(t, result.TitleEn).Equal("We received it")
		gt.Value(t, result.TitleFr).Equal("Nous l'avons reçue")
	})

	t.Run("redirect delay defaults to three seconds", func(t *testing.T) {
		settings := &model.ThankYouSettings{
			DefaultMessage: model.ThankYouMessage{
				EnableRedirect: true,
				RedirectURL:    "https://example.com/done",
			},
		}

		result := model.EvaluateThankYouPage(settings, model.FormValues{})
		gt.Value(t, result.RedirectURL).Equal("https://example.com/done")
		gt.Value(t, result.RedirectDelay).Equal(3)
	})

	t.Run("explicit redirect delay is honored", func(t *testing.T) {
		settings := &model.ThankYouSettings{
			Rules: []model.ThankYouRule{
				{
					ID:            "redir",
					Condition:     model.Condition{FieldID: "x", Operator: types.OperatorIsNotEmpty},
					RedirectURL:   "https://example.com/vip",
					RedirectDelay: intPtr(10),
				},
			},
		}

		result := model.EvaluateThankYouPage(settings, model.FormValues{"x": "v"})
		gt.Value(t, result.RedirectURL).Equal("https://example.com/vip")
		gt.Value(t, result.RedirectDelay).Equal(10)
	})
}
