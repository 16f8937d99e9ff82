package model_test

import (
	"errors"
	"testing"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestValidateSubmission(t *testing.T) {
	form := &model.Form{
		ID: "survey",
		Fields: []model.FormField{
			{ID: "subscribe", Type: types.FieldTypeRadio, Required: true, Order: 1,
				Options: []model.FieldOption{{Value: "yes"}, {Value: "no"}}},
			{ID: "email", Type: types.FieldTypeEmail, Required: true, Order: 2,
				Condition: &model.Condition{FieldID: "subscribe", Operator: types.OperatorEquals, Value: "yes"}},
			{ID: "note", Type: types.FieldTypeSection, Order: 3},
		},
	}

	t.Run("valid submission is sanitized", func(t *testing.T) {
		out, err := model.NewFieldValidator(form).ValidateSubmission(model.FormValues{
			"subscribe": "yes",
			"email":     "ada@example.com",
			"note":      "display-only fields never store values",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, out["subscribe"]).Equal("yes")
		gt.Value(t, out["email"]).Equal("ada@example.com")
		_, kept := out["note"]
		gt.Bool(t, kept).False()
	})

	t.Run("required hidden field is not required", func(t *testing.T) {
		out, err := model.NewFieldValidator(form).ValidateSubmission(model.FormValues{
			"subscribe": "no",
		})
		gt.NoError(t, err).Required()
		_, kept := out["email"]
		gt.Bool(t, kept).False()
	})

	t.Run("hidden field values are dropped", func(t *testing.T) {
		out, err := model.NewFieldValidator(form).ValidateSubmission(model.FormValues{
			"subscribe": "no",
			"email":     "stale@example.com",
		})
		gt.NoError(t, err).Required()
		_, kept := out["email"]
		gt.Bool(t, kept).False()
	})

	t.Run("missing required visible field fails", func(t *testing.T) {
		_, err := model.NewFieldValidator(form).ValidateSubmission(model.FormValues{
			"subscribe": "yes",
		})
		gt.Bool(t, errors.Is(err, model.ErrMissingRequired)).True()
	})

	t.Run("invalid email fails", func(t *testing.T) {
		_, err := model.NewFieldValidator(form).ValidateSubmission(model.FormValues{
			"subscribe": "yes",
			"email":     "not-an-address",
		})
		gt.Bool(t, errors.Is(err, model.ErrInvalidValue)).True()
	})

	t.Run("unknown static option fails", func(t *testing.T) {
		_, err := model.NewFieldValidator(form).ValidateSubmission(model.FormValues{
			"subscribe": "maybe",
		})
		gt.Bool(t, errors.Is(err, model.ErrUnknownOption)).True()
	})
}

func TestValidateFieldConstraints(t *testing.T) {
	three := 3
	five := 5
	minV := 1.0
	maxV := 10.0

	t.Run("length bounds", func(t *testing.T) {
		form := &model.Form{Fields: []model.FormField{
			{ID: "name", Type: types.FieldTypeText, MinLength: &three, MaxLength: &five},
		}}
		v := model.NewFieldValidator(form)

		_, err := v.ValidateSubmission(model.FormValues{"name": "Ada"})
		gt.NoError(t, err)

		_, err = v.ValidateSubmission(model.FormValues{"name": "Al"})
		gt.Bool(t, errors.Is(err, model.ErrInvalidValue)).True()

		_, err = v.ValidateSubmission(model.FormValues{"name": "Augustus"})
		gt.Bool(t, errors.Is(err, model.ErrInvalidValue)).True()
	})

	t.Run("numeric bounds accept number-like strings", func(t *testing.T) {
		form := &model.Form{Fields: []model.FormField{
			{ID: "qty", Type: types.FieldTypeNumber, Min: &minV, Max: &maxV},
		}}
		v := model.NewFieldValidator(form)

		_, err := v.ValidateSubmission(model.FormValues{"qty": "7"})
		gt.NoError(t, err)

		_, err = v.ValidateSubmission(model.FormValues{"qty": 11})
		gt.Bool(t, errors.Is(err, model.ErrInvalidValue)).True()

		_, err = v.ValidateSubmission(model.FormValues{"qty": "several"})
		gt.Bool(t, errors.Is(err, model.ErrInvalidValue)).True()
	})

	t.Run("rating range uses max stars", func(t *testing.T) {
		form := &model.Form{Fields: []model.FormField{
			{ID: "stars", Type: types.FieldTypeRating, MaxStars: &three},
		}}
		v := model.NewFieldValidator(form)

		_, err := v.ValidateSubmission(model.FormValues{"stars": 3})
		gt.NoError(t, err)

		_, err = v.ValidateSubmission(model.FormValues{"stars": 4})
		gt.Bool(t, errors.Is(err, model.ErrInvalidValue)).True()
	})

	t.Run("dynamic choice fields accept any value", func(t *testing.T) {
		form := &model.Form{Fields: []model.FormField{
			{ID: "city", Type: types.FieldTypeSelect, UseDynamicData: true,
				DataSource: &model.DataSource{EntityType: types.EntityTypeContact, ValueField: "id"}},
		}}
		v := model.NewFieldValidator(form)

		_, err := v.ValidateSubmission(model.FormValues{"city": "anything"})
		gt.NoError(t, err)
	})

	t.Run("checkbox group values must be configured options", func(t *testing.T) {
		form := &model.Form{Fields: []model.FormField{
			{ID: "channels", Type: types.FieldTypeCheckbox,
				Options: []model.FieldOption{{Value: "email"}, {Value: "phone"}}},
		}}
		v := model.NewFieldValidator(form)

		_, err := v.ValidateSubmission(model.FormValues{"channels": []string{"email"}})
		gt.NoError(t, err)

		_, err = v.ValidateSubmission(model.FormValues{"channels": []string{"fax"}})
		gt.Bool(t, errors.Is(err, model.ErrUnknownOption)).True()
	})

	t.Run("signature must be an image data URL", func(t *testing.T) {
		form := &model.Form{Fields: []model.FormField{
			{ID: "sig", Type: types.FieldTypeSignature},
		}}
		v := model.NewFieldValidator(form)

		_, err := v.ValidateSubmission(model.FormValues{"sig": "data:image/png;base64,iVBOR"})
		gt.NoError(t, err)

		_, err = v.ValidateSubmission(model.FormValues{"sig": "hello"})
		gt.Bool(t, errors.Is(err, model.ErrInvalidValue)).True()
	})
}
