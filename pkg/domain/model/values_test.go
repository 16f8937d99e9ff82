package model_test

import (
	"testing"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestFormValuesIsAbsent(t *testing.T) {
	values := model.FormValues{
		"name":     "Ada",
		"empty":    "",
		"checked":  true,
		"declined": false,
		"tags":     []string{"a"},
		"notags":   []string{},
	}

	gt.Bool(t, values.IsAbsent("name")).False()
	gt.Bool(t, values.IsAbsent("empty")).True()
	gt.Bool(t, values.IsAbsent("checked")).False()
	gt.Bool(t, values.IsAbsent("declined")).True()
	gt.Bool(t, values.IsAbsent("tags")).False()
	gt.Bool(t, values.IsAbsent("notags")).True()
	gt.Bool(t, values.IsAbsent("missing")).True()
}

func TestClearDependents(t *testing.T) {
	no := false
	form := &model.Form{
		ID: "f1",
		Fields: []model.FormField{
			{ID: "country", Type: types.FieldTypeSelect},
			{
				ID: "city", Type: types.FieldTypeSelect,
				Dependency: &model.Dependency{ParentFieldID: "country"},
			},
			{
				ID: "districts", Type: types.FieldTypeCheckbox,
				Dependency: &model.Dependency{ParentFieldID: "country"},
			},
			{
				ID: "keep", Type: types.FieldTypeSelect,
				Dependency: &model.Dependency{ParentFieldID: "country", ClearOnParentChange: &no},
			},
		},
	}

	values := model.FormValues{
		"country":   "fr",
		"city":      "paris",
		"districts": []string{"1er", "2e"},
		"keep":      "x",
	}

	cleared := values.ClearDependents(form, "country")

	gt.Array(t, cleared).Length(2)
	gt.Value(t, values["city"]).Equal("")
	gt.Value(t, values["districts"]).Equal([]string{})
	gt.Value(t, values["keep"]).Equal("x")
}
