package model_test

import (
	"testing"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestDetectReferenceCycle(t *testing.T) {
	t.Run("acyclic references pass", func(t *testing.T) {
		fields := []model.FormField{
			{ID: "country", Type: types.FieldTypeSelect},
			{
				ID: "city", Type: types.FieldTypeSelect,
				Dependency: &model.Dependency{ParentFieldID: "country"},
			},
			{
				ID: "details", Type: types.FieldTypeText,
				Condition: &model.Condition{FieldID: "city", Operator: types.OperatorIsNotEmpty},
			},
		}

		gt.Array(t, model.DetectReferenceCycle(fields)).Length(0)
	})

	t.Run("mutual condition references are detected", func(t *testing.T) {
		fields := []model.FormField{
			{
				ID: "a", Type: types.FieldTypeText,
				Condition: &model.Condition{FieldID: "b", Operator: types.OperatorIsNotEmpty},
			},
			{
				ID: "b", Type: types.FieldTypeText,
				Condition: &model.Condition{FieldID: "a", Operator: types.OperatorIsNotEmpty},
			},
		}

		cycle := model.DetectReferenceCycle(fields)
		gt.Array(t, cycle).Length(2)
	})

	t.Run("condition and dependency edges combine into a cycle", func(t *testing.T) {
		fields := []model.FormField{
			{
				ID: "a", Type: types.FieldTypeSelect,
				Condition: &model.Condition{FieldID: "b", Operator: types.OperatorIsNotEmpty},
			},
			{
				ID: "b", Type: types.FieldTypeSelect,
				Dependency: &model.Dependency{ParentFieldID: "c"},
			},
			{
				ID: "c", Type: types.FieldTypeSelect,
				Dependency: &model.Dependency{ParentFieldID: "a"},
			},
		}

		cycle := model.DetectReferenceCycle(fields)
		gt.Array(t, cycle).Length(3)
	})

	t.Run("self reference is a cycle", func(t *testing.T) {
		fields := []model.FormField{
			{
				ID: "a", Type: types.FieldTypeText,
				Condition: &model.Condition{FieldID: "a", Operator: types.OperatorIsNotEmpty},
			},
		}

		cycle := model.DetectReferenceCycle(fields)
		gt.Array(t, cycle).Length(1)
		gt.Value(t, cycle[0]).Equal(types.FieldID("a"))
	})
}
