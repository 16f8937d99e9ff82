package config

import (
	"os"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Forms holds CLI flags for file-based form definitions, used to validate
// definitions offline and to seed the in-memory backend on startup
type Forms struct {
	paths []string
}

// Flags returns CLI flags for form definition files
func (f *Forms) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "form-file",
			Usage:       "TOML form definition file (repeatable)",
			Sources:     cli.EnvVars("FIELDLINE_FORM_FILE"),
			Destination: &f.paths,
		},
	}
}

// Paths returns the configured definition file paths
func (f *Forms) Paths() []string {
	return f.paths
}

// Load parses and validates every configured definition file
func (f *Forms) Load() ([]*model.Form, error) {
	var forms []*model.Form
	for _, path := range f.paths {
		form, err := LoadFormFile(path)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// formFile is the TOML shape of one form definition
type formFile struct {
	ID          string            `toml:"id"`
	Title       string            `toml:"title"`
	Description string            `toml:"description"`
	Status      string            `toml:"status"`
	Fields      []formFileField   `toml:"field"`
	ThankYou    *formFileThankYou `toml:"thank_you"`
	Exports     []formFileExport  `toml:"export"`
}

type formFileField struct {
	ID       string `toml:"id"`
	Type     string `toml:"type"`
	LabelEn  string `toml:"label_en"`
	LabelFr  string `toml:"label_fr"`
	Required bool   `toml:"required"`
	Order    int    `toml:"order"`

	Options []formFileOption `toml:"option"`

	UseDynamicData bool                `toml:"use_dynamic_data"`
	DataSource     *formFileDataSource `toml:"data_source"`
	Dependency     *formFileDependency `toml:"dependency"`

	Condition       *formFileCondition `toml:"condition"`
	ConditionAction string             `toml:"condition_action"`

	MaxStars  *int     `toml:"max_stars"`
	Min       *float64 `toml:"min"`
	Max       *float64 `toml:"max"`
	MinLength *int     `toml:"min_length"`
	MaxLength *int     `toml:"max_length"`
}

type formFileOption struct {
	ID      string `toml:"id"`
	Value   string `toml:"value"`
	LabelEn string `toml:"label_en"`
	LabelFr string `toml:"label_fr"`
}

type formFileCondition struct {
	FieldID  string `toml:"field_id"`
	Operator string `toml:"operator"`
	Value    string `toml:"value"`
}

type formFileDataSource struct {
	EntityType      string           `toml:"entity_type"`
	DisplayField    string           `toml:"display_field"`
	ValueField      string           `toml:"value_field"`
	DisplayTemplate string           `toml:"display_template"`
	Filters         []formFileFilter `toml:"filter"`
	SortField       string           `toml:"sort_field"`
	SortOrder       string           `toml:"sort_order"`
	Limit           int              `toml:"limit"`
}

type formFileFilter struct {
	Field    string `toml:"field"`
	Operator string `toml:"operator"`
	Value    string `toml:"value"`
}

type formFileDependency struct {
	ParentFieldID       string `toml:"parent_field_id"`
	ParentValueField    string `toml:"parent_value_field"`
	FilterField         string `toml:"filter_field"`
	ClearOnParentChange *bool  `toml:"clear_on_parent_change"`
}

type formFileThankYou struct {
	DefaultMessage formFileThankYouMessage `toml:"default_message"`
	Rules          []formFileThankYouRule  `toml:"rule"`
}

type formFileThankYouMessage struct {
	TitleEn        string `toml:"title_en"`
	TitleFr        string `toml:"title_fr"`
	MessageEn      string `toml:"message_en"`
	MessageFr      string `toml:"message_fr"`
	EnableRedirect bool   `toml:"enable_redirect"`
	RedirectURL    string `toml:"redirect_url"`
	RedirectDelay  *int   `toml:"redirect_delay"`
}

type formFileThankYouRule struct {
	ID            string            `toml:"id"`
	Name          string            `toml:"name"`
	Condition     formFileCondition `toml:"condition"`
	TitleEn       string            `toml:"title_en"`
	TitleFr       string            `toml:"title_fr"`
	MessageEn     string            `toml:"message_en"`
	MessageFr     string            `toml:"message_fr"`
	RedirectURL   string            `toml:"redirect_url"`
	RedirectDelay *int              `toml:"redirect_delay"`
	Priority      *int              `toml:"priority"`
}

type formFileExport struct {
	EntityType string            `toml:"entity_type"`
	Fields     map[string]string `toml:"fields"`
}

// LoadFormFile parses one TOML form definition and validates it
func LoadFormFile(path string) (*model.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "form definition file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read form definition file", goerr.V(ConfigPathKey, path))
	}

	var file formFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse form definition file", goerr.V(ConfigPathKey, path))
	}

	form := file.toModel()
	if err := form.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid form definition", goerr.V(ConfigPathKey, path))
	}

	return form, nil
}

func (file *formFile) toModel() *model.Form {
	form := &model.Form{
		ID:          file.ID,
		Title:       file.Title,
		Description: file.Description,
		Status:      types.FormStatus(file.Status),
		Fields:      make([]model.FormField, len(file.Fields)),
	}
	if form.Status == "" {
		form.Status = types.FormStatusPublished
	}
	for i, f := range file.Fields {
		form.Fields[i] = f.toModel()
	}
	if file.ThankYou != nil {
		form.ThankYou = file.ThankYou.toModel()
	}
	for _, e := range file.Exports {
		fields := make(map[types.FieldID]string, len(e.Fields))
		for fieldID, entityField := range e.Fields {
			fields[types.FieldID(fieldID)] = entityField
		}
		form.Exports = append(form.Exports, model.ExportMapping{
			EntityType: types.EntityType(e.EntityType),
			Fields:     fields,
		})
	}
	return form
}

func (f *formFileField) toModel() model.FormField {
	field := model.FormField{
		ID:              types.FieldID(f.ID),
		Type:            types.FieldType(f.Type),
		LabelEn:         f.LabelEn,
		LabelFr:         f.LabelFr,
		Required:        f.Required,
		Order:           f.Order,
		UseDynamicData:  f.UseDynamicData,
		ConditionAction: types.ConditionAction(f.ConditionAction),
		MaxStars:        f.MaxStars,
		Min:             f.Min,
		Max:             f.Max,
		MinLength:       f.MinLength,
		MaxLength:       f.MaxLength,
	}
	for _, o := range f.Options {
		field.Options = append(field.Options, model.FieldOption{
			ID:      o.ID,
			Value:   o.Value,
			LabelEn: o.LabelEn,
			LabelFr: o.LabelFr,
		})
	}
	if f.DataSource != nil {
		ds := &model.DataSource{
			EntityType:      types.EntityType(f.DataSource.EntityType),
			DisplayField:    f.DataSource.DisplayField,
			ValueField:      f.DataSource.ValueField,
			DisplayTemplate: f.DataSource.DisplayTemplate,
			SortField:       f.DataSource.SortField,
			SortOrder:       types.SortOrder(f.DataSource.SortOrder),
			Limit:           f.DataSource.Limit,
		}
		for _, flt := range f.DataSource.Filters {
			ds.Filters = append(ds.Filters, model.DataSourceFilter{
				Field:    flt.Field,
				Operator: types.ConditionOperator(flt.Operator),
				Value:    flt.Value,
			})
		}
		field.DataSource = ds
	}
	if f.Dependency != nil {
		field.Dependency = &model.Dependency{
			ParentFieldID:       types.FieldID(f.Dependency.ParentFieldID),
			ParentValueField:    f.Dependency.ParentValueField,
			FilterField:         f.Dependency.FilterField,
			ClearOnParentChange: f.Dependency.ClearOnParentChange,
		}
	}
	if f.Condition != nil {
		field.Condition = &model.Condition{
			FieldID:  types.FieldID(f.Condition.FieldID),
			Operator: types.ConditionOperator(f.Condition.Operator),
			Value:    f.Condition.Value,
		}
	}
	return field
}

func (ty *formFileThankYou) toModel() *model.ThankYouSettings {
	settings := &model.ThankYouSettings{
		DefaultMessage: model.ThankYouMessage{
			TitleEn:        ty.DefaultMessage.TitleEn,
			TitleFr:        ty.DefaultMessage.TitleFr,
			MessageEn:      ty.DefaultMessage.MessageEn,
			MessageFr:      ty.DefaultMessage.MessageFr,
			EnableRedirect: ty.DefaultMessage.EnableRedirect,
			RedirectURL:    ty.DefaultMessage.RedirectURL,
			RedirectDelay:  ty.DefaultMessage.RedirectDelay,
		},
	}
	for _, r := range ty.Rules {
		settings.Rules = append(settings.Rules, model.ThankYouRule{
			ID:   r.ID,
			Name: r.Name,
			Condition: model.Condition{
				FieldID:  types.FieldID(r.Condition.FieldID),
				Operator: types.ConditionOperator(r.Condition.Operator),
				Value:    r.Condition.Value,
			},
			TitleEn:       r.TitleEn,
			TitleFr:       r.TitleFr,
			MessageEn:     r.MessageEn,
			MessageFr:     r.MessageFr,
			RedirectURL:   r.RedirectURL,
			RedirectDelay: r.RedirectDelay,
			Priority:      r.Priority,
		})
	}
	return settings
}
