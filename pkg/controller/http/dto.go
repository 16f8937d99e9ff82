package http

import (
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/fieldline-hq/fieldline/pkg/service/options"
)

// formDTO is the wire representation of a form definition, accepted on
// create/update and returned on read
type formDTO struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      string       `json:"status,omitempty"`
	Fields      []fieldDTO   `json:"fields"`
	ThankYou    *thankYouDTO `json:"thank_you,omitempty"`
	Exports     []exportDTO  `json:"exports,omitempty"`
	CreatedAt   *time.Time   `json:"created_at,omitempty"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`
}

type fieldDTO struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	LabelEn  string `json:"label_en,omitempty"`
	LabelFr  string `json:"label_fr,omitempty"`
	Required bool   `json:"required,omitempty"`
	Order    int    `json:"order"`

	Options []optionDTO `json:"options,omitempty"`

	UseDynamicData bool           `json:"use_dynamic_data,omitempty"`
	DataSource     *dataSourceDTO `json:"data_source,omitempty"`
	Dependency     *dependencyDTO `json:"dependency,omitempty"`

	Condition       *conditionDTO `json:"condition,omitempty"`
	ConditionAction string        `json:"condition_action,omitempty"`

	MaxStars  *int     `json:"max_stars,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
}

type optionDTO struct {
	ID      string `json:"id,omitempty"`
	Value   string `json:"value"`
	LabelEn string `json:"label_en,omitempty"`
	LabelFr string `json:"label_fr,omitempty"`
}

type conditionDTO struct {
	FieldID  string `json:"field_id"`
	Operator string `json:"operator"`
	Value    any    `json:"value,omitempty"`
}

type dataSourceDTO struct {
	EntityType      string      `json:"entity_type"`
	DisplayField    string      `json:"display_field,omitempty"`
	ValueField      string      `json:"value_field,omitempty"`
	DisplayTemplate string      `json:"display_template,omitempty"`
	Filters         []filterDTO `json:"filters,omitempty"`
	SortField       string      `json:"sort_field,omitempty"`
	SortOrder       string      `json:"sort_order,omitempty"`
	Limit           int         `json:"limit,omitempty"`
}

type filterDTO struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value,omitempty"`
}

type dependencyDTO struct {
	ParentFieldID       string `json:"parent_field_id"`
	ParentValueField    string `json:"parent_value_field,omitempty"`
	FilterField         string `json:"filter_field,omitempty"`
	ClearOnParentChange *bool  `json:"clear_on_parent_change,omitempty"`
}

type thankYouDTO struct {
	DefaultMessage thankYouMessageDTO `json:"default_message"`
	Rules          []thankYouRuleDTO  `json:"rules,omitempty"`
}

type thankYouMessageDTO struct {
	TitleEn        string `json:"title_en,omitempty"`
	TitleFr        string `json:"title_fr,omitempty"`
	MessageEn      string `json:"message_en,omitempty"`
	MessageFr      string `json:"message_fr,omitempty"`
	EnableRedirect bool   `json:"enable_redirect,omitempty"`
	RedirectURL    string `json:"redirect_url,omitempty"`
	RedirectDelay  *int   `json:"redirect_delay,omitempty"`
}

type thankYouRuleDTO struct {
	ID            string       `json:"id,omitempty"`
	Name          string       `json:"name,omitempty"`
	Condition     conditionDTO `json:"condition"`
	TitleEn       string       `json:"title_en,omitempty"`
	TitleFr       string       `json:"title_fr,omitempty"`
	MessageEn     string       `json:"message_en,omitempty"`
	MessageFr     string       `json:"message_fr,omitempty"`
	RedirectURL   string       `json:"redirect_url,omitempty"`
	RedirectDelay *int         `json:"redirect_delay,omitempty"`
	Priority      *int         `json:"priority,omitempty"`
}

type exportDTO struct {
	EntityType string            `json:"entity_type"`
	Fields     map[string]string `json:"fields"`
}

type thankYouResultDTO struct {
	TitleEn       string `json:"title_en"`
	TitleFr       string `json:"title_fr"`
	MessageEn     string `json:"message_en"`
	MessageFr     string `json:"message_fr"`
	RedirectURL   string `json:"redirect_url,omitempty"`
	RedirectDelay int    `json:"redirect_delay,omitempty"`
	MatchedRuleID string `json:"matched_rule_id,omitempty"`
}

type responseDTO struct {
	ID          string            `json:"id"`
	FormID      string            `json:"form_id"`
	Values      map[string]any    `json:"values"`
	Source      string            `json:"source"`
	LinkID      string            `json:"link_id,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
	ExportedTo  map[string]string `json:"exported_to,omitempty"`
}

type pageDTO struct {
	Number int        `json:"number"`
	Title  string     `json:"title,omitempty"`
	Fields []fieldDTO `json:"fields"`
}

type fieldSnapshotDTO struct {
	Options       []optionDTO `json:"options"`
	Loading       bool        `json:"loading,omitempty"`
	Error         string      `json:"error,omitempty"`
	PendingParent string      `json:"pending_parent,omitempty"`
}

func toFormDTO(form *model.Form) formDTO {
	dto := formDTO{
		ID:          form.ID,
		Title:       form.Title,
		Description: form.Description,
		Status:      string(form.Status),
		Fields:      make([]fieldDTO, len(form.Fields)),
	}
	if !form.CreatedAt.IsZero() {
		created := form.CreatedAt
		dto.CreatedAt = &created
	}
	if !form.UpdatedAt.IsZero() {
		updated := form.UpdatedAt
		dto.UpdatedAt = &updated
	}
	for i := range form.Fields {
		dto.Fields[i] = toFieldDTO(&form.Fields[i])
	}
	if form.ThankYou != nil {
		ty := toThankYouDTO(form.ThankYou)
		dto.ThankYou = &ty
	}
	for _, e := range form.Exports {
		fields := make(map[string]string, len(e.Fields))
		for fieldID, entityField := range e.Fields {
			fields[string(fieldID)] = entityField
		}
		dto.Exports = append(dto.Exports, exportDTO{
			EntityType: string(e.EntityType),
			Fields:     fields,
		})
	}
	return dto
}

func toFieldDTO(f *model.FormField) fieldDTO {
	dto := fieldDTO{
		ID:              string(f.ID),
		Type:            string(f.Type),
		LabelEn:         f.LabelEn,
		LabelFr:         f.LabelFr,
		Required:        f.Required,
		Order:           f.Order,
		UseDynamicData:  f.UseDynamicData,
		ConditionAction: string(f.ConditionAction),
		MaxStars:        f.MaxStars,
		Min:             f.Min,
		Max:             f.Max,
		MinLength:       f.MinLength,
		MaxLength:       f.MaxLength,
	}
	for _, o := range f.Options {
		dto.Options = append(dto.Options, optionDTO{
			ID:      o.ID,
			Value:   o.Value,
			LabelEn: o.LabelEn,
			LabelFr: o.LabelFr,
		})
	}
	if f.DataSource != nil {
		ds := toDataSourceDTO(f.DataSource)
		dto.DataSource = &ds
	}
	if f.Dependency != nil {
		dto.Dependency = &dependencyDTO{
			ParentFieldID:       string(f.Dependency.ParentFieldID),
			ParentValueField:    f.Dependency.ParentValueField,
			FilterField:         f.Dependency.FilterField,
			ClearOnParentChange: f.Dependency.ClearOnParentChange,
		}
	}
	if f.Condition != nil {
		dto.Condition = &conditionDTO{
			FieldID:  string(f.Condition.FieldID),
			Operator: string(f.Condition.Operator),
			Value:    f.Condition.Value,
		}
	}
	return dto
}

func toDataSourceDTO(ds *model.DataSource) dataSourceDTO {
	dto := dataSourceDTO{
		EntityType:      string(ds.EntityType),
		DisplayField:    ds.DisplayField,
		ValueField:      ds.ValueField,
		DisplayTemplate: ds.DisplayTemplate,
		SortField:       ds.SortField,
		SortOrder:       string(ds.SortOrder),
		Limit:           ds.Limit,
	}
	for _, f := range ds.Filters {
		dto.Filters = append(dto.Filters, filterDTO{
			Field:    f.Field,
			Operator: string(f.Operator),
			Value:    f.Value,
		})
	}
	return dto
}

func toThankYouDTO(ty *model.ThankYouSettings) thankYouDTO {
	dto := thankYouDTO{
		DefaultMessage: thankYouMessageDTO{
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
		dto.Rules = append(dto.Rules, thankYouRuleDTO{
			ID:   r.ID,
			Name: r.Name,
			Condition: conditionDTO{
				FieldID:  string(r.Condition.FieldID),
				Operator: string(r.Condition.Operator),
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
	return dto
}

func (dto *formDTO) toModel() *model.Form {
	form := &model.Form{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Status:      types.FormStatus(dto.Status),
		Fields:      make([]model.FormField, len(dto.Fields)),
	}
	for i := range dto.Fields {
		form.Fields[i] = dto.Fields[i].toModel()
	}
	if dto.ThankYou != nil {
		form.ThankYou = dto.ThankYou.toModel()
	}
	for _, e := range dto.Exports {
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

func (dto *fieldDTO) toModel() model.FormField {
	f := model.FormField{
		ID:              types.FieldID(dto.ID),
		Type:            types.FieldType(dto.Type),
		LabelEn:         dto.LabelEn,
		LabelFr:         dto.LabelFr,
		Required:        dto.Required,
		Order:           dto.Order,
		UseDynamicData:  dto.UseDynamicData,
		ConditionAction: types.ConditionAction(dto.ConditionAction),
		MaxStars:        dto.MaxStars,
		Min:             dto.Min,
		Max:             dto.Max,
		MinLength:       dto.MinLength,
		MaxLength:       dto.MaxLength,
	}
	for _, o := range dto.Options {
		f.Options = append(f.Options, model.FieldOption{
			ID:      o.ID,
			Value:   o.Value,
			LabelEn: o.LabelEn,
			LabelFr: o.LabelFr,
		})
	}
	if dto.DataSource != nil {
		f.DataSource = dto.DataSource.toModel()
	}
	if dto.Dependency != nil {
		f.Dependency = &model.Dependency{
			ParentFieldID:       types.FieldID(dto.Dependency.ParentFieldID),
			ParentValueField:    dto.Dependency.ParentValueField,
			FilterField:         dto.Dependency.FilterField,
			ClearOnParentChange: dto.Dependency.ClearOnParentChange,
		}
	}
	if dto.Condition != nil {
		f.Condition = &model.Condition{
			FieldID:  types.FieldID(dto.Condition.FieldID),
			Operator: types.ConditionOperator(dto.Condition.Operator),
			Value:    dto.Condition.Value,
		}
	}
	return f
}

func (dto *dataSourceDTO) toModel() *model.DataSource {
	ds := &model.DataSource{
		EntityType:      types.EntityType(dto.EntityType),
		DisplayField:    dto.DisplayField,
		ValueField:      dto.ValueField,
		DisplayTemplate: dto.DisplayTemplate,
		SortField:       dto.SortField,
		SortOrder:       types.SortOrder(dto.SortOrder),
		Limit:           dto.Limit,
	}
	for _, f := range dto.Filters {
		ds.Filters = append(ds.Filters, model.DataSourceFilter{
			Field:    f.Field,
			Operator: types.ConditionOperator(f.Operator),
			Value:    f.Value,
		})
	}
	return ds
}

func (dto *thankYouDTO) toModel() *model.ThankYouSettings {
	ty := &model.ThankYouSettings{
		DefaultMessage: model.ThankYouMessage{
			TitleEn:        dto.DefaultMessage.TitleEn,
			TitleFr:        dto.DefaultMessage.TitleFr,
			MessageEn:      dto.DefaultMessage.MessageEn,
			MessageFr:      dto.DefaultMessage.MessageFr,
			EnableRedirect: dto.DefaultMessage.EnableRedirect,
			RedirectURL:    dto.DefaultMessage.RedirectURL,
			RedirectDelay:  dto.DefaultMessage.RedirectDelay,
		},
	}
	for _, r := range dto.Rules {
		ty.Rules = append(ty.Rules, model.ThankYouRule{
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
	return ty
}

func toThankYouResultDTO(result model.ThankYouResult) thankYouResultDTO {
	dto := thankYouResultDTO{
		TitleEn:       result.TitleEn,
		TitleFr:       result.TitleFr,
		MessageEn:     result.MessageEn,
		MessageFr:     result.MessageFr,
		RedirectURL:   result.RedirectURL,
		RedirectDelay: result.RedirectDelay,
	}
	if result.MatchedRule != nil {
		dto.MatchedRuleID = result.MatchedRule.ID
	}
	return dto
}

func toResponseDTO(resp *model.FormResponse) responseDTO {
	dto := responseDTO{
		ID:          resp.ID,
		FormID:      resp.FormID,
		Values:      make(map[string]any, len(resp.Values)),
		Source:      string(resp.Source),
		LinkID:      resp.LinkID,
		SubmittedAt: resp.SubmittedAt,
	}
	for k, v := range resp.Values {
		dto.Values[string(k)] = v
	}
	for entityType, entityID := range resp.ExportedTo {
		if dto.ExportedTo == nil {
			dto.ExportedTo = make(map[string]string)
		}
		dto.ExportedTo[string(entityType)] = entityID
	}
	return dto
}

func toPageDTOs(pages []model.Page) []pageDTO {
	out := make([]pageDTO, len(pages))
	for i, p := range pages {
		dto := pageDTO{
			Number: p.Number,
			Title:  p.Title,
			Fields: make([]fieldDTO, len(p.Fields)),
		}
		for j := range p.Fields {
			dto.Fields[j] = toFieldDTO(&p.Fields[j])
		}
		out[i] = dto
	}
	return out
}

func toSnapshotDTOs(snap map[types.FieldID]options.FieldSnapshot) map[string]fieldSnapshotDTO {
	out := make(map[string]fieldSnapshotDTO, len(snap))
	for fieldID, s := range snap {
		dto := fieldSnapshotDTO{
			Options:       make([]optionDTO, len(s.Options)),
			Loading:       s.Loading,
			PendingParent: s.PendingParent,
		}
		for i, o := range s.Options {
			dto.Options[i] = optionDTO{
				ID:      o.ID,
				Value:   o.Value,
				LabelEn: o.LabelEn,
				LabelFr: o.LabelFr,
			}
		}
		if s.Error != "" {
			dto.Error = s.Error
		}
		out[string(fieldID)] = dto
	}
	return out
}

func toValues(raw map[string]any) model.FormValues {
	values := make(model.FormValues, len(raw))
	for k, v := range raw {
		values[types.FieldID(k)] = v
	}
	return values
}
