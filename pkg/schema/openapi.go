package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/model"
)

const (
	extensionGroup         = "x-formstate-group"
	extensionGroups        = "x-formstate-groups"
	extensionDiscriminator = "x-formstate-discriminator"
	extensionCollector     = "x-formstate-collector"
	extensionMessages      = "x-formstate-messages"
	extensionOrder         = "x-formstate-order"
)

// FromOpenAPI builds a Schema from an object under components.schemas. Field
// order follows `x-formstate-order` when present, otherwise property names
// sorted alphabetically since OpenAPI objects are unordered. A boolean
// property declared as `enum: [true]` becomes an `accepted` rule.
func FromOpenAPI(ctx context.Context, data []byte, component string, opts ...Option) (*Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("schema: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return nil, errors.New("schema: openapi document has no component schemas")
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("schema: component %q not found", component)
	}

	form, err := formFromOpenAPI(component, ref.Value)
	if err != nil {
		return nil, err
	}
	return New(form, opts...)
}

func formFromOpenAPI(id string, src *openapi3.Schema) (model.FormModel, error) {
	form := model.FormModel{
		ID:            id,
		Title:         src.Title,
		Discriminator: extensionString(src.Extensions, extensionDiscriminator),
	}

	if raw, ok := src.Extensions[extensionGroups].(map[string]any); ok {
		ids := make([]string, 0, len(raw))
		for groupID := range raw {
			ids = append(ids, groupID)
		}
		sort.Strings(ids)
		for _, groupID := range ids {
			form.Groups = append(form.Groups, model.Group{ID: groupID, When: stringList(raw[groupID])})
		}
	}

	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	for _, name := range propertyOrder(src) {
		property := src.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		_, isRequired := required[name]
		form.Fields = append(form.Fields, fieldFromOpenAPI(name, property.Value, isRequired))
	}
	if len(form.Fields) == 0 {
		return form, fmt.Errorf("schema: component %q declares no properties", id)
	}
	return form, nil
}

func propertyOrder(src *openapi3.Schema) []string {
	declared := stringList(src.Extensions[extensionOrder])
	seen := make(map[string]struct{}, len(src.Properties))
	var out []string
	for _, name := range declared {
		if _, ok := src.Properties[name]; ok {
			out = append(out, name)
			seen[name] = struct{}{}
		}
	}
	var rest []string
	for name := range src.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func fieldFromOpenAPI(name string, src *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		Name:        name,
		Type:        fieldType(src),
		Format:      src.Format,
		Label:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Group:       extensionString(src.Extensions, extensionGroup),
		Collector:   model.CollectorKind(extensionString(src.Extensions, extensionCollector)),
		Presence:    model.PresenceOptional,
	}
	if required {
		field.Presence = model.PresenceRequired
	}
	acceptedOnly := field.Type == model.FieldTypeBoolean && len(src.Enum) == 1 && src.Enum[0] == true
	if field.Type != model.FieldTypeBoolean {
		for _, value := range src.Enum {
			field.Enum = append(field.Enum, fmt.Sprint(value))
		}
	}

	messages, _ := src.Extensions[extensionMessages].(map[string]any)
	message := func(kind string) string {
		if text, ok := messages[kind].(string); ok {
			return text
		}
		return ""
	}
	addRule := func(kind string, params map[string]string) {
		field.Validations = append(field.Validations, model.ValidationRule{Kind: kind, Params: params, Message: message(kind)})
	}

	switch {
	case src.MaxLength != nil && src.MinLength == *src.MaxLength:
		addRule(model.ValidationRuleLength, map[string]string{"value": strconv.FormatUint(src.MinLength, 10)})
	default:
		if src.MinLength > 0 {
			addRule(model.ValidationRuleMinLength, map[string]string{"value": strconv.FormatUint(src.MinLength, 10)})
		}
		if src.MaxLength != nil {
			addRule(model.ValidationRuleMaxLength, map[string]string{"value": strconv.FormatUint(*src.MaxLength, 10)})
		}
	}
	if src.Min != nil {
		addRule(model.ValidationRuleMin, map[string]string{"value": strconv.FormatFloat(*src.Min, 'f', -1, 64)})
	}
	if src.Max != nil {
		addRule(model.ValidationRuleMax, map[string]string{"value": strconv.FormatFloat(*src.Max, 'f', -1, 64)})
	}
	if src.Pattern != "" {
		addRule(model.ValidationRulePattern, map[string]string{"pattern": src.Pattern})
	}
	if strings.EqualFold(src.Format, "email") {
		addRule(model.ValidationRuleEmail, nil)
	}
	if acceptedOnly {
		addRule(model.ValidationRuleAccepted, nil)
	}

	if src.Items != nil && src.Items.Value != nil {
		items := fieldFromOpenAPI("item", src.Items.Value, false)
		field.Items = &items
	}
	if field.Type == model.FieldTypeObject {
		nestedRequired := make(map[string]struct{}, len(src.Required))
		for _, child := range src.Required {
			nestedRequired[child] = struct{}{}
		}
		for _, child := range propertyOrder(src) {
			ref := src.Properties[child]
			if ref == nil || ref.Value == nil {
				continue
			}
			_, isRequired := nestedRequired[child]
			field.Nested = append(field.Nested, fieldFromOpenAPI(child, ref.Value, isRequired))
		}
	}
	return field
}

func fieldType(src *openapi3.Schema) model.FieldType {
	if src.Type == nil {
		return model.FieldTypeString
	}
	switch {
	case src.Type.Is(openapi3.TypeBoolean):
		return model.FieldTypeBoolean
	case src.Type.Is(openapi3.TypeInteger), src.Type.Is(openapi3.TypeNumber):
		return model.FieldTypeNumber
	case src.Type.Is(openapi3.TypeArray):
		return model.FieldTypeArray
	case src.Type.Is(openapi3.TypeObject):
		return model.FieldTypeObject
	default:
		return model.FieldTypeString
	}
}

func extensionString(ext map[string]any, key string) string {
	if value, ok := ext[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func stringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
