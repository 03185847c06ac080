package llm

import (
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// FieldType is the JSON type of a schema field.
type FieldType string

// Supported field types.
const (
	FieldString     FieldType = "string"
	FieldInteger    FieldType = "integer"
	FieldNumber     FieldType = "number"
	FieldStringList FieldType = "[]string"
	FieldObject     FieldType = "object"
	FieldObjectList FieldType = "[]object"
)

// ResponseSchema describes the JSON object a structured generation call
// must return. The same description renders the prompt's output section and
// the provider-side response schema.
type ResponseSchema struct {
	Name        string
	Description string
	Fields      []SchemaField
}

// SchemaField defines a single field in the output.
type SchemaField struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	// Fields describes the members of FieldObject and FieldObjectList.
	Fields []SchemaField
}

// Genai converts the schema to the provider's response schema.
func (s ResponseSchema) Genai() *genai.Schema {
	return objectSchema(s.Description, s.Fields)
}

func objectSchema(description string, fields []SchemaField) *genai.Schema {
	out := &genai.Schema{
		Type:        genai.TypeObject,
		Description: description,
		Properties:  make(map[string]*genai.Schema, len(fields)),
	}
	for _, f := range fields {
		out.Properties[f.Name] = fieldSchema(f)
		if f.Required {
			out.Required = append(out.Required, f.Name)
		}
	}
	return out
}

func fieldSchema(f SchemaField) *genai.Schema {
	switch f.Type {
	case FieldInteger:
		return &genai.Schema{Type: genai.TypeInteger, Description: f.Description}
	case FieldNumber:
		return &genai.Schema{Type: genai.TypeNumber, Description: f.Description}
	case FieldStringList:
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: f.Description,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	case FieldObject:
		return objectSchema(f.Description, f.Fields)
	case FieldObjectList:
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: f.Description,
			Items:       objectSchema("", f.Fields),
		}
	default:
		return &genai.Schema{Type: genai.TypeString, Description: f.Description}
	}
}

// PromptSection renders the output contract appended to a prompt.
func (s ResponseSchema) PromptSection() string {
	var sb strings.Builder
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	writeObject(&sb, s.Fields, 0)
	sb.WriteString("\n\nIMPORTANT:\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n")
	return sb.String()
}

func writeObject(sb *strings.Builder, fields []SchemaField, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString("{\n")
	for i, f := range fields {
		sb.WriteString(fmt.Sprintf("%s  \"%s\": ", indent, f.Name))
		switch f.Type {
		case FieldObject:
			writeObject(sb, f.Fields, depth+1)
		case FieldObjectList:
			sb.WriteString("[")
			writeObject(sb, f.Fields, depth+1)
			sb.WriteString("]")
		case FieldStringList:
			sb.WriteString(`["string"]`)
		case FieldInteger, FieldNumber:
			sb.WriteString("number")
		default:
			sb.WriteString(`"string"`)
		}
		if i < len(fields)-1 {
			sb.WriteString(",")
		}
		var notes []string
		if f.Required {
			notes = append(notes, "required")
		}
		if f.Description != "" {
			notes = append(notes, f.Description)
		}
		if len(notes) > 0 {
			sb.WriteString(" // " + strings.Join(notes, "; "))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(indent + "}")
}

// --- Predefined Schemas ---

func brandFields(scoreHint string) []SchemaField {
	return []SchemaField{
		{Name: "name", Type: FieldString, Description: "Brand name", Required: true},
		{Name: "domain", Type: FieldString, Description: "Primary website domain, e.g. brand.com", Required: true},
		{Name: "industry", Type: FieldString, Description: "Industry or category"},
		{Name: "description", Type: FieldString, Description: "One sentence about the brand"},
		{Name: "funding", Type: FieldString, Description: "Latest known funding or revenue, or N/A"},
		{Name: "headcount", Type: FieldString, Description: "Approximate employee range, or N/A"},
		{Name: "recentNews", Type: FieldString, Description: "Recent activity relevant to creator partnerships, or N/A"},
		{Name: "fitScore", Type: FieldInteger, Description: scoreHint, Required: true},
		{Name: "fitReason", Type: FieldString, Description: "Why this brand fits the creator", Required: true},
	}
}

// DiscoverySchema is the output of LLM brand discovery for a handle.
func DiscoverySchema() ResponseSchema {
	return ResponseSchema{
		Name:        "BrandDiscovery",
		Description: "A creator profile guess and brands likely to sponsor them",
		Fields: []SchemaField{
			{
				Name:     "creator",
				Type:     FieldObject,
				Required: true,
				Fields: []SchemaField{
					{Name: "handle", Type: FieldString, Required: true},
					{Name: "followers", Type: FieldString, Description: "Compact count such as 127K, or N/A"},
					{Name: "niche", Type: FieldString, Description: "Content niche", Required: true},
					{Name: "avgViews", Type: FieldString, Description: "Compact count such as 45K, or N/A"},
					{Name: "topContentThemes", Type: FieldStringList, Description: "Three to five recurring themes"},
				},
			},
			{
				Name:        "brands",
				Type:        FieldObjectList,
				Description: "Five brands ordered by fit",
				Required:    true,
				Fields:      brandFields("0-100, higher is a better match"),
			},
		},
	}
}

// StrategySchema is the output of pitch strategy generation.
func StrategySchema() ResponseSchema {
	return ResponseSchema{
		Name:        "PitchStrategy",
		Description: "An overall outreach narrative plus one pitch plan per brand",
		Fields: []SchemaField{
			{Name: "overallStrategy", Type: FieldString, Description: "Two to four sentence narrative across all brands", Required: true},
			{
				Name:     "brandStrategies",
				Type:     FieldObjectList,
				Required: true,
				Fields: []SchemaField{
					{Name: "brandName", Type: FieldString, Required: true},
					{Name: "brandDomain", Type: FieldString},
					{Name: "pitchAngle", Type: FieldString, Description: "The single hook for this brand", Required: true},
					{Name: "contentFormats", Type: FieldStringList, Description: "Concrete deliverables, e.g. 60s TikTok tutorial"},
					{Name: "talkingPoints", Type: FieldStringList},
					{Name: "pitchScript", Type: FieldString, Description: "Ready-to-send outreach message", Required: true},
					{Name: "subjectLine", Type: FieldString},
					{Name: "estimatedValue", Type: FieldString, Description: "Deal range such as $1,000 – $2,500"},
				},
			},
		},
	}
}

// SummarySchema is the output of a creator summary.
func SummarySchema() ResponseSchema {
	return ResponseSchema{
		Name:        "CreatorSummary",
		Description: "A short positioning read of a creator for brand partnerships",
		Fields: []SchemaField{
			{Name: "summary", Type: FieldString, Required: true},
			{Name: "strengths", Type: FieldStringList, Required: true},
			{Name: "audienceInsight", Type: FieldString},
			{Name: "idealBrandCategories", Type: FieldStringList},
		},
	}
}
