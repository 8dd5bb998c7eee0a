package director

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
)

var replySchema = generateSchema[wireReply]()

// OpenAIDirector drives one model through the Responses API with a strict
// JSON schema. Each call is bounded by its own timeout so a hung request
// falls through to the next director in the chain instead of holding the
// turn gate forever.
type OpenAIDirector struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

const defaultTimeout = 90 * time.Second

func NewOpenAIDirector(client *openai.Client, model string, timeout time.Duration) *OpenAIDirector {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenAIDirector{client: client, model: model, timeout: timeout}
}

func (d *OpenAIDirector) NextTurn(ctx context.Context, req Request) (engine.TurnReply, error) {
	if d.client == nil {
		return engine.TurnReply{}, errors.New("director: client is nil")
	}
	if d.model == "" {
		return engine.TurnReply{}, errors.New("director: model is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "StoryTurn",
			Schema:      replySchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Next story turn JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           d.model,
		MaxOutputTokens: openai.Int(2500),
		Instructions:    openai.String(systemInstruction),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(buildUserPrompt(req), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := d.client.Responses.New(ctx, params)
	if err != nil {
		return engine.TurnReply{}, err
	}
	return decodeReply(resp.OutputText())
}

// ---- structured output schema helper ----

func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureOpenAICompliance(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

func ensureOpenAICompliance(schema map[string]interface{}) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
			var requiredFields []string
			for propName := range properties {
				requiredFields = append(requiredFields, propName)
			}
			if len(requiredFields) > 0 {
				schema[requiredKey] = requiredFields
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				ensureOpenAICompliance(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		ensureOpenAICompliance(items)
	}

	if additionalProps, ok := schema[additionalPropertiesKey].(map[string]interface{}); ok {
		ensureOpenAICompliance(additionalProps)
	}
}
