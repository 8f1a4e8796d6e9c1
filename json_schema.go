package tabkit

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/autom8ter/tabkit/errors"
	"github.com/autom8ter/tabkit/util"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed query.schema.json
var querySchemaContent string

// QuerySchema returns the json schema that query documents are validated against
func QuerySchema() string {
	return querySchemaContent
}

var querySchema = gojsonschema.NewStringLoader(querySchemaContent)

// ParseQuery decodes a json or yaml query document after validating it against the query json schema
func ParseQuery(content []byte) (Query, error) {
	jsonContent, err := util.YAMLToJSON(content)
	if err != nil {
		return Query{}, invalidQuery("query", string(content), "failed to decode query document")
	}
	result, err := gojsonschema.Validate(querySchema, gojsonschema.NewBytesLoader(jsonContent))
	if err != nil {
		return Query{}, invalidQuery("query", string(jsonContent), err.Error())
	}
	if !result.Valid() {
		var errs []string
		for _, err := range result.Errors() {
			errs = append(errs, err.String())
		}
		return Query{}, invalidQuery("query", string(jsonContent), strings.Join(errs, ","))
	}
	var q Query
	if err := json.Unmarshal(jsonContent, &q); err != nil {
		return Query{}, invalidQuery("query", string(jsonContent), err.Error())
	}
	return q, nil
}

// UnmarshalJSON decodes a criterion from its full form ({"value": ...} or {"range": {"min": 1, "max": 2}}),
// a [min, max] pair or a bare scalar value
func (c *Criterion) UnmarshalJSON(bits []byte) error {
	parsed := gjson.ParseBytes(bits)
	switch {
	case parsed.IsArray():
		bounds := parsed.Array()
		if len(bounds) != 2 || bounds[0].Type != gjson.Number || bounds[1].Type != gjson.Number {
			return errors.New(errors.Validation, "range criterion must be a [min, max] pair of numbers")
		}
		*c = Between(bounds[0].Float(), bounds[1].Float())
	case parsed.IsObject() && (parsed.Get("value").Exists() || parsed.Get("range").Exists()):
		type plain Criterion
		var p plain
		if err := json.Unmarshal(bits, &p); err != nil {
			return err
		}
		*c = Criterion(p)
	default:
		*c = Eq(parsed.Value())
	}
	return nil
}
