package tabkit

import (
	"strings"

	"github.com/autom8ter/tabkit/util"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
)

// searchStage matches records whose fields contain the search term
type searchStage struct {
	term   string
	fields []string
	// folder is stateful and must stay within a single call
	folder cases.Caser
}

func newSearchStage(term string, fields []string) searchStage {
	folder := cases.Fold()
	return searchStage{
		term:   folder.String(term),
		fields: fields,
		folder: folder,
	}
}

func (s searchStage) match(r *Record) bool {
	if s.term == "" {
		return true
	}
	if len(s.fields) == 0 {
		for _, value := range r.Flatten() {
			if str, ok := value.(string); ok && s.contains(str) {
				return true
			}
		}
		return false
	}
	for _, field := range s.fields {
		if !r.Exists(field) {
			continue
		}
		if s.contains(displayString(r.Get(field))) {
			return true
		}
	}
	return false
}

func (s searchStage) contains(value string) bool {
	return strings.Contains(s.folder.String(value), s.term)
}

// displayString renders a record value the way it is shown in a table cell
func displayString(value any) string {
	switch value := value.(type) {
	case nil:
		return ""
	case string:
		return value
	case map[string]any, []any:
		return util.JSONString(value)
	default:
		return cast.ToString(value)
	}
}
