package transactions

import (
	"fmt"
	"net/url"
	"strings"
)

// Filters contains optional criteria for transaction listings. Nil fields
// are ignored; all matching is exact.
type Filters struct {
	Format        *string `json:"format,omitempty"`
	Intent        *string `json:"intent,omitempty"`
	ChainedAction *string `json:"chained_action,omitempty"`
	FinalStatus   *string `json:"final_status,omitempty"`
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("format"); v != "" {
		f.Format = &v
	}
	if v := values.Get("intent"); v != "" {
		f.Intent = &v
	}
	if v := values.Get("chained_action"); v != "" {
		f.ChainedAction = &v
	}
	if v := values.Get("final_status"); v != "" {
		f.FinalStatus = &v
	}

	return f
}

// clause renders the WHERE fragment and its arguments, numbering
// placeholders from one.
func (f Filters) clause() (string, []any) {
	var (
		conditions []string
		args       []any
	)

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("format", f.Format)
	add("intent", f.Intent)
	add("chained_action", f.ChainedAction)
	add("final_status", f.FinalStatus)

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
