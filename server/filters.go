package server

import (
	"strconv"

	"github.com/teranos/qntx-eurostat/errors"
	"github.com/teranos/qntx-eurostat/eurostat"
	"github.com/teranos/qntx-eurostat/eurostat/jsonstat"
)

// parseFilters converts the "filters" tool argument into dimension filters.
// Each value may be a string, a number, or an array of those. Null values are skipped.
func parseFilters(raw interface{}) (eurostat.Filters, error) {
	if raw == nil {
		return eurostat.Filters{}, nil
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.NewInvalidRequestError("filters must be an object mapping dimension codes to values, got %T", raw)
	}

	filters := make(eurostat.Filters, len(obj))
	for key, value := range obj {
		switch v := value.(type) {
		case nil:
			continue
		case []interface{}:
			values := make([]string, 0, len(v))
			for _, item := range v {
				s, err := filterScalar(key, item)
				if err != nil {
					return nil, err
				}
				values = append(values, s)
			}
			filters[key] = values
		default:
			s, err := filterScalar(key, v)
			if err != nil {
				return nil, err
			}
			filters[key] = []string{s}
		}
	}
	return filters, nil
}

func filterScalar(key string, v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return jsonstat.FormatValue(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	default:
		return "", errors.NewInvalidRequestError("filter %q: values must be strings or numbers, got %T", key, v)
	}
}
