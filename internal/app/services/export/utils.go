package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/terratensor/geopicker/internal/core/domain"
)

// Columns for hierarchy item export
var ItemColumns = []string{
	"id",
	"name",
	"level",
	"relatives",
}

// ItemRecord превращает элемент иерархии в запись для writer'а
func ItemRecord(item domain.HierarchyItem) map[string]interface{} {
	relatives := make([]int64, len(item.Relatives))
	copy(relatives, item.Relatives)

	return map[string]interface{}{
		"id":        item.ID,
		"name":      item.Name,
		"level":     item.Level,
		"relatives": relatives,
	}
}

// ToInt64 преобразует числовое значение записи в int64
func ToInt64(val interface{}) (int64, error) {
	if val == nil {
		return 0, nil
	}

	switch v := val.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported type for int64 conversion: %T", val)
	}
}

// JoinIDs склеивает id через запятую, как в multi64 колонке
func JoinIDs(ids []int64) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(strs, ",")
}
