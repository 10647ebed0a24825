package manticore

import "fmt"

const TableItems = "hierarchy_items"

// ItemsTableSQL возвращает DDL таблицы элементов иерархии.
// relatives хранится как multi64, чтобы фильтровать по ANY(relatives)
func ItemsTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
        name text,
        level int,
        relatives multi64
    )
    min_infix_len='2'
    index_exact_words='1'
    html_strip='1'`, table)
}
