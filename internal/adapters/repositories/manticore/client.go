package manticore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	manticoresearch "github.com/manticoresoftware/manticoresearch-go"

	"github.com/terratensor/geopicker/internal/core/domain"
)

type ManticoreClient struct {
	client     *manticoresearch.APIClient
	baseURL    string
	table      string
	httpClient *http.Client
}

func NewClient(host string, port int, table string, timeout time.Duration) (*ManticoreClient, error) {
	if table == "" {
		table = TableItems
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	baseURL := fmt.Sprintf("http://%s:%d", host, port)

	configuration := manticoresearch.NewConfiguration()
	configuration.Servers = manticoresearch.ServerConfigurations{
		{
			URL: baseURL,
		},
	}

	// Увеличиваем таймауты для больших bulk операций
	configuration.HTTPClient = &http.Client{
		Timeout: 5 * time.Minute,
	}

	return &ManticoreClient{
		client:     manticoresearch.NewAPIClient(configuration),
		baseURL:    baseURL,
		table:      table,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Table возвращает имя таблицы элементов
func (c *ManticoreClient) Table() string {
	return c.table
}

// EnsureItemsTable создает таблицу элементов если она не существует
func (c *ManticoreClient) EnsureItemsTable(ctx context.Context) error {
	if err := c.execSQL(ctx, ItemsTableSQL(c.table)); err != nil {
		return fmt.Errorf("failed to create %s table: %w", c.table, err)
	}
	return nil
}

func (c *ManticoreClient) execSQL(ctx context.Context, sql string) error {
	req := c.client.UtilsAPI.Sql(ctx).Body(sql).RawResponse(true)

	resp, httpResp, err := c.client.UtilsAPI.SqlExecute(req)
	if err != nil {
		// Проверим детали ошибки
		if httpResp != nil {
			body, _ := io.ReadAll(httpResp.Body)
			return fmt.Errorf("failed to execute SQL: %w, response: %s", err, string(body))
		}
		return fmt.Errorf("failed to execute SQL: %w", err)
	}

	if httpResp != nil && httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("SQL returned HTTP %d", httpResp.StatusCode)
	}

	// Проверяем наличие ошибок в ответе
	if resp != nil && resp.SqlObjResponse != nil {
		hits := resp.SqlObjResponse.GetHits()
		if sqlErr, ok := hits["error"]; ok && sqlErr != nil {
			return fmt.Errorf("SQL error: %v", sqlErr)
		}
	}
	return nil
}

// TableExists проверяет существование таблицы через SHOW CREATE TABLE
func (c *ManticoreClient) TableExists(ctx context.Context, tableName string) (bool, error) {
	req := c.client.UtilsAPI.Sql(ctx).Body(fmt.Sprintf("SHOW CREATE TABLE %s", tableName)).RawResponse(true)

	_, _, err := c.client.UtilsAPI.SqlExecute(req)
	if err == nil {
		return true, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	// Если ошибка - таблицы нет
	return false, nil
}

// DropTable удаляет таблицу
func (c *ManticoreClient) DropTable(ctx context.Context, tableName string) error {
	req := c.client.UtilsAPI.Sql(ctx).Body(fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName))
	_, _, err := c.client.UtilsAPI.SqlExecute(req)
	if err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	return nil
}

// TruncateTable очищает таблицу
func (c *ManticoreClient) TruncateTable(ctx context.Context, tableName string) error {
	req := c.client.UtilsAPI.Sql(ctx).Body(fmt.Sprintf("TRUNCATE TABLE %s", tableName))
	_, _, err := c.client.UtilsAPI.SqlExecute(req)
	if err != nil {
		return fmt.Errorf("failed to truncate table: %w", err)
	}
	return nil
}

// GetTableCount возвращает количество документов в таблице
func (c *ManticoreClient) GetTableCount(ctx context.Context, tableName string) (int64, error) {
	req := c.client.UtilsAPI.Sql(ctx).Body(fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName))
	// Устанавливаем rawResponse=true для получения структурированного ответа
	req = req.RawResponse(true)

	resp, httpResp, err := c.client.UtilsAPI.SqlExecute(req)
	if err != nil {
		return 0, fmt.Errorf("failed to get table count: %w", err)
	}

	if httpResp != nil && httpResp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("get table count returned HTTP %d", httpResp.StatusCode)
	}
	if resp == nil || resp.SqlObjResponse == nil {
		return 0, nil
	}

	return countFromHits(resp.SqlObjResponse.GetHits()), nil
}

func countFromHits(hits map[string]interface{}) int64 {
	rows, ok := hits["data"].([]interface{})
	if !ok || len(rows) == 0 {
		return 0
	}
	row, ok := rows[0].(map[string]interface{})
	if !ok {
		return 0
	}

	// count может быть float64 или int64
	switch v := row["count(*)"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// itemToDoc конвертирует элемент иерархии в документ Manticore
func itemToDoc(item domain.HierarchyItem) map[string]interface{} {
	relatives := item.Relatives
	if relatives == nil {
		relatives = []int64{}
	}
	return map[string]interface{}{
		"name":      item.Name,
		"level":     item.Level,
		"relatives": relatives,
	}
}

// BulkInsertItems вставляет элементы пачкой. Элементы без положительного id
// (заглушки) пропускаются: Manticore не принимает такие id
func (c *ManticoreClient) BulkInsertItems(ctx context.Context, items []domain.HierarchyItem) error {
	if len(items) == 0 {
		return nil
	}

	// Создаем NDJSON буфер
	var buf bytes.Buffer
	skipped := 0

	for _, item := range items {
		if item.ID <= 0 {
			skipped++
			continue
		}

		insertCmd := map[string]interface{}{
			"insert": map[string]interface{}{
				"table": c.table,
				"id":    item.ID,
				"doc":   itemToDoc(item),
			},
		}

		cmdBytes, err := json.Marshal(insertCmd)
		if err != nil {
			return fmt.Errorf("failed to marshal insert command: %w", err)
		}

		buf.Write(cmdBytes)
		buf.WriteByte('\n')
	}

	if skipped > 0 {
		log.Printf("Skipped %d items without a valid id", skipped)
	}
	if buf.Len() == 0 {
		return nil
	}

	return c.bulkRequest(ctx, buf.Bytes())
}

// bulkRequest отправляет NDJSON в /bulk одним запросом
func (c *ManticoreClient) bulkRequest(ctx context.Context, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bulk", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bulk insert returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	// Парсим ответ
	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	// Проверяем на ошибки
	if errs, ok := response["errors"]; ok && errs == true {
		if bulkErr, ok := response["error"]; ok && bulkErr != nil {
			return fmt.Errorf("bulk insert error: %v", bulkErr)
		}
		return fmt.Errorf("bulk insert completed with errors: %s", string(body))
	}

	return nil
}
