package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iudanet/tradetrack/pkg/api"
)

func tablePath(table string) string {
	return "/api/v1/tables/" + url.PathEscape(table)
}

func recordPath(table, id string) string {
	return tablePath(table) + "/" + url.PathEscape(id)
}

// Insert создает запись в таблице. Поле id в теле обязательно.
func (c *Client) Insert(ctx context.Context, accessToken, workspaceID, table string, record json.RawMessage) error {
	err := c.doRequest(ctx, http.MethodPost, tablePath(table), authHeaders(accessToken, workspaceID), record, nil)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Update обновляет поля записи с указанным id
func (c *Client) Update(ctx context.Context, accessToken, workspaceID, table, id string, fields json.RawMessage) error {
	err := c.doRequest(ctx, http.MethodPatch, recordPath(table, id), authHeaders(accessToken, workspaceID), fields, nil)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", table, id, err)
	}
	return nil
}

// Delete удаляет запись с указанным id
func (c *Client) Delete(ctx context.Context, accessToken, workspaceID, table, id string) error {
	err := c.doRequest(ctx, http.MethodDelete, recordPath(table, id), authHeaders(accessToken, workspaceID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	return nil
}

// ListRecords возвращает записи таблицы рабочего пространства на сервере
func (c *Client) ListRecords(ctx context.Context, accessToken, workspaceID, table string) ([]api.Record, error) {
	var resp api.ListRecordsResponse
	err := c.doRequest(ctx, http.MethodGet, tablePath(table), authHeaders(accessToken, workspaceID), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return resp.Records, nil
}
