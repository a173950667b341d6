package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/iudanet/tradetrack/internal/models"
)

// DateLayout - формат колонок *_date
const DateLayout = "2006-01-02"

// resolveTable переводит существительное из командной строки в таблицу:
// product -> products, sale-item -> sale_items
func resolveTable(noun string) (models.TableSchema, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(noun)), "-", "_")
	if schema, err := models.LookupTable(name); err == nil {
		return schema, nil
	}

	parts := strings.Split(name, "_")
	parts[len(parts)-1] = inflection.Plural(parts[len(parts)-1])
	schema, err := models.LookupTable(strings.Join(parts, "_"))
	if err != nil {
		return models.TableSchema{}, fmt.Errorf("unknown record type %q, expected one of: %s",
			noun, strings.Join(models.Tables(), ", "))
	}
	return schema, nil
}

// dateParser понимает "today", "yesterday", "last friday" и т.п.
var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

func isDateColumn(column string) bool {
	return strings.HasSuffix(column, "_date")
}

// parseDate принимает YYYY-MM-DD или дату на естественном языке
func parseDate(value string, now time.Time) (string, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.Format(DateLayout), nil
	}
	r, err := dateParser.Parse(value, now)
	if err != nil {
		return "", fmt.Errorf("failed to parse date %q: %w", value, err)
	}
	if r == nil {
		return "", fmt.Errorf("%w: %q is not a date", models.ErrInvalidPayload, value)
	}
	return r.Time.Format(DateLayout), nil
}

// parseAssignments разбирает значения вида column=value по схеме таблицы
func parseAssignments(schema models.TableSchema, assignments []string, now time.Time) (models.Payload, error) {
	fields := make(models.Payload, len(assignments))
	for _, a := range assignments {
		column, value, ok := strings.Cut(a, "=")
		column = strings.TrimSpace(column)
		if !ok || column == "" {
			return nil, fmt.Errorf("invalid value %q, expected column=value", a)
		}
		if _, seen := fields[column]; seen {
			return nil, fmt.Errorf("column %q is set twice", column)
		}

		if isDateColumn(column) {
			date, err := parseDate(value, now)
			if err != nil {
				return nil, err
			}
			fields[column] = date
			continue
		}

		v, err := schema.ParseValue(column, value)
		if err != nil {
			return nil, err
		}
		fields[column] = v
	}
	return fields, nil
}

// parseItems разбирает позиции документа: каждая позиция - список column=value через запятую
func parseItems(schema models.TableSchema, items []string, now time.Time) ([]models.Payload, error) {
	result := make([]models.Payload, 0, len(items))
	for i, item := range items {
		p, err := parseAssignments(schema, strings.Split(item, ","), now)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		result = append(result, p)
	}
	return result, nil
}

// summary - короткое описание записи для списков
func summary(rec models.LocalRecord) string {
	for _, col := range []string{"name", "invoice_number", "product_id"} {
		if v, ok := rec.Fields[col].(string); ok && v != "" {
			return v
		}
	}
	for _, col := range []string{"sale_date", "purchase_date"} {
		if v, ok := rec.Fields[col].(string); ok {
			return fmt.Sprintf("%s total %v", v, rec.Fields["total_amount"])
		}
	}
	return ""
}

func syncedMark(synced bool) string {
	if synced {
		return "synced"
	}
	return "local"
}

// inflectSingular - имя записи для сообщений: sale_items -> sale item
func inflectSingular(table string) string {
	return strings.ReplaceAll(inflection.Singular(table), "_", " ")
}
