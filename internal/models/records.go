package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ColumnType - тип значения колонки доменной таблицы
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnReal
	ColumnBool
)

func (t ColumnType) String() string {
	switch t {
	case ColumnReal:
		return "number"
	case ColumnBool:
		return "bool"
	default:
		return "text"
	}
}

// Системные колонки, которые есть во всех доменных таблицах
const (
	ColumnID        = "id"
	ColumnTeamID    = "team_id"
	ColumnCreatedBy = "created_by"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
	ColumnIsSynced  = "is_synced"
)

// ErrInvalidPayload возвращается, если payload не соответствует схеме таблицы
var ErrInvalidPayload = errors.New("invalid payload")

// ErrUnknownTable возвращается для таблиц, которых нет в схеме
var ErrUnknownTable = errors.New("unknown table")

// TableSchema описывает доменную таблицу: колонки, их типы и обязательные поля для create.
type TableSchema struct {
	Columns map[string]ColumnType
	Name    string
	// Parent - таблица-владелец для строк-позиций (sale_items -> sales),
	// ParentKey - колонка позиции, ссылающаяся на владельца
	Parent    string
	ParentKey string
	Required  []string
	// HasUpdatedAt - у позиций (items) нет updated_at и created_by
	HasUpdatedAt bool
}

// Payload - декодированные и проверенные поля одной записи
type Payload map[string]any

var schemas = map[string]TableSchema{
	"products": {
		Name: "products",
		Columns: withSystem(true, map[string]ColumnType{
			"category_id":     ColumnText,
			"name":            ColumnText,
			"description":     ColumnText,
			"sku":             ColumnText,
			"barcode":         ColumnText,
			"unit":            ColumnText,
			"cost_price":      ColumnReal,
			"selling_price":   ColumnReal,
			"min_stock_level": ColumnReal,
			"current_stock":   ColumnReal,
			"image_url":       ColumnText,
			"is_active":       ColumnBool,
		}),
		Required:     []string{"name"},
		HasUpdatedAt: true,
	},
	"customers": {
		Name: "customers",
		Columns: withSystem(true, map[string]ColumnType{
			"name":           ColumnText,
			"contact_person": ColumnText,
			"phone":          ColumnText,
			"email":          ColumnText,
			"address":        ColumnText,
			"tax_number":     ColumnText,
			"credit_limit":   ColumnReal,
			"notes":          ColumnText,
		}),
		Required:     []string{"name"},
		HasUpdatedAt: true,
	},
	"suppliers": {
		Name: "suppliers",
		Columns: withSystem(true, map[string]ColumnType{
			"name":           ColumnText,
			"contact_person": ColumnText,
			"phone":          ColumnText,
			"email":          ColumnText,
			"address":        ColumnText,
			"tax_number":     ColumnText,
			"notes":          ColumnText,
		}),
		Required:     []string{"name"},
		HasUpdatedAt: true,
	},
	"sales": {
		Name: "sales",
		Columns: withSystem(true, map[string]ColumnType{
			"customer_id":       ColumnText,
			"sale_date":         ColumnText,
			"invoice_number":    ColumnText,
			"total_amount":      ColumnReal,
			"tax_amount":        ColumnReal,
			"discount_amount":   ColumnReal,
			"payment_method":    ColumnText,
			"payment_reference": ColumnText,
			"payment_status":    ColumnText,
			"delivery_status":   ColumnText,
			"notes":             ColumnText,
		}),
		Required:     []string{"customer_id", "sale_date", "total_amount", "payment_method"},
		HasUpdatedAt: true,
	},
	"sale_items": {
		Name:      "sale_items",
		Parent:    "sales",
		ParentKey: "sale_id",
		Columns: withSystem(false, map[string]ColumnType{
			"sale_id":     ColumnText,
			"product_id":  ColumnText,
			"quantity":    ColumnReal,
			"unit_price":  ColumnReal,
			"total_price": ColumnReal,
			"notes":       ColumnText,
		}),
		Required: []string{"sale_id", "product_id", "quantity", "unit_price", "total_price"},
	},
	"purchases": {
		Name: "purchases",
		Columns: withSystem(true, map[string]ColumnType{
			"supplier_id":       ColumnText,
			"purchase_date":     ColumnText,
			"invoice_number":    ColumnText,
			"total_amount":      ColumnReal,
			"tax_amount":        ColumnReal,
			"payment_method":    ColumnText,
			"payment_reference": ColumnText,
			"payment_status":    ColumnText,
			"notes":             ColumnText,
		}),
		Required:     []string{"supplier_id", "purchase_date", "total_amount", "payment_method"},
		HasUpdatedAt: true,
	},
	"purchase_items": {
		Name:      "purchase_items",
		Parent:    "purchases",
		ParentKey: "purchase_id",
		Columns: withSystem(false, map[string]ColumnType{
			"purchase_id": ColumnText,
			"product_id":  ColumnText,
			"quantity":    ColumnReal,
			"unit_cost":   ColumnReal,
			"total_cost":  ColumnReal,
			"notes":       ColumnText,
		}),
		Required: []string{"purchase_id", "product_id", "quantity", "unit_cost", "total_cost"},
	},
}

func withSystem(full bool, cols map[string]ColumnType) map[string]ColumnType {
	cols[ColumnID] = ColumnText
	cols[ColumnTeamID] = ColumnText
	cols[ColumnCreatedAt] = ColumnText
	if full {
		cols[ColumnCreatedBy] = ColumnText
		cols[ColumnUpdatedAt] = ColumnText
	}
	return cols
}

// LookupTable возвращает схему таблицы по имени
func LookupTable(name string) (TableSchema, error) {
	s, ok := schemas[name]
	if !ok {
		return TableSchema{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return s, nil
}

// Tables возвращает отсортированный список доменных таблиц
func Tables() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ItemsTable возвращает таблицу позиций для таблицы-владельца (sales -> sale_items)
func ItemsTable(parent string) (TableSchema, bool) {
	for _, s := range schemas {
		if s.Parent == parent {
			return s, true
		}
	}
	return TableSchema{}, false
}

// SortedColumns возвращает колонки таблицы в алфавитном порядке
func (s TableSchema) SortedColumns() []string {
	cols := make([]string, 0, len(s.Columns))
	for c := range s.Columns {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// DecodePayload декодирует сериализованный payload для таблицы и проверяет его по схеме:
// объект JSON, только известные колонки, значения нужного типа (или null).
func DecodePayload(table string, data []byte) (Payload, error) {
	schema, err := LookupTable(table)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, table, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s: payload must be an object", ErrInvalidPayload, table)
	}

	p := make(Payload, len(raw))
	for key, value := range raw {
		// is_synced - локальный флаг, на сервер не уходит
		if key == ColumnIsSynced {
			continue
		}
		colType, ok := schema.Columns[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown column %q", ErrInvalidPayload, table, key)
		}
		v, err := coerceJSON(colType, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidPayload, table, key, err)
		}
		p[key] = v
	}
	return p, nil
}

// ValidateCreate проверяет наличие обязательных полей для новой записи
func (s TableSchema) ValidateCreate(p Payload) error {
	var missing []string
	for _, col := range s.Required {
		if v, ok := p[col]; !ok || v == nil || v == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s: missing required fields: %s", ErrInvalidPayload, s.Name, strings.Join(missing, ", "))
	}
	return nil
}

// ParseValue приводит строковое значение (например, из командной строки) к типу колонки
func (s TableSchema) ParseValue(column, value string) (any, error) {
	colType, ok := s.Columns[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown column %q", ErrInvalidPayload, s.Name, column)
	}
	switch colType {
	case ColumnReal:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: expected number, got %q", ErrInvalidPayload, s.Name, column, value)
		}
		return f, nil
	case ColumnBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: expected bool, got %q", ErrInvalidPayload, s.Name, column, value)
		}
		return b, nil
	default:
		return value, nil
	}
}

func coerceJSON(colType ColumnType, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch colType {
	case ColumnReal:
		n, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", value)
		}
		f, err := n.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case ColumnBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case json.Number:
			// SQLite хранит bool как 0/1
			if v.String() == "0" || v.String() == "1" {
				return v.String() == "1", nil
			}
		}
		return nil, fmt.Errorf("expected bool, got %v", value)
	default:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return s, nil
	}
}

// LocalRecord - строка доменной таблицы в локальной базе клиента
type LocalRecord struct {
	Fields   Payload `json:"fields" yaml:"fields"`
	ID       string  `json:"id" yaml:"id"`
	Table    string  `json:"table" yaml:"table"`
	IsSynced bool    `json:"is_synced" yaml:"is_synced"`
}
