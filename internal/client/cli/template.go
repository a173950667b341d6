package cli

import (
	"fmt"
	"io"
	"sort"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	clientsync "github.com/iudanet/tradetrack/internal/client/sync"
	"github.com/iudanet/tradetrack/internal/models"
)

const recordTemplate = `
=== {{.Table}} {{.ID}} ===

{{range .Fields -}}
{{printf "%-18s" .Name}} {{.Value}}
{{end -}}
State:             {{if .IsSynced}}synced{{else}}waiting for sync{{end}}
`

const statusTemplate = `Connection: {{if .Online}}online{{else}}offline{{end}}
Syncing:    {{if .Syncing}}yes{{else}}no{{end}}
Last sync:  {{if .LastSyncTime}}{{.LastSyncTime.Format "2006-01-02 15:04:05 MST"}}{{else}}never{{end}}
Pending:    {{.Counts.Pending}}
Completed:  {{.Counts.Completed}}
Failed:     {{.Counts.Failed}}
`

var (
	recordTmpl = template.Must(template.New("record").Parse(recordTemplate))
	statusTmpl = template.Must(template.New("status").Parse(statusTemplate))
)

type fieldView struct {
	Value any
	Name  string
}

type recordView struct {
	Table    string
	ID       string
	Fields   []fieldView
	IsSynced bool
}

// renderRecord печатает запись с колонками в алфавитном порядке; пустые значения пропускаются
func renderRecord(w io.Writer, rec *models.LocalRecord) error {
	view := recordView{Table: rec.Table, ID: rec.ID, IsSynced: rec.IsSynced}

	names := make([]string, 0, len(rec.Fields))
	for name, v := range rec.Fields {
		if v == nil || name == models.ColumnID || name == models.ColumnTeamID {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		view.Fields = append(view.Fields, fieldView{Name: name + ":", Value: rec.Fields[name]})
	}
	return recordTmpl.Execute(w, view)
}

// renderStatus печатает статус синхронизации как текст или yaml
func renderStatus(w io.Writer, status clientsync.Status, format string, loc *time.Location) error {
	if status.LastSyncTime != nil && loc != nil {
		t := status.LastSyncTime.In(loc)
		status.LastSyncTime = &t
	}

	switch format {
	case "", "text":
		return statusTmpl.Execute(w, status)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(status); err != nil {
			return fmt.Errorf("failed to encode status: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q, expected text or yaml", format)
	}
}
