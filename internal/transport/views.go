package transport

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/frahmantamala/hr-records/internal/core/common/datetime"
)

//go:embed views/*.html
var viewFiles embed.FS

var pageNames = []string{
	"employees",
	"employee",
	"employee_new",
	"timesheets",
	"timesheet",
	"timesheet_new",
	"error",
}

// Views holds one parsed template set per page, each sharing the layout.
type Views struct {
	pages map[string]*template.Template
}

func LoadViews() (*Views, error) {
	views := &Views{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(viewFuncs).
			ParseFS(viewFiles, "views/layout.html", "views/partials.html", "views/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		views.pages[name] = tmpl
	}
	return views, nil
}

func MustLoadViews() *Views {
	views, err := LoadViews()
	if err != nil {
		panic(err)
	}
	return views
}

func (v *Views) Execute(name string, page Page) ([]byte, error) {
	tmpl, ok := v.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown view %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var viewFuncs = template.FuncMap{
	"date": func(t *time.Time) string {
		return datetime.FormatDate(t)
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"inputDateTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return datetime.ToInputValue(datetime.FormatStore(t))
	},
	"money": func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%.2f", *v)
	},
	"fieldError": func(fields map[string]string, name string) string {
		return fields[name]
	},
}
