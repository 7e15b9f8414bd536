package http

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/utils/errutil"
	"github.com/secmon-lab/cisboard/pkg/utils/safe"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

const layoutTemplate = "layout.html"

// pageData is passed to every page template
type pageData struct {
	Title  string
	User   *model.User
	Org    *model.Organization
	Notice string
	Error  string
	Locale cis18.Locale
	Data   any
}

type renderer struct {
	pages  map[string]*template.Template
	locale cis18.Locale
}

var templateFuncs = template.FuncMap{
	"score": func(v *int) string {
		if v == nil {
			return "-"
		}
		return strconv.Itoa(*v)
	},
	"scoreValue": func(v *int) int {
		if v == nil {
			return 0
		}
		return *v
	},
	"signed": func(v *int) string {
		switch {
		case v == nil:
			return "no data"
		case *v > 0:
			return "+" + strconv.Itoa(*v)
		default:
			return strconv.Itoa(*v)
		}
	},
	"date": func(a *model.Assessment) string {
		return a.DateString()
	},
	"columnLabel": func(col types.ColumnID, locale cis18.Locale) string {
		return cis18.ColumnLabel(col, locale)
	},
	"allColumns": types.AllColumns,
	"hasColumn": func(cols []types.ColumnID, c types.ColumnID) bool {
		for _, x := range cols {
			if x == c {
				return true
			}
		}
		return false
	},
	"orgPath": func(orgID types.OrganizationID, suffix string) string {
		return orgPath(orgID, suffix)
	},
}

func newRenderer(locale cis18.Locale) (*renderer, error) {
	layout, err := template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(templateFiles, "templates/"+layoutTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse layout template")
	}

	files, err := fs.Glob(templateFiles, "templates/*.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list templates")
	}

	r := &renderer{pages: make(map[string]*template.Template), locale: locale}
	for _, file := range files {
		name := path.Base(file)
		if name == layoutTemplate {
			continue
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to clone layout", goerr.V("template", name))
		}
		if _, err := t.ParseFS(templateFiles, file); err != nil {
			return nil, goerr.Wrap(err, "failed to parse template", goerr.V("template", name))
		}
		r.pages[name] = t
	}
	return r, nil
}

// page renders name inside the layout. Output is buffered so a template failure
// still produces a clean 500.
func (rd *renderer) page(w http.ResponseWriter, r *http.Request, status int, name string, data *pageData) {
	t, ok := rd.pages[name]
	if !ok {
		errutil.HandleHTTP(r.Context(), w, goerr.New("unknown template", goerr.V("template", name)), http.StatusInternalServerError)
		return
	}
	if data.User == nil {
		data.User = userFrom(r.Context())
	}
	if data.Locale == "" {
		data.Locale = rd.locale
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to render template", goerr.V("template", name)), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, buf.Bytes())
}

var notices = map[string]string{
	"saved":     "Saved.",
	"created":   "Created.",
	"deleted":   "Deleted.",
	"sent":      "Test email sent.",
	"generated": "Test assessment generated.",
}

// noticeOf returns the banner text for the notice query parameter
func noticeOf(r *http.Request) string {
	return notices[r.URL.Query().Get("notice")]
}
