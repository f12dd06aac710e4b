package datatable

import (
	"net/url"
	"strings"

	"github.com/JaimeStill/lingua-web/pkg/pagination"
	"github.com/JaimeStill/lingua-web/pkg/query"
)

const pageWindow = 5

// Header is a rendered column header. SortURL is empty for unsortable columns.
type Header struct {
	Key        string
	Label      string
	SortURL    string
	Active     bool
	Descending bool
}

type Row struct {
	Key   string
	Cells []string
}

type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// View is the template-ready form of one page.
type View struct {
	Headers []Header
	Rows    []Row
	Pages   []PageLink
	PrevURL string
	NextURL string
	Search  string
	Total   int
	From    int
	To      int
}

// View renders result for templates. Links point at path and carry req's
// search and sort; a query string on path is kept on every link.
func (t *Table[T]) View(result pagination.PageResult[T], req pagination.PageRequest, path string) View {
	v := View{
		Search: req.Search,
		Total:  result.Total,
	}

	if len(result.Data) > 0 {
		v.From = (result.Page-1)*result.PageSize + 1
		v.To = v.From + len(result.Data) - 1
	}

	for _, c := range t.Columns {
		h := Header{Key: c.Key, Label: c.Header}
		if c.Sortable {
			next := req
			next.Page = 1
			next.Sort = query.Toggle(req.Sort, c.Key)
			h.SortURL = link(path, next)
			if len(req.Sort) > 0 && req.Sort[0].Field == c.Key {
				h.Active = true
				h.Descending = req.Sort[0].Descending
			}
		}
		v.Headers = append(v.Headers, h)
	}

	v.Rows = make([]Row, 0, len(result.Data))
	for _, item := range result.Data {
		row := Row{Cells: make([]string, len(t.Columns))}
		if t.RowKey != nil {
			row.Key = t.RowKey(item)
		}
		for i, c := range t.Columns {
			if c.Value != nil {
				row.Cells[i] = c.Value(item)
			}
		}
		v.Rows = append(v.Rows, row)
	}

	for _, n := range result.Window(pageWindow) {
		v.Pages = append(v.Pages, PageLink{
			Number:  n,
			URL:     link(path, req.WithPage(n)),
			Current: n == result.Page,
		})
	}
	if result.HasPrev() {
		v.PrevURL = link(path, req.WithPage(result.Page-1))
	}
	if result.HasNext() {
		v.NextURL = link(path, req.WithPage(result.Page+1))
	}
	return v
}

// link keeps any query already on path, such as list filters, and lets the
// page request's parameters win.
func link(path string, req pagination.PageRequest) string {
	base, raw, _ := strings.Cut(path, "?")
	params, _ := url.ParseQuery(raw)
	for k, v := range req.Values() {
		params[k] = v
	}
	u := url.URL{Path: base, RawQuery: params.Encode()}
	return u.String()
}
