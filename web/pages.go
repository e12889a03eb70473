package web

import (
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/robinvdvleuten/moneytree/ledger"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>moneytree &middot; {{.Filename}}</title>
<style>
body { font-family: ui-monospace, monospace; margin: 2rem auto; max-width: 60rem; color: #222; }
h1 { font-size: 1.2rem; }
h2 { font-size: 1rem; margin-top: 2rem; border-bottom: 1px solid #ddd; }
ul { list-style: none; padding-left: 1.25rem; }
ul.roots { padding-left: 0; }
.amount { float: right; }
.negative { color: #c0392b; }
.error { color: #c0392b; white-space: pre-wrap; background: #fdf0ef; padding: 1rem; }
footer { margin-top: 3rem; font-size: 0.75rem; color: #999; }
</style>
</head>
<body>
<h1>{{.Filename}}</h1>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
<h2>Accounts</h2>
<ul class="roots">{{range .Groups}}{{template "node" .}}{{end}}</ul>
<h2>Categories</h2>
<ul class="roots">{{range .Categories}}{{template "node" .}}{{end}}</ul>
<footer>moneytree {{.Version}} ({{.CommitSHA}})</footer>
<script>
new EventSource("/api/events").onmessage = function (e) {
  if (e.data === "reload") location.reload();
};
</script>
</body>
</html>

{{define "node"}}
<li>{{.Name}}
<span class="amount{{if .Negative}} negative{{end}}">{{.Balance}}</span>
{{if .Children}}<ul>{{range .Children}}{{template "node" .}}{{end}}</ul>{{end}}
</li>
{{end}}`))

type indexData struct {
	Filename   string
	Error      string
	Groups     []*pageNode
	Categories []*pageNode
	Version    string
	CommitSHA  string
}

type pageNode struct {
	Name     string
	Balance  string
	Negative bool
	Children []*pageNode
}

// handleIndex renders both hierarchies with their balances as HTML.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := &indexData{
		Filename:  filepath.Base(s.bookFile),
		Version:   s.Version,
		CommitSHA: s.CommitSHA,
	}
	if s.loadErr != nil {
		data.Error = s.loadErr.Error()
	}
	if s.book != nil {
		for _, group := range s.book.RootGroups() {
			data.Groups = append(data.Groups, pageGroupChild(group))
		}
		for _, typ := range []ledger.CategoryType{
			ledger.CategoryTypeIncome,
			ledger.CategoryTypeExpense,
			ledger.CategoryTypeDualPurpose,
		} {
			for _, category := range s.book.RootCategories(typ) {
				data.Categories = append(data.Categories, pageCategory(category))
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func pageGroupChild(node ledger.GroupChild) *pageNode {
	p := &pageNode{
		Name:     node.Name(),
		Balance:  node.Balance().String(),
		Negative: hasNegativeEntry(node.Balance()),
	}
	if group, ok := node.(*ledger.AccountGroup); ok {
		for _, child := range group.Children() {
			p.Children = append(p.Children, pageGroupChild(child))
		}
	}
	return p
}

func pageCategory(category *ledger.Category) *pageNode {
	p := &pageNode{
		Name:     category.Name(),
		Balance:  category.Balance().String(),
		Negative: hasNegativeEntry(category.Balance()),
	}
	for _, child := range category.Children() {
		p.Children = append(p.Children, pageCategory(child))
	}
	return p
}

func hasNegativeEntry(balance *ledger.Balance) bool {
	for _, e := range balance.Entries() {
		if e.IsNegative() {
			return true
		}
	}
	return false
}
