package web

import (
	"net/http"
	"sort"
)

// AccountInfo represents basic information about a book account.
type AccountInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	ID       string `json:"id"`
	Currency string `json:"currency"`
}

// AccountsResponse is the JSON response structure for the accounts endpoint.
type AccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// handleGetAccounts handles GET requests to /api/accounts.
// Returns all accounts from the book, sorted alphabetically by path.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.book == nil {
		http.Error(w, "book not loaded", http.StatusServiceUnavailable)
		return
	}

	accounts := make([]AccountInfo, 0, len(s.book.Accounts()))

	for _, account := range s.book.Accounts() {
		accounts = append(accounts, AccountInfo{
			Name:     account.Name(),
			Path:     account.Path(),
			ID:       account.ID().String(),
			Currency: account.Currency().Code(),
		})
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Path < accounts[j].Path
	})

	writeJSONResponse(w, &AccountsResponse{Accounts: accounts})
}

// CategoryInfo represents basic information about a book category.
type CategoryInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	ID   string `json:"id"`
	Type string `json:"type"`
}

// CategoriesResponse is the JSON response structure for the categories
// endpoint.
type CategoriesResponse struct {
	Categories []CategoryInfo `json:"categories"`
}

// handleGetCategories handles GET requests to /api/categories.
// Returns all categories from the book, sorted alphabetically by path.
func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.book == nil {
		http.Error(w, "book not loaded", http.StatusServiceUnavailable)
		return
	}

	categories := make([]CategoryInfo, 0, len(s.book.Categories()))

	for _, category := range s.book.Categories() {
		categories = append(categories, CategoryInfo{
			Name: category.Name(),
			Path: category.Path(),
			ID:   category.ID().String(),
			Type: category.Type().String(),
		})
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Path < categories[j].Path
	})

	writeJSONResponse(w, &CategoriesResponse{Categories: categories})
}
