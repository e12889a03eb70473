package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/moneytree/ledger"
)

// BalancesResponse is the JSON response structure for the balances endpoint.
type BalancesResponse struct {
	Groups     []*BalanceNodeResponse `json:"groups"`
	Categories []*BalanceNodeResponse `json:"categories"`
	Currencies []string               `json:"currencies"`
	Converted  string                 `json:"converted,omitempty"`
}

// BalanceNodeResponse represents a hierarchy node for JSON serialization.
type BalanceNodeResponse struct {
	Name     string                     `json:"name"`
	Path     string                     `json:"path"`
	ID       string                     `json:"id"`
	Type     string                     `json:"type,omitempty"`
	Balance  map[string]decimal.Decimal `json:"balance"`
	Total    *decimal.Decimal           `json:"total,omitempty"`
	Children []*BalanceNodeResponse     `json:"children,omitempty"`
}

// handleGetBalances handles GET requests to /api/balances.
//
// Query parameters:
//   - convert: Currency code. Each node additionally reports its balance
//     converted into this currency through the rate graph, using the latest
//     rates.
//
// Examples:
//   - GET /api/balances - Per-currency balances of both hierarchies
//   - GET /api/balances?convert=USD - Same, plus a USD total per node
func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.book == nil {
		http.Error(w, "book not loaded", http.StatusServiceUnavailable)
		return
	}

	var target *ledger.Currency
	if code := r.URL.Query().Get("convert"); code != "" {
		c, ok := s.book.Currency(code)
		if !ok {
			http.Error(w, "unknown currency: "+code, http.StatusBadRequest)
			return
		}
		target = c
	}

	response := &BalancesResponse{
		Groups:     make([]*BalanceNodeResponse, 0, len(s.book.RootGroups())),
		Categories: make([]*BalanceNodeResponse, 0),
	}
	for _, group := range s.book.RootGroups() {
		response.Groups = append(response.Groups, convertGroupChild(group, target))
	}
	for _, typ := range []ledger.CategoryType{
		ledger.CategoryTypeIncome,
		ledger.CategoryTypeExpense,
		ledger.CategoryTypeDualPurpose,
	} {
		for _, category := range s.book.RootCategories(typ) {
			response.Categories = append(response.Categories, convertCategory(category, target))
		}
	}
	for _, c := range s.book.Currencies() {
		response.Currencies = append(response.Currencies, c.Code())
	}
	if target != nil {
		response.Converted = target.Code()
	}

	writeJSONResponse(w, response)
}

// convertGroupChild recursively converts an account-hierarchy node to a
// BalanceNodeResponse.
func convertGroupChild(node ledger.GroupChild, target *ledger.Currency) *BalanceNodeResponse {
	response := &BalanceNodeResponse{
		Name:    node.Name(),
		Path:    node.Path(),
		ID:      node.ID().String(),
		Balance: balanceMap(node.Balance()),
		Total:   convertedTotal(node.Balance(), target),
	}

	if group, ok := node.(*ledger.AccountGroup); ok {
		for _, child := range group.Children() {
			response.Children = append(response.Children, convertGroupChild(child, target))
		}
	}
	return response
}

// convertCategory recursively converts a category node to a
// BalanceNodeResponse.
func convertCategory(category *ledger.Category, target *ledger.Currency) *BalanceNodeResponse {
	response := &BalanceNodeResponse{
		Name:    category.Name(),
		Path:    category.Path(),
		ID:      category.ID().String(),
		Type:    category.Type().String(),
		Balance: balanceMap(category.Balance()),
		Total:   convertedTotal(category.Balance(), target),
	}

	for _, child := range category.Children() {
		response.Children = append(response.Children, convertCategory(child, target))
	}
	return response
}

// balanceMap flattens a balance to a currency-code keyed map of raw
// magnitudes.
func balanceMap(balance *ledger.Balance) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(balance.Entries()))
	for _, e := range balance.Entries() {
		m[e.Currency().Code()] = e.Amount()
	}
	return m
}

// convertedTotal sums a balance into the target currency, or nil when no
// target is requested or no conversion path exists.
func convertedTotal(balance *ledger.Balance, target *ledger.Currency) *decimal.Decimal {
	if target == nil {
		return nil
	}
	total, err := balance.ConvertTotal(target)
	if err != nil {
		return nil
	}
	value := total.Rounded()
	return &value
}
