package telegram

import (
	"fmt"
	"strings"

	"lista-inteligente/internal/store"
)

var statusLabels = map[store.Status]string{
	store.StatusAComprar:  "A Comprar",
	store.StatusComprando: "Comprando",
	store.StatusComprado:  "Comprado",
}

// formatShoppingList renders the filtered, sorted and grouped list view with
// per-item line totals, as Telegram Markdown.
func formatShoppingList(s store.State, filter store.ItemFilter) string {
	items := store.SortByPriority(store.Filter(s.Items, filter))

	if len(items) == 0 {
		return "🛒 Sua lista de compras está vazia.\nAdicione um item para começar!"
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Lista de Compras*\n")

	for _, group := range store.GroupByStatus(items) {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", statusLabels[group.Status]))
		for _, it := range group.Items {
			product, ok := s.ProductByID(it.ProductID)
			if !ok {
				continue
			}
			user, ok := s.UserByID(it.UserID)
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("• %s — %d un. — R$ %s\n", product.Name, it.Quantity, store.LineTotal(product, it).StringFixed(2)))
			sb.WriteString(fmt.Sprintf("  prioridade: %s | %s | %s\n  `%s`\n", it.Priority, user.Name, it.DateAdded.Format("02/01/2006"), it.ID))
		}
	}

	return sb.String()
}

// formatUsers renders the household members with their ids.
func formatUsers(users []store.User) string {
	if len(users) == 0 {
		return "Nenhum usuário cadastrado."
	}

	var sb strings.Builder
	sb.WriteString("👥 *Usuários*\n\n")
	for _, u := range users {
		sb.WriteString(fmt.Sprintf("• *%s* — %s\n  `%s`\n", u.Name, u.Email, u.ID))
	}
	return sb.String()
}

// formatProducts renders the catalog with prices and ids.
func formatProducts(products []store.Product) string {
	if len(products) == 0 {
		return "Nenhum produto cadastrado."
	}

	var sb strings.Builder
	sb.WriteString("📦 *Produtos*\n\n")
	for _, p := range products {
		sb.WriteString(fmt.Sprintf("• *%s* (%s) — R$ %s\n  `%s`\n", p.Name, p.Category, p.Price.StringFixed(2), p.ID))
	}
	return sb.String()
}

const helpText = `📝 *Lista Inteligente*

*Usuários*
/usuarios — listar
/novousuario nome; email
/removerusuario id

*Produtos*
/produtos — listar
/novoproduto nome; categoria; preço
/removerproduto id
/sugerir categoria — sugestões de nomes por IA

*Lista de compras*
/lista [usuario=id] [prioridade=baixa|média|alta] [status=...]
/novoitem produtoID; usuarioID; quantidade; prioridade
/status itemID; a comprar|comprando|comprado
/removeritem id

Categorias: alimentos, limpeza, higiene, outros.`
