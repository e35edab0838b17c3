package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"lista-inteligente/internal/config"
	"lista-inteligente/internal/llm"
	"lista-inteligente/internal/store"
	"lista-inteligente/internal/suggest"
)

func main() {
	root := &cobra.Command{
		Use:          "lista",
		Short:        "Household shopping list manager",
		SilenceUsage: true,
	}
	root.AddCommand(sessionCmd(), suggestCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// sessionCmd runs one interactive shopping list session. State lives for the
// duration of the command and is discarded on exit.
func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessao",
		Short: "Start an interactive shopping list session",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.New()
			fmt.Println("Lista Inteligente — digite 'ajuda' para ver os comandos, 'sair' para encerrar.")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "sair" {
					break
				}
				runSessionCommand(st, line)
			}
			return scanner.Err()
		},
	}
}

func runSessionCommand(st *store.Store, line string) {
	cmd := line
	args := ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		cmd, args = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch cmd {
	case "ajuda":
		fmt.Println(sessionHelp)
	case "usuarios":
		printUsers(st.Snapshot().Users)
	case "novousuario":
		parts := splitArgs(args)
		if len(parts) != 2 {
			fmt.Println("uso: novousuario nome; email")
			return
		}
		u, err := st.CreateUser(parts[0], parts[1])
		if report(err) {
			return
		}
		fmt.Printf("usuário adicionado: %s (%s)\n", u.Name, u.ID)
	case "removerusuario":
		if report(st.Dispatch(store.RemoveUser{ID: args})) {
			return
		}
		fmt.Println("usuário removido (e seus itens da lista)")
	case "produtos":
		printProducts(st.Snapshot().Products)
	case "novoproduto":
		parts := splitArgs(args)
		if len(parts) != 3 {
			fmt.Println("uso: novoproduto nome; categoria; preço")
			return
		}
		category, err := store.ParseCategory(parts[1])
		if report(err) {
			return
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(parts[2], ",", "."))
		if err != nil {
			fmt.Println("preço inválido")
			return
		}
		p, err := st.CreateProduct(parts[0], category, price)
		if report(err) {
			return
		}
		fmt.Printf("produto adicionado: %s — R$ %s (%s)\n", p.Name, p.Price.StringFixed(2), p.ID)
	case "removerproduto":
		if report(st.Dispatch(store.RemoveProduct{ID: args})) {
			return
		}
		fmt.Println("produto removido (e seu item da lista)")
	case "lista":
		printList(st.Snapshot())
	case "novoitem":
		parts := splitArgs(args)
		if len(parts) != 4 {
			fmt.Println("uso: novoitem produtoID; usuarioID; quantidade; prioridade")
			return
		}
		var quantity int
		if _, err := fmt.Sscanf(parts[2], "%d", &quantity); err != nil {
			fmt.Println("quantidade inválida")
			return
		}
		priority, err := store.ParsePriority(parts[3])
		if report(err) {
			return
		}
		it, err := st.CreateItem(parts[0], parts[1], quantity, priority)
		if report(err) {
			return
		}
		fmt.Printf("item adicionado: %s\n", it.ID)
	case "removeritem":
		if report(st.Dispatch(store.RemoveItem{ID: args})) {
			return
		}
		fmt.Println("item removido")
	case "status":
		parts := splitArgs(args)
		if len(parts) != 2 {
			fmt.Println("uso: status itemID; a comprar|comprando|comprado")
			return
		}
		status, err := store.ParseStatus(parts[1])
		if report(err) {
			return
		}
		if report(st.Dispatch(store.UpdateItemStatus{ID: parts[0], Status: status})) {
			return
		}
		fmt.Println("status atualizado")
	default:
		fmt.Println("comando desconhecido; digite 'ajuda'")
	}
}

func printUsers(users []store.User) {
	for _, u := range users {
		fmt.Printf("%s  %s <%s>\n", u.ID, u.Name, u.Email)
	}
}

func printProducts(products []store.Product) {
	for _, p := range products {
		fmt.Printf("%s  %s (%s) R$ %s\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2))
	}
}

func printList(s store.State) {
	items := store.SortByPriority(s.Items)
	if len(items) == 0 {
		fmt.Println("sua lista de compras está vazia")
		return
	}
	for _, group := range store.GroupByStatus(items) {
		fmt.Printf("[%s]\n", group.Status)
		for _, it := range group.Items {
			product, ok := s.ProductByID(it.ProductID)
			if !ok {
				continue
			}
			user, _ := s.UserByID(it.UserID)
			fmt.Printf("  %s  %s x%d  %s  R$ %s  %s\n",
				it.ID, product.Name, it.Quantity, it.Priority, store.LineTotal(product, it).StringFixed(2), user.Name)
		}
	}
}

func report(err error) bool {
	if err != nil {
		fmt.Printf("erro: %v\n", err)
		return true
	}
	return false
}

func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// suggestCmd asks the model for product name ideas without opening a session.
func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sugerir <categoria>",
		Short: "Generate AI product name suggestions for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := store.ParseCategory(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
			if err != nil {
				return err
			}
			if closer, ok := geminiClient.(llm.Closer); ok {
				defer closer.Close()
			}

			suggestions, err := suggest.NewSuggester(geminiClient).Suggest(ctx, category)
			if err != nil {
				return fmt.Errorf("não foi possível gerar sugestões: %w", err)
			}

			for _, name := range suggestions {
				fmt.Println(name)
			}
			return nil
		},
	}
}

const sessionHelp = `comandos:
  usuarios                                     listar usuários
  novousuario nome; email                      adicionar usuário
  removerusuario id                            remover usuário (remove seus itens)
  produtos                                     listar produtos
  novoproduto nome; categoria; preço           adicionar produto
  removerproduto id                            remover produto (remove seu item)
  lista                                        mostrar lista agrupada por status
  novoitem produtoID; usuarioID; qtd; prio     adicionar item
  status itemID; status                        atualizar status
  removeritem id                               remover item
  sair                                         encerrar a sessão`
