package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"lista-inteligente/internal/config"
	"lista-inteligente/internal/metrics"
	"lista-inteligente/internal/store"
	"lista-inteligente/internal/suggest"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// Bot wraps the Telegram API around shopping list sessions. Each chat gets
// its own store, created on first contact and discarded when the process
// exits. The bot is the validating caller the store contract expects: it
// parses and checks user input, turns store rejections into user-facing
// messages and renders the derived views.
type Bot struct {
	api       *tgbotapi.BotAPI
	suggester *suggest.Suggester
	cfg       *config.Config
	log       *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*store.Store
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, suggester *suggest.Suggester, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Info("authorized on telegram", "account", api.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info("webhook set", "response", resp.Description)

	return &Bot{
		api:       api,
		suggester: suggester,
		cfg:       cfg,
		log:       log,
		sessions:  map[int64]*store.Store{},
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.log.Error("error parsing update", "err", err)
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if !b.allowed(update.Message.From.ID) {
		b.log.Warn("unauthorized access attempt", "user_id", update.Message.From.ID, "username", update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) allowed(userID int64) bool {
	if len(b.cfg.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

// session returns the store for a chat, creating a seeded one on first use.
// Mutations on the returned store serialize behind its own mutex, so handling
// updates concurrently cannot interleave partial transitions.
func (b *Bot) session(chatID int64) *store.Store {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.sessions[chatID]
	if !ok {
		st = store.New()
		b.sessions[chatID] = st
	}
	return st
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	cmd := text
	args := ""
	if i := strings.IndexAny(text, " \n"); i >= 0 {
		cmd, args = text[:i], strings.TrimSpace(text[i+1:])
	}

	st := b.session(msg.Chat.ID)

	switch strings.ToLower(cmd) {
	case "/start", "/ajuda":
		b.reply(msg.Chat.ID, helpText)
	case "/usuarios":
		b.reply(msg.Chat.ID, formatUsers(st.Snapshot().Users))
	case "/novousuario":
		b.handleNewUser(st, msg.Chat.ID, args)
	case "/removerusuario":
		b.handleRemove(st, msg.Chat.ID, store.RemoveUser{ID: args}, "Usuário removido (e seus itens da lista).")
	case "/produtos":
		b.reply(msg.Chat.ID, formatProducts(st.Snapshot().Products))
	case "/novoproduto":
		b.handleNewProduct(st, msg.Chat.ID, args)
	case "/removerproduto":
		b.handleRemove(st, msg.Chat.ID, store.RemoveProduct{ID: args}, "Produto removido (e seu item da lista).")
	case "/lista":
		b.handleList(st, msg.Chat.ID, args)
	case "/novoitem":
		b.handleNewItem(st, msg.Chat.ID, args)
	case "/removeritem":
		b.handleRemove(st, msg.Chat.ID, store.RemoveItem{ID: args}, "Item removido da lista.")
	case "/status":
		b.handleStatus(st, msg.Chat.ID, args)
	case "/sugerir":
		b.handleSuggest(msg.Chat.ID, args)
	case "/saude":
		b.handleHealth(msg.Chat.ID, msg.From.ID)
	default:
		b.reply(msg.Chat.ID, "Comando desconhecido. Envie /ajuda para ver os comandos.")
	}
}

func (b *Bot) handleNewUser(st *store.Store, chatID int64, args string) {
	parts := splitArgs(args)
	if len(parts) != 2 {
		b.reply(chatID, "Uso: /novousuario nome; email")
		return
	}

	u, err := st.CreateUser(parts[0], parts[1])
	if err != nil {
		b.reply(chatID, errorMessage(err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Usuário adicionado! *%s*\n`%s`", u.Name, u.ID))
}

func (b *Bot) handleNewProduct(st *store.Store, chatID int64, args string) {
	parts := splitArgs(args)
	if len(parts) != 3 {
		b.reply(chatID, "Uso: /novoproduto nome; categoria; preço")
		return
	}

	category, err := store.ParseCategory(parts[1])
	if err != nil {
		b.reply(chatID, errorMessage(err))
		return
	}
	price, err := decimal.NewFromString(strings.ReplaceAll(parts[2], ",", "."))
	if err != nil {
		b.reply(chatID, "Preço inválido. Ex: 12.99")
		return
	}

	p, err := st.CreateProduct(parts[0], category, price)
	if err != nil {
		b.reply(chatID, errorMessage(err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Produto adicionado! *%s* — R$ %s\n`%s`", p.Name, p.Price.StringFixed(2), p.ID))
}

func (b *Bot) handleNewItem(st *store.Store, chatID int64, args string) {
	parts := splitArgs(args)
	if len(parts) != 4 {
		b.reply(chatID, "Uso: /novoitem produtoID; usuarioID; quantidade; prioridade")
		return
	}

	var quantity int
	if _, err := fmt.Sscanf(parts[2], "%d", &quantity); err != nil {
		b.reply(chatID, "Quantidade inválida.")
		return
	}
	priority, err := store.ParsePriority(parts[3])
	if err != nil {
		b.reply(chatID, errorMessage(err))
		return
	}

	it, err := st.CreateItem(parts[0], parts[1], quantity, priority)
	if err != nil {
		b.reply(chatID, errorMessage(err))
		return
	}

	snap := st.Snapshot()
	product, _ := snap.ProductByID(it.ProductID)
	b.reply(chatID, fmt.Sprintf("Item adicionado! *%s* x%d — R$ %s\n`%s`",
		product.Name, it.Quantity, store.LineTotal(product, it).StringFixed(2), it.ID))
}

func (b *Bot) handleStatus(st *store.Store, chatID int64, args string) {
	parts := splitArgs(args)
	if len(parts) != 2 {
		b.reply(chatID, "Uso: /status itemID; a comprar|comprando|comprado")
		return
	}

	status, err := store.ParseStatus(parts[1])
	if err != nil {
		b.reply(chatID, errorMessage(err))
		return
	}

	if _, ok := st.Snapshot().ItemByID(parts[0]); !ok {
		b.reply(chatID, "Item não encontrado na lista.")
		return
	}

	if err := st.Dispatch(store.UpdateItemStatus{ID: parts[0], Status: status}); err != nil {
		b.reply(chatID, errorMessage(err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Status atualizado para *%s*.", statusLabels[status]))
}

func (b *Bot) handleRemove(st *store.Store, chatID int64, action store.Action, confirmation string) {
	if err := st.Dispatch(action); err != nil {
		b.reply(chatID, errorMessage(err))
		return
	}
	b.reply(chatID, confirmation)
}

func (b *Bot) handleList(st *store.Store, chatID int64, args string) {
	filter, err := parseListFilter(args)
	if err != nil {
		b.reply(chatID, errorMessage(err))
		return
	}
	b.reply(chatID, formatShoppingList(st.Snapshot(), filter))
}

func (b *Bot) handleSuggest(chatID int64, args string) {
	category, err := store.ParseCategory(args)
	if err != nil {
		b.reply(chatID, errorMessage(err))
		return
	}

	statusMsg := tgbotapi.NewMessage(chatID, "✨ *Gerando sugestões...*")
	statusMsg.ParseMode = "Markdown"
	sent, err := b.api.Send(statusMsg)
	if err != nil {
		b.log.Error("failed to send initial reply", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	suggestions, err := b.suggester.Suggest(ctx, category)
	if err != nil {
		b.log.Error("error generating suggestions", "category", category, "err", err)
		edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, "❌ Não foi possível gerar sugestões. Tente novamente.")
		b.api.Send(edit)
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(suggestions))
	for _, name := range suggestions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, callbackData(category, name)),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)

	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, fmt.Sprintf("✨ *Sugestões para %s*\nToque em um nome para cadastrá-lo:", category))
	edit.ParseMode = "Markdown"
	edit.ReplyMarkup = &keyboard
	b.api.Send(edit)
}

func (b *Bot) handleHealth(chatID, userID int64) {
	if b.cfg.AdminTelegramID == 0 || userID != b.cfg.AdminTelegramID {
		b.reply(chatID, "⛔ Somente o administrador pode usar este comando.")
		return
	}

	b.mu.Lock()
	sessions := len(b.sessions)
	b.mu.Unlock()

	health := metrics.GetSysHealth(sessions)

	var sb strings.Builder
	sb.WriteString("🧠 *Saúde do Sistema*\n\n")
	sb.WriteString(fmt.Sprintf("• Sessões ativas: %d\n", health.Sessions))
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Ciclos de GC: %d\n", health.NumGC))
	b.reply(chatID, sb.String())
}

// handleCallbackQuery turns a tapped suggestion into a prefilled command the
// user completes with a price. The suggestion itself never touches the store.
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	category, name, ok := parseCallbackData(query.Data)
	if !ok {
		return
	}

	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	reply := tgbotapi.NewMessage(query.Message.Chat.ID,
		fmt.Sprintf("Para cadastrar, envie:\n`/novoproduto %s; %s; preço`", name, category))
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", "chat_id", chatID, "err", err)
	}
}

// splitArgs splits a semicolon-separated argument string, trimming blanks.
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

// parseListFilter parses optional key=value tokens of /lista. Status values
// containing a space are written with a dash ("a-comprar").
func parseListFilter(args string) (store.ItemFilter, error) {
	var f store.ItemFilter
	for _, tok := range strings.Fields(args) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			return store.ItemFilter{}, fmt.Errorf("%w: %q", errBadFilter, tok)
		}
		switch strings.ToLower(key) {
		case "usuario":
			f.UserID = value
		case "prioridade":
			p, err := store.ParsePriority(value)
			if err != nil {
				return store.ItemFilter{}, err
			}
			f.Priority = p
		case "status":
			s, err := store.ParseStatus(strings.ReplaceAll(value, "-", " "))
			if err != nil {
				return store.ItemFilter{}, err
			}
			f.Status = s
		default:
			return store.ItemFilter{}, fmt.Errorf("%w: %q", errBadFilter, key)
		}
	}
	return f, nil
}

var errBadFilter = errors.New("invalid filter")

// callbackData packs a suggestion into Telegram's 64-byte callback budget,
// trimming the name rune by rune when it does not fit.
func callbackData(category store.Category, name string) string {
	runes := []rune(name)
	data := fmt.Sprintf("nome|%s|%s", category, string(runes))
	for len(data) > 64 && len(runes) > 0 {
		runes = runes[:len(runes)-1]
		data = fmt.Sprintf("nome|%s|%s", category, string(runes))
	}
	return data
}

func parseCallbackData(data string) (store.Category, string, bool) {
	parts := strings.SplitN(data, "|", 3)
	if len(parts) != 3 || parts[0] != "nome" {
		return "", "", false
	}
	return store.Category(parts[1]), parts[2], true
}

// errorMessage maps store errors onto the Portuguese messages shown to users.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrDuplicateProduct):
		return "Este produto já existe."
	case errors.Is(err, store.ErrDuplicateItem):
		return "Este produto já está na sua lista."
	case errors.Is(err, store.ErrEmptyName):
		return "Nome é obrigatório."
	case errors.Is(err, store.ErrInvalidEmail):
		return "E-mail inválido."
	case errors.Is(err, store.ErrInvalidQuantity):
		return "Quantidade deve ser no mínimo 1."
	case errors.Is(err, store.ErrNegativePrice):
		return "Preço não pode ser negativo."
	case errors.Is(err, store.ErrInvalidCategory):
		return "Categoria inválida. Use: alimentos, limpeza, higiene ou outros."
	case errors.Is(err, store.ErrInvalidPriority):
		return "Prioridade inválida. Use: baixa, média ou alta."
	case errors.Is(err, store.ErrInvalidStatus):
		return "Status inválido. Use: a comprar, comprando ou comprado."
	case errors.Is(err, store.ErrProductNotFound):
		return "Produto não encontrado."
	case errors.Is(err, store.ErrUserNotFound):
		return "Usuário não encontrado."
	case errors.Is(err, errBadFilter):
		return "Filtro inválido. Ex: /lista prioridade=alta status=a-comprar"
	}
	return "Não foi possível concluir a operação."
}
