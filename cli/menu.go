package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"inventory_manager/domain"
	"inventory_manager/inventory"
)

// Command is a main menu option.
type Command int

const (
	CommandRegister Command = iota + 1
	CommandUpdate
	CommandDelete
	CommandList
	CommandSort
	CommandSearch
	CommandReports
	CommandSell
	CommandDiscount
	CommandExit
)

var commandLabels = map[Command]string{
	CommandRegister: "Cadastrar produto",
	CommandUpdate:   "Atualizar produto",
	CommandDelete:   "Excluir produto",
	CommandList:     "Listar produtos",
	CommandSort:     "Ordenar produtos",
	CommandSearch:   "Buscar produto",
	CommandReports:  "Relatórios",
	CommandSell:     "Registrar venda",
	CommandDiscount: "Aplicar desconto por categoria",
	CommandExit:     "Sair",
}

func (c Command) String() string {
	if l, ok := commandLabels[c]; ok {
		return l
	}
	return "Command(" + strconv.Itoa(int(c)) + ")"
}

// ParseCommand maps a typed option number to a Command.
func ParseCommand(s string) (Command, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < int(CommandRegister) || n > int(CommandExit) {
		return 0, fmt.Errorf("unknown menu option %q", s)
	}
	return Command(n), nil
}

var (
	sortChoices   = []inventory.SortKey{inventory.SortByName, inventory.SortByPrice, inventory.SortByQuantity, inventory.SortByCategory}
	searchChoices = []inventory.SearchKey{inventory.SearchByName, inventory.SearchByID, inventory.SearchByCategory}
)

// Menu drives the numbered main menu over a Service.
type Menu struct {
	svc    *inventory.Service
	prompt *Prompter
	render *Renderer
}

// NewMenu creates a Menu.
func NewMenu(svc *inventory.Service, prompt *Prompter, render *Renderer) *Menu {
	return &Menu{svc: svc, prompt: prompt, render: render}
}

// Run shows the menu until the operator exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.show()
		line, err := m.prompt.Line("Escolha uma opção: ")
		if errors.Is(err, io.EOF) {
			m.render.Message("Saindo do sistema. Até Logo!")
			return nil
		}
		if err != nil {
			return err
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			m.render.Message("Opção inválida! Escolha de %d a %d.", CommandRegister, CommandExit)
			continue
		}
		if cmd == CommandExit {
			m.render.Message("Saindo do sistema. Até Logo!")
			return nil
		}

		err = m.dispatch(ctx, cmd)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			m.render.Error(err)
		}
	}
}

func (m *Menu) show() {
	m.render.Message("\n%s\nSISTEMA DE GERENCIAMENTO DE ESTOQUE\n%s", strings.Repeat("=", 40), strings.Repeat("=", 40))
	for c := CommandRegister; c <= CommandExit; c++ {
		m.render.Message("%d. %s", c, c)
	}
}

func (m *Menu) dispatch(ctx context.Context, cmd Command) error {
	switch cmd {
	case CommandRegister:
		return m.register(ctx)
	case CommandUpdate:
		return m.update(ctx)
	case CommandDelete:
		return m.delete(ctx)
	case CommandList:
		return m.list(ctx)
	case CommandSort:
		return m.sort(ctx)
	case CommandSearch:
		return m.search(ctx)
	case CommandReports:
		return m.reports(ctx)
	case CommandSell:
		return m.sell(ctx)
	case CommandDiscount:
		return m.discount(ctx)
	default:
		return fmt.Errorf("unhandled command %v", cmd)
	}
}

// empty reports an empty inventory to the operator.
func (m *Menu) empty(ctx context.Context) (bool, error) {
	products, err := m.svc.List(ctx)
	if err != nil {
		return false, err
	}
	if len(products) == 0 {
		m.render.Message("Nenhum produto cadastrado.")
		return true, nil
	}
	return false, nil
}

func (m *Menu) existingID(ctx context.Context) (string, error) {
	return m.prompt.ID("ID do produto: ", func(id string) error {
		ok, err := m.svc.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("esse produto não existe")
		}
		return nil
	})
}

func checkName(s string) error {
	if !domain.ValidateName(s) {
		return errors.New("o nome deve ter ao menos 3 caracteres, apenas letras, números e espaços")
	}
	return nil
}

func checkPrice(d decimal.Decimal) error {
	if !d.IsPositive() {
		return errors.New("o preço deve ser maior que zero")
	}
	return nil
}

func checkPositive(n int) error {
	if n <= 0 {
		return errors.New("a quantidade deve ser maior que zero")
	}
	return nil
}

func checkCategory(s string) error {
	if !domain.ValidateCategory(s) {
		return fmt.Errorf("categoria inválida, use: %s", strings.Join(domain.Categories, ", "))
	}
	return nil
}

func (m *Menu) register(ctx context.Context) error {
	m.render.Message("\nCADASTRO DE PRODUTO")
	id, err := m.prompt.ID("ID do produto (ex: ALM-001): ", func(id string) error {
		if !domain.ValidateIDFormat(id) {
			return errors.New("o ID deve ter o formato AAA-000")
		}
		exists, err := m.svc.Exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return errors.New("ID do produto já existe")
		}
		return nil
	})
	if err != nil {
		return err
	}
	name, err := m.prompt.String("Nome do produto: ", checkName)
	if err != nil {
		return err
	}
	price, err := m.prompt.Decimal("Preço (R$): ", checkPrice)
	if err != nil {
		return err
	}
	qty, err := m.prompt.Int("Quantidade inicial: ", checkPositive)
	if err != nil {
		return err
	}
	category, err := m.prompt.String("Categoria ("+strings.Join(domain.Categories, ", ")+"): ", checkCategory)
	if err != nil {
		return err
	}

	p, err := m.svc.Register(ctx, domain.Product{ID: id, Name: name, Price: price, Quantity: qty, Category: category})
	if err != nil {
		return err
	}
	m.render.Message("Produto cadastrado com sucesso!")
	m.render.Product(p)
	return nil
}

func (m *Menu) update(ctx context.Context) error {
	if empty, err := m.empty(ctx); empty || err != nil {
		return err
	}
	id, err := m.existingID(ctx)
	if err != nil {
		return err
	}
	p, err := m.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	m.render.Product(p)
	m.render.Message("1. Preço\n2. Nome\n3. Estoque")
	choice, err := m.prompt.Choice("O que deseja atualizar? ", 1, 3)
	if err != nil {
		return err
	}

	switch choice {
	case 1:
		price, err := m.prompt.Decimal("Novo preço (R$): ", checkPrice)
		if err != nil {
			return err
		}
		if p, err = m.svc.UpdatePrice(ctx, id, price); err != nil {
			return err
		}
		m.render.Message("Preço atualizado com sucesso!")
		m.render.Product(p)
	case 2:
		name, err := m.prompt.String("Novo nome: ", checkName)
		if err != nil {
			return err
		}
		if p, err = m.svc.UpdateName(ctx, id, name); err != nil {
			return err
		}
		m.render.Message("Nome atualizado com sucesso!")
		m.render.Product(p)
	case 3:
		op, err := m.prompt.String("Adicionar (+) ou remover (-)? ", func(s string) error {
			if s != "+" && s != "-" {
				return errors.New("digite + ou -")
			}
			return nil
		})
		if err != nil {
			return err
		}
		amount, err := m.prompt.Int("Quantidade: ", func(n int) error {
			if err := checkPositive(n); err != nil {
				return err
			}
			if op == "-" && n > p.Quantity {
				return fmt.Errorf("não há estoque suficiente (disponível: %d)", p.Quantity)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if op == "-" {
			amount = -amount
		}
		change, err := m.svc.AdjustStock(ctx, id, amount)
		if err != nil {
			return err
		}
		m.render.StockChange(change)
	}
	return nil
}

func (m *Menu) delete(ctx context.Context) error {
	if empty, err := m.empty(ctx); empty || err != nil {
		return err
	}
	id, err := m.existingID(ctx)
	if err != nil {
		return err
	}
	p, err := m.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Quantity > 0 {
		ok, err := m.prompt.Confirm("Você realmente deseja remover " + p.Name + "? (S/N): ")
		if err != nil {
			return err
		}
		if !ok {
			m.render.Message("Exclusão cancelada.")
			return nil
		}
	}
	if err := m.svc.Delete(ctx, id); err != nil {
		return err
	}
	m.render.Message("Produto %s removido com sucesso!", p.Name)
	return nil
}

func (m *Menu) list(ctx context.Context) error {
	products, err := m.svc.List(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		m.render.Message("Nenhum produto cadastrado.")
		return nil
	}
	m.render.Products("LISTA DE PRODUTOS (ordem de cadastro):", "Total de produtos", products)
	return nil
}

func (m *Menu) sort(ctx context.Context) error {
	if empty, err := m.empty(ctx); empty || err != nil {
		return err
	}
	m.render.Message("Ordenar por:\n1. Nome\n2. Preço\n3. Quantidade\n4. Categoria")
	choice, err := m.prompt.Choice("Escolha: ", 1, len(sortChoices))
	if err != nil {
		return err
	}
	key := sortChoices[choice-1]
	sorted, err := m.svc.Sort(ctx, key)
	if err != nil {
		return err
	}
	m.render.Products("PRODUTOS ORDENADOS POR "+sortTitles[key]+":", "Total de produtos", sorted)

	save, err := m.prompt.Confirm("Deseja salvar esta ordenação como nova ordem padrão? (S/N): ")
	if err != nil {
		return err
	}
	if !save {
		m.render.Message("Ordenação apenas exibida.")
		return nil
	}
	if err := m.svc.SaveOrder(ctx, sorted); err != nil {
		return err
	}
	m.render.Message("Nova ordem salva!")
	return nil
}

func (m *Menu) search(ctx context.Context) error {
	if empty, err := m.empty(ctx); empty || err != nil {
		return err
	}
	m.render.Message("Buscar por:\n1. Nome\n2. ID\n3. Categoria")
	choice, err := m.prompt.Choice("Escolha: ", 1, len(searchChoices))
	if err != nil {
		return err
	}
	key := searchChoices[choice-1]
	term, err := m.prompt.String("Termo de busca: ", func(s string) error {
		if s == "" {
			return errors.New("o termo de busca não pode ser vazio")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if key == inventory.SearchByID {
		term = strings.ToUpper(term)
	}
	found, err := m.svc.Search(ctx, key, term)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		m.render.Message("Nenhum produto encontrado.")
		return nil
	}
	m.render.Products("RESULTADO DA BUSCA:", "Produtos encontrados", found)
	return nil
}

func (m *Menu) reports(ctx context.Context) error {
	if empty, err := m.empty(ctx); empty || err != nil {
		return err
	}
	m.render.Message("Relatórios:\n1. Valor total do estoque\n2. Produtos com estoque baixo\n3. Relatório completo")
	choice, err := m.prompt.Choice("Escolha: ", 1, 3)
	if err != nil {
		return err
	}
	rep, err := m.svc.Report(ctx)
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		m.render.TotalValue(rep)
	case 2:
		m.render.LowStock(rep)
	case 3:
		m.render.Report(rep)
	}
	return nil
}

func (m *Menu) sell(ctx context.Context) error {
	if empty, err := m.empty(ctx); empty || err != nil {
		return err
	}
	id, err := m.existingID(ctx)
	if err != nil {
		return err
	}
	qty, err := m.prompt.Int("Quantidade vendida: ", checkPositive)
	if err != nil {
		return err
	}
	var date domain.SaleDate
	_, err = m.prompt.String("Data da venda (DD/MM/AAAA, vazio para hoje): ", func(s string) error {
		if s == "" {
			date = today()
			return nil
		}
		d, err := parseSaleDate(s)
		if err != nil {
			return errors.New("use o formato DD/MM/AAAA")
		}
		if err := d.Validate(); err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				return fmt.Errorf("data inválida (%s: %s)", ve.Field, ve.Reason)
			}
			return err
		}
		date = d
		return nil
	})
	if err != nil {
		return err
	}

	receipt, err := m.svc.Sell(ctx, id, qty, date)
	if err != nil {
		return err
	}
	m.render.Receipt(receipt)
	return nil
}

func (m *Menu) discount(ctx context.Context) error {
	category, err := m.prompt.String("Categoria ("+strings.Join(domain.Categories, ", ")+"): ", checkCategory)
	if err != nil {
		return err
	}
	pct, err := m.prompt.Int(fmt.Sprintf("Percentual de desconto (%d-%d): ", domain.MinDiscountPercent, domain.MaxDiscountPercent), func(n int) error {
		if domain.ValidateDiscountPercent(n) != nil {
			return fmt.Errorf("o desconto deve estar entre %d e %d", domain.MinDiscountPercent, domain.MaxDiscountPercent)
		}
		return nil
	})
	if err != nil {
		return err
	}
	affected, err := m.svc.ApplyDiscount(ctx, category, pct)
	if err != nil {
		return err
	}
	reportDiscount(m.render, pct, category, affected)
	return nil
}
