package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"inventory_manager/domain"
	"inventory_manager/inventory"
)

const ruleWidth = 80

// Renderer prints structured results for the operator.
type Renderer struct {
	w        io.Writer
	lowStock int
}

// NewRenderer creates a Renderer; lowStock drives the BAIXO/OK column.
func NewRenderer(w io.Writer, lowStock int) *Renderer {
	return &Renderer{w: w, lowStock: lowStock}
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

func (r *Renderer) rule(ch string) {
	fmt.Fprintln(r.w, strings.Repeat(ch, ruleWidth))
}

func (r *Renderer) status(p domain.Product) string {
	if p.IsLowStock(r.lowStock) {
		return "BAIXO"
	}
	return "OK"
}

// Products prints a product table under title, followed by totalLabel and the row count.
func (r *Renderer) Products(title, totalLabel string, products []domain.Product) {
	fmt.Fprintf(r.w, "\n%s\n", title)
	r.rule("-")
	fmt.Fprintf(r.w, "%-8s %-20s %-10s %-5s %-15s %s\n", "ID", "Nome", "Preço", "Qtd", "Categoria", "Status")
	r.rule("-")
	for _, p := range products {
		fmt.Fprintf(r.w, "%-8s %-20s R$%-8s %-5d %-15s %s", p.ID, p.Name, p.Price.StringFixed(2), p.Quantity, p.Category, r.status(p))
		if p.DiscountedPrice != nil {
			fmt.Fprintf(r.w, "  (com desconto: %s)", money(*p.DiscountedPrice))
		}
		fmt.Fprintln(r.w)
	}
	r.rule("-")
	fmt.Fprintf(r.w, "%s: %d\n", totalLabel, len(products))
}

// Product prints a single product summary line.
func (r *Renderer) Product(p domain.Product) {
	fmt.Fprintf(r.w, "ID: %s | Nome: %s | Preço: %s | Quantidade: %d | Categoria: %s\n",
		p.ID, p.Name, money(p.Price), p.Quantity, p.Category)
	if p.DiscountedPrice != nil {
		fmt.Fprintf(r.w, "Preço com desconto (%d%%): %s\n", p.DiscountPercent, money(*p.DiscountedPrice))
	}
}

// StockChange prints the outcome of a stock adjustment.
func (r *Renderer) StockChange(c domain.StockChange) {
	fmt.Fprintf(r.w, "Estoque atualizado com sucesso! %s: %d -> %d\n", c.ProductID, c.Previous, c.Quantity)
	r.Warning(c.Warning)
}

// Warning prints a depletion warning when present.
func (r *Renderer) Warning(w *domain.StockDepletedWarning) {
	if w != nil {
		fmt.Fprintf(r.w, "Estoque esgotado! (%s - %s)\n", w.ProductID, w.Name)
	}
}

// Receipt prints a sale receipt.
func (r *Renderer) Receipt(rc domain.SaleReceipt) {
	fmt.Fprintln(r.w, "\nVENDA REGISTRADA")
	r.rule("=")
	fmt.Fprintf(r.w, "Produto: %s\n", rc.ProductName)
	fmt.Fprintf(r.w, "Preço unitário: %s\n", money(rc.UnitPrice))
	fmt.Fprintf(r.w, "Quantidade: %d\n", rc.Quantity)
	fmt.Fprintf(r.w, "Total: %s\n", money(rc.Total))
	fmt.Fprintf(r.w, "Estoque restante: %d\n", rc.ResultingQuantity)
	r.Warning(rc.Warning)
}

// History prints the sales history.
func (r *Renderer) History(records []domain.SaleRecord) {
	if len(records) == 0 {
		fmt.Fprintln(r.w, "Nenhuma venda registrada.")
		return
	}
	fmt.Fprintln(r.w, "\nHISTÓRICO DE VENDAS")
	r.rule("-")
	for _, s := range records {
		fmt.Fprintf(r.w, "%s  %-8s %-20s %d\n", s.Date, s.ProductID, s.ProductName, s.QuantitySold)
	}
	r.rule("-")
	fmt.Fprintf(r.w, "Total de vendas: %d\n", len(records))
}

// TotalValue prints only the inventory value.
func (r *Renderer) TotalValue(rep inventory.InventoryReport) {
	fmt.Fprintf(r.w, "\nVALOR TOTAL DO ESTOQUE: %s\n", money(rep.TotalValue))
}

// LowStock prints the low stock view of a report.
func (r *Renderer) LowStock(rep inventory.InventoryReport) {
	title := fmt.Sprintf("PRODUTOS COM ESTOQUE BAIXO (menos de %d unidades):", rep.LowStockThreshold)
	if len(rep.LowStock) == 0 {
		fmt.Fprintf(r.w, "\n%s\nTodos os produtos têm estoque adequado!\n", title)
		return
	}
	r.Products(title, "Total com estoque baixo", rep.LowStock)
}

// Report prints the full report.
func (r *Renderer) Report(rep inventory.InventoryReport) {
	fmt.Fprintln(r.w, "\nRELATÓRIO COMPLETO DO ESTOQUE")
	fmt.Fprintln(r.w, strings.Repeat("=", 50))
	fmt.Fprintf(r.w, "Valor total do estoque: %s\n", money(rep.TotalValue))
	fmt.Fprintf(r.w, "Total de produtos: %d\n", rep.ProductCount)
	fmt.Fprintf(r.w, "Produtos com estoque baixo: %d\n", len(rep.LowStock))

	fmt.Fprintln(r.w, "\nRESUMO POR CATEGORIA:")
	fmt.Fprintln(r.w, strings.Repeat("-", 40))
	for _, c := range rep.Categories {
		fmt.Fprintf(r.w, "%s: %d produtos | %s\n", c.Category, c.Count, money(c.Value))
	}

	if len(rep.LowStock) > 0 {
		fmt.Fprintln(r.w, "\nPRODUTOS COM ESTOQUE BAIXO:")
		for _, p := range rep.LowStock {
			fmt.Fprintf(r.w, "- %s (%s): %d unidades\n", p.Name, p.ID, p.Quantity)
		}
	}
}

// Message prints a formatted line.
func (r *Renderer) Message(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Error prints an operator-facing description of err.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, describe(err))
}

func describe(err error) string {
	var (
		ve  *domain.ValidationError
		ise *domain.InsufficientStockError
	)
	switch {
	case errors.Is(err, ErrCancelled):
		return "Operação cancelada: muitas tentativas inválidas."
	case domain.IsProductNotFoundError(err):
		return "Esse produto não existe."
	case domain.IsDuplicateProductError(err):
		return "Erro: ID do produto já existe."
	case domain.IsBlockedDeletionError(err):
		return "Não é possível excluir produto sem estoque!"
	case errors.As(err, &ise) && !errors.As(err, &ve):
		return fmt.Sprintf("Erro: Não há estoque suficiente (solicitado %d, disponível %d).", ise.Requested, ise.Available)
	case errors.As(err, &ve):
		if errors.As(ve.Err, &ise) {
			return fmt.Sprintf("Erro: Não há estoque suficiente (solicitado %d, disponível %d).", ise.Requested, ise.Available)
		}
		return fmt.Sprintf("Erro: %s inválido (%s).", ve.Field, ve.Reason)
	default:
		return "Erro: " + err.Error()
	}
}
