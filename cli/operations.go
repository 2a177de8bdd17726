package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"inventory_manager/domain"
	"inventory_manager/inventory"
)

// now is replaced in tests.
var now = time.Now

func today() domain.SaleDate {
	t := now()
	return domain.SaleDate{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}
}

// parseSaleDate reads DD/MM/YYYY. Ranges are checked by SaleDate.Validate.
func parseSaleDate(s string) (domain.SaleDate, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return domain.SaleDate{}, domain.NewValidationError("date", "must be DD/MM/YYYY", s)
	}
	var n [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return domain.SaleDate{}, domain.NewValidationError("date", "must be DD/MM/YYYY", s)
		}
		n[i] = v
	}
	return domain.SaleDate{Day: n[0], Month: n[1], Year: n[2]}, nil
}

var sortTitles = map[inventory.SortKey]string{
	inventory.SortByName:     "NOME",
	inventory.SortByPrice:    "PREÇO",
	inventory.SortByQuantity: "QUANTIDADE",
	inventory.SortByCategory: "CATEGORIA",
}

func addOperationCommands(root *cobra.Command) {
	// sort
	var sBy, sOutput string
	var sSave bool
	sortCmd := &cobra.Command{
		Use:   "sort --by name|price|quantity|category",
		Short: "Show products sorted by a criterion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := inventory.ParseSortKey(sBy)
			if err != nil {
				return err
			}
			sorted, err := svc.Sort(cmd.Context(), key)
			if err != nil {
				return err
			}
			if err := emit(cmd, sOutput == "json", sorted, func(r *Renderer) {
				r.Products("PRODUTOS ORDENADOS POR "+sortTitles[key]+":", "Total de produtos", sorted)
			}); err != nil {
				return err
			}
			if !sSave {
				return nil
			}
			if err := svc.SaveOrder(cmd.Context(), sorted); err != nil {
				return err
			}
			renderer(cmd).Message("Nova ordem salva!")
			return nil
		},
	}
	sortCmd.Flags().StringVar(&sBy, "by", "name", "sort criterion")
	sortCmd.Flags().BoolVar(&sSave, "save", false, "make the sorted order the canonical order")
	sortCmd.Flags().StringVar(&sOutput, "output", "", "output format: table|json")
	root.AddCommand(sortCmd)

	// search
	var qBy, qOutput string
	searchCmd := &cobra.Command{
		Use:   "search --by name|id|category <term>",
		Short: "Search products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := inventory.ParseSearchKey(qBy)
			if err != nil {
				return err
			}
			term := strings.Join(args, " ")
			if key == inventory.SearchByID {
				term = strings.ToUpper(term)
			}
			found, err := svc.Search(cmd.Context(), key, term)
			if err != nil {
				return err
			}
			return emit(cmd, qOutput == "json", found, func(r *Renderer) {
				if len(found) == 0 {
					r.Message("Nenhum produto encontrado.")
					return
				}
				r.Products("RESULTADO DA BUSCA:", "Produtos encontrados", found)
			})
		},
	}
	searchCmd.Flags().StringVar(&qBy, "by", "name", "search criterion")
	searchCmd.Flags().StringVar(&qOutput, "output", "", "output format: table|json")
	root.AddCommand(searchCmd)

	// low-stock
	var threshold int
	var lsOutput string
	lowStockCmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List products below the low-stock threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			low, err := svc.LowStock(cmd.Context(), threshold)
			if err != nil {
				return err
			}
			t := threshold
			if t < 1 {
				t = svc.LowStockThreshold()
			}
			return emit(cmd, lsOutput == "json", low, func(r *Renderer) {
				r.LowStock(inventory.InventoryReport{LowStockThreshold: t, LowStock: low})
			})
		},
	}
	lowStockCmd.Flags().IntVar(&threshold, "threshold", 0, "threshold (default from config)")
	lowStockCmd.Flags().StringVar(&lsOutput, "output", "", "output format: table|json")
	root.AddCommand(lowStockCmd)

	// discount
	var dCategory string
	var dPercent int
	discountCmd := &cobra.Command{
		Use:   "discount --category <category> --percent <1-95>",
		Short: "Apply a percentage discount to a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			affected, err := svc.ApplyDiscount(cmd.Context(), dCategory, dPercent)
			if err != nil {
				return err
			}
			r := renderer(cmd)
			reportDiscount(r, dPercent, dCategory, affected)
			return nil
		},
	}
	discountCmd.Flags().StringVar(&dCategory, "category", "", "category")
	discountCmd.Flags().IntVar(&dPercent, "percent", 0, "discount percentage")
	root.AddCommand(discountCmd)

	// sell
	var qty int
	var date string
	sellCmd := &cobra.Command{
		Use:   "sell <id> --quantity <n> [--date DD/MM/YYYY]",
		Short: "Record a sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := today()
			if date != "" {
				var err error
				if d, err = parseSaleDate(date); err != nil {
					return err
				}
			}
			receipt, err := svc.Sell(cmd.Context(), strings.ToUpper(args[0]), qty, d)
			if err != nil {
				return err
			}
			renderer(cmd).Receipt(receipt)
			return nil
		},
	}
	sellCmd.Flags().IntVar(&qty, "quantity", 0, "units sold")
	sellCmd.Flags().StringVar(&date, "date", "", "sale date DD/MM/YYYY (default today)")
	root.AddCommand(sellCmd)

	// history
	var hOutput string
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the sales history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := svc.History()
			return emit(cmd, hOutput == "json", h, func(r *Renderer) { r.History(h) })
		},
	}
	historyCmd.Flags().StringVar(&hOutput, "output", "", "output format: table|json")
	root.AddCommand(historyCmd)

	// report
	var view, rOutput string
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Show inventory reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := svc.Report(cmd.Context())
			if err != nil {
				return err
			}
			var table func(r *Renderer)
			switch view {
			case "total":
				table = func(r *Renderer) { r.TotalValue(rep) }
			case "low":
				table = func(r *Renderer) { r.LowStock(rep) }
			case "full":
				table = func(r *Renderer) { r.Report(rep) }
			default:
				return domain.NewValidationError("view", "must be one of total, low, full", view)
			}
			return emit(cmd, rOutput == "json", rep, table)
		},
	}
	reportCmd.Flags().StringVar(&view, "view", "full", "report view: total|low|full")
	reportCmd.Flags().StringVar(&rOutput, "output", "", "output format: table|json")
	root.AddCommand(reportCmd)
}

func reportDiscount(r *Renderer, pct int, category string, affected []domain.Product) {
	if len(affected) == 0 {
		r.Message("Nenhum produto na categoria %s.", category)
		return
	}
	title := fmt.Sprintf("DESCONTO DE %d%% APLICADO EM %s:", pct, affected[0].Category)
	r.Products(title, "Produtos com desconto", affected)
}
