package cli

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"inventory_manager/domain"
)

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
	if err != nil {
		return decimal.Decimal{}, domain.NewValidationError("price", "must be a number", s)
	}
	return d, nil
}

func addProductCommands(root *cobra.Command) {
	// create
	var id, name, price, category string
	var quantity int
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pr, err := parsePrice(price)
			if err != nil {
				return err
			}
			p, err := svc.Register(cmd.Context(), domain.Product{
				ID:       strings.ToUpper(strings.TrimSpace(id)),
				Name:     strings.TrimSpace(name),
				Price:    pr,
				Quantity: quantity,
				Category: category,
			})
			if err != nil {
				return err
			}
			r := renderer(cmd)
			r.Message("Produto cadastrado com sucesso!")
			r.Product(p)
			return nil
		},
	}
	createCmd.Flags().StringVar(&id, "id", "", "product id (LLL-NNN)")
	createCmd.Flags().StringVar(&name, "name", "", "name")
	createCmd.Flags().StringVar(&price, "price", "", "unit price")
	createCmd.Flags().IntVar(&quantity, "quantity", 0, "initial quantity")
	createCmd.Flags().StringVar(&category, "category", "", "category")
	root.AddCommand(createCmd)

	// get
	var gOutput string
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := svc.Get(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			return emit(cmd, gOutput == "json", p, func(r *Renderer) { r.Product(p) })
		},
	}
	getCmd.Flags().StringVar(&gOutput, "output", "", "output format: table|json")
	root.AddCommand(getCmd)

	// update
	var uName, uPrice string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a product's name or price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.ToUpper(args[0])
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("price") {
				return errors.New("nothing to update: pass --name or --price")
			}
			// reject a bad name before the price changes
			if cmd.Flags().Changed("name") && !domain.ValidateName(strings.TrimSpace(uName)) {
				return domain.NewValidationError("name", "must have at least 3 letters, digits or spaces", uName)
			}
			var (
				p   domain.Product
				err error
			)
			if cmd.Flags().Changed("price") {
				pr, perr := parsePrice(uPrice)
				if perr != nil {
					return perr
				}
				if p, err = svc.UpdatePrice(cmd.Context(), id, pr); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("name") {
				if p, err = svc.UpdateName(cmd.Context(), id, strings.TrimSpace(uName)); err != nil {
					return err
				}
			}
			r := renderer(cmd)
			r.Message("Produto atualizado com sucesso!")
			r.Product(p)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&uName, "name", "", "new name")
	updateCmd.Flags().StringVar(&uPrice, "price", "", "new unit price")
	root.AddCommand(updateCmd)

	// stock
	var delta int
	stockCmd := &cobra.Command{
		Use:   "stock <id> --delta <n>",
		Short: "Add (positive delta) or remove (negative delta) units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if delta == 0 {
				return domain.NewValidationError("delta", "must not be zero", delta)
			}
			c, err := svc.AdjustStock(cmd.Context(), strings.ToUpper(args[0]), delta)
			if err != nil {
				return err
			}
			renderer(cmd).StockChange(c)
			return nil
		},
	}
	stockCmd.Flags().IntVar(&delta, "delta", 0, "signed quantity change")
	root.AddCommand(stockCmd)

	// delete
	var force bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.ToUpper(args[0])
			p, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			r := renderer(cmd)
			if p.Quantity > 0 && !force {
				prompt := NewPrompter(input(cmd), cmd.OutOrStdout(), maxAttempts())
				ok, err := prompt.Confirm("Você realmente deseja remover " + p.Name + "? (S/N): ")
				if err != nil {
					return err
				}
				if !ok {
					r.Message("Exclusão cancelada.")
					return nil
				}
			}
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			r.Message("Produto %s removido com sucesso!", p.Name)
			return nil
		},
	}
	deleteCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	root.AddCommand(deleteCmd)

	// list
	var lOutput string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products in canonical order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, lOutput == "json", out, func(r *Renderer) {
				if len(out) == 0 {
					r.Message("Nenhum produto cadastrado.")
					return
				}
				r.Products("LISTA DE PRODUTOS (ordem de cadastro):", "Total de produtos", out)
			})
		},
	}
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format: table|json")
	root.AddCommand(listCmd)
}
