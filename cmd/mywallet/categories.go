package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thucvanminh/mywallet/internal/cli"
	"github.com/thucvanminh/mywallet/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories visible to the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			categories := w.Categories()
			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found."))
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = tw.Flush() }()

			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Type"),
				cli.BoldStyle.Render("Icon"),
				cli.BoldStyle.Render("Owner"))

			for _, cat := range categories {
				owner := "system"
				if !cat.IsSystem() {
					owner = *cat.OwnerID
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					cat.ID, cat.Name, strings.ToLower(string(cat.Type)), cat.Icon, owner)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		categoryType string
		icon         string
		color        string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			catType := model.CategoryTypeExpense
			if strings.EqualFold(categoryType, "income") {
				catType = model.CategoryTypeIncome
			}

			created, err := w.CreateCategory(ctx, &model.Category{
				Name:  args[0],
				Type:  catType,
				Icon:  icon,
				Color: color,
			})
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (%s)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryType, "type", "expense", "category type (income, expense)")
	cmd.Flags().StringVar(&icon, "icon", "", "icon name (one of the fixed icon set)")
	cmd.Flags().StringVar(&color, "color", "", "display color hex code")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			if err := w.DeleteCategory(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Category deleted"))
			return nil
		},
	}
}
