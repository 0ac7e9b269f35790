package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thucvanminh/mywallet/internal/cli"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the signed-in user's profile",
	}

	cmd.AddCommand(showProfileCmd())
	cmd.AddCommand(setStartDayCmd())

	return cmd
}

func showProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			p := w.Profile()
			fmt.Println(cli.FormatTitle("Profile"))
			fmt.Printf("  ID:                %s\n", p.ID)
			fmt.Printf("  Email:             %s\n", p.Email)
			if p.FullName != "" {
				fmt.Printf("  Name:              %s\n", p.FullName)
			}
			fmt.Printf("  Billing start day: %d\n", p.StartDay())

			return nil
		},
	}
}

func setStartDayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <day>",
		Short: "Set the billing-cycle start day (1-31)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			day, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid day %q: %w", args[0], err)
			}

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			if err := w.SetBillingStartDay(ctx, day); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Billing cycle now starts on day %d", day)))
			return nil
		},
	}
}
