package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/inline-waitlist/internal/config"
	"github.com/example/inline-waitlist/internal/inline"
)

func newRestaurantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restaurant",
		Short: "Manage watched restaurants",
	}
	cmd.AddCommand(newRestaurantAddCmd())
	cmd.AddCommand(newRestaurantListCmd())
	return cmd
}

func newRestaurantAddCmd() *cobra.Command {
	var (
		name string
		url  string
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Register a restaurant from its inline.app booking link",
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, branchID, err := inline.ParseBookingURL(url)
			if err != nil {
				return fmt.Errorf("--url must look like .../booking/{companyId}/{branchId}")
			}
			if name == "" {
				name = "Unknown"
			}

			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			ctx := context.Background()
			st, err := openStore(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer st.Close()

			id, err := st.UpsertRestaurant(ctx, companyID, branchID, name, url)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "restaurant id=%d company=%s branch=%s name=%q\n", id, companyID, branchID, name)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "display name")
	c.Flags().StringVar(&url, "url", "", "inline.app booking url")
	_ = c.MarkFlagRequired("url")
	return c
}

func newRestaurantListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered restaurants",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			ctx := context.Background()
			st, err := openStore(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer st.Close()

			rs, err := st.ListRestaurants(ctx)
			if err != nil {
				return err
			}
			for _, r := range rs {
				fmt.Fprintf(os.Stdout, "id=%d name=%q branch=%s url=%s\n", r.ID, r.Name, r.BranchID, r.BookingURL)
			}
			return nil
		},
	}
}
