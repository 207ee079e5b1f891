package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sambeau/unitconv/pkg/units"
	"github.com/sambeau/unitconv/store"
)

// prefsCmd groups the unit preference store commands.
func (a *app) prefsCmd() *cobra.Command {
	var driver, dsn string

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage per-panel unit preferences",
	}
	cmd.PersistentFlags().StringVar(&driver, "driver", "", "override store driver (sqlite, postgres, mysql)")
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "override store data source")

	open := func(cmd *cobra.Command) (*store.Store, error) {
		if driver != "" {
			a.cfg.Store.Driver = driver
		}
		if dsn != "" {
			a.cfg.Store.DSN = dsn
		}
		if a.cfg.Store.DSN == "" {
			return nil, fmt.Errorf("preference store is not configured (set store.dsn or --dsn)")
		}
		return store.Open(cmd.Context(), a.cfg.Store.Driver, a.cfg.Store.DSN, store.WithLogger(a.logger.Named("store")))
	}

	var category string
	set := &cobra.Command{
		Use:   "set PANEL UNIT",
		Short: "Store the unit a panel displays",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := st.Save(cmd.Context(), args[0], units.CategoryName(category), args[1])
			if err != nil {
				return err
			}
			printPreference(cmd, *p)
			return nil
		},
	}
	set.Flags().StringVar(&category, "category", "", "category of the unit (default: inferred)")

	get := &cobra.Command{
		Use:   "get PANEL",
		Short: "Show a panel's stored unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPreference(cmd, *p)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			prefs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(prefs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No preferences stored.")
				return nil
			}
			for _, p := range prefs {
				printPreference(cmd, p)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete PANEL",
		Short: "Remove a panel's stored unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted preference for %s\n", args[0])
			return nil
		},
	}

	audit := &cobra.Command{
		Use:   "audit",
		Short: "Report preferences whose unit no longer fits its category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			stale, err := st.Audit(cmd.Context())
			if err != nil {
				return err
			}
			if len(stale) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "All preferences are valid.")
				return nil
			}
			for _, e := range stale {
				line := fmt.Sprintf("%s\t%s/%s\t%s", e.Panel, e.Category, e.Unit, e.Reason)
				if e.Current != "" {
					line += fmt.Sprintf(" (now in %s)", e.Current)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.AddCommand(set, get, list, del, audit)
	return cmd
}

func printPreference(cmd *cobra.Command, p store.Preference) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s/%s\t%s\n", p.Panel, p.Category, p.Unit, p.UpdatedAt.Format(time.RFC3339))
}
