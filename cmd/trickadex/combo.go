package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"trickadex/internal/app"
	"trickadex/internal/combo"
	"trickadex/internal/state"
)

func newComboCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combo",
		Short: "Work with trick combos",
	}
	cmd.AddCommand(newComboRandomCmd(flags))
	return cmd
}

type comboRandomFlags struct {
	size    int
	minTier int
	maxTier int
	all     bool
	copy    bool
	seed    uint64
}

func newComboRandomCmd(flags *rootFlags) *cobra.Command {
	rf := &comboRandomFlags{}
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a random combo using the saved combo preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			snap, err := loadSnapshot(ctx, cfg)
			if err != nil {
				return err
			}

			prefs := rf.apply(cmd, snap.prefs)
			seed := rf.seed
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			rng := rand.New(rand.NewPCG(seed, seed>>1|1))
			seq := combo.Random(snap.catalog, snap.landed, app.RandomSpec(prefs), rng)
			if seq.Len() == 0 {
				return fmt.Errorf("no tricks match tiers %d-%d (only landed: %t)", prefs.MinTier, prefs.MaxTier, prefs.OnlyLanded)
			}
			fmt.Fprintln(cmd.OutOrStdout(), seq.Text())
			if rf.copy {
				if err := clipboard.WriteAll(seq.Text()); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&rf.size, "size", "n", 0, "number of tricks")
	f.IntVar(&rf.minTier, "min", 0, "lowest tier, 0-7")
	f.IntVar(&rf.maxTier, "max", 0, "highest tier, 0-7")
	f.BoolVar(&rf.all, "all", false, "draw from every trick, not only landed ones")
	f.BoolVar(&rf.copy, "copy", false, "also copy the combo to the clipboard")
	f.Uint64Var(&rf.seed, "seed", 0, "random seed for repeatable output")
	return cmd
}

// apply overrides stored preferences with explicitly set flags.
func (rf *comboRandomFlags) apply(cmd *cobra.Command, p state.Preferences) state.Preferences {
	f := cmd.Flags()
	if f.Changed("size") {
		p.ComboSize = rf.size
	}
	if f.Changed("min") {
		p.MinTier = rf.minTier
	}
	if f.Changed("max") {
		p.MaxTier = rf.maxTier
	}
	if f.Changed("all") {
		p.OnlyLanded = !rf.all
	}
	return p.Normalize()
}
