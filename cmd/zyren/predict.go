package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zyren-ai/zyren/internal/engine"
	"github.com/zyren-ai/zyren/internal/predict"
)

func newPredictCmd(a *app) *cobra.Command {
	var (
		known  []int
		extend int
		creeps []string
		seed   int64
		scheme string
	)
	cmd := &cobra.Command{
		Use:   "predict NAME...",
		Short: "Render both prediction tables in the terminal",
		Long: `Render both prediction tables for a roster of 7 names, or 8 names with
--known listing the 0-based slots of the five opponents already met.`,
		Example: `  zyren predict Me Budi Citra Dewi Eko Fajar Gita
  zyren predict Me B C D E F G H --known 1,2,3,4,5 --scheme tournament
  zyren predict Me B C D E F G --extend 2 --creep a:3 --creep b:III-2`,
		Args: cobra.RangeArgs(int(predict.ShapeSeven), int(predict.ShapeEight)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.settings.EngineConfig()
			if err != nil {
				return err
			}
			cfg.Shape = predict.Shape(len(args))
			if cmd.Flags().Changed("scheme") {
				if cfg.Scheme, err = engine.ParseScheme(scheme); err != nil {
					return err
				}
			}
			var r *rand.Rand
			if cmd.Flags().Changed("seed") {
				r = engine.NewSeededRNG(seed)
			}

			e := predict.New(cfg, r)
			if _, err := e.SubmitRoster(predict.Roster{Names: args, Known: known}); err != nil {
				return err
			}
			for i := 0; i < extend; i++ {
				if _, err := e.Extend(); err != nil {
					return err
				}
			}
			for _, c := range creeps {
				mode, index, err := predict.ParseOverride(c, cfg.Scheme)
				if err != nil {
					return err
				}
				if _, err := e.Override(mode, index); err != nil {
					return fmt.Errorf("creep %s: %w", c, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTables(e.Tables()))
			return nil
		},
	}
	f := cmd.Flags()
	f.IntSliceVar(&known, "known", nil, "0-based slots of the five opponents already met (8 names only)")
	f.IntVar(&extend, "extend", 0, "extend both tables this many times")
	f.StringArrayVar(&creeps, "creep", nil, "mark mode:round as Creep, e.g. a:3 or b:III-2 (repeatable)")
	f.Int64Var(&seed, "seed", 0, "shuffle seed for a reproducible prediction")
	f.StringVar(&scheme, "scheme", "", "round naming: chapter or tournament (default from config)")
	return cmd
}

var (
	modeColors = map[predict.Mode]lipgloss.Color{
		predict.ModeA: lipgloss.Color("12"),
		predict.ModeB: lipgloss.Color("9"),
	}
	labelStyle = lipgloss.NewStyle().Width(7)
	creepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	byeStyle   = lipgloss.NewStyle().Faint(true)
)

func renderTables(tables []predict.Table) string {
	boxes := make([]string, 0, len(tables))
	for _, t := range tables {
		boxes = append(boxes, renderTable(t))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func renderTable(t predict.Table) string {
	color := modeColors[t.Mode]
	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(color).Render(t.Title), ""}
	for _, r := range t.Rounds {
		opponent := r.Opponent
		switch {
		case r.Overridden:
			opponent = creepStyle.Render(opponent)
		case r.Bye:
			opponent = byeStyle.Render(opponent)
		}
		lines = append(lines, labelStyle.Render(r.Label)+" "+opponent)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		MarginRight(1).
		Render(strings.Join(lines, "\n"))
}
