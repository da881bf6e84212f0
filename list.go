package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/donutnomad/icongen/pipeline"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出图标、组件名和 feature 变量",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			assets, err := pipeline.Collect(pipeline.NewScanner(pipeline.WithStrict(a.cfg.Strict())).Scan(a.cfg.IconDir))
			if err != nil {
				return err
			}
			var features *pipeline.FeatureSet
			if a.cfg.Gated() {
				features = pipeline.ResolveFeaturesFromEnv(a.cfg.FeaturePrefix)
			}
			return writeAssetTable(cmd.OutOrStdout(), assets, features, a.cfg.FeaturePrefix)
		},
	}
}

// writeAssetTable 输出对齐的图标表格，features 为 nil 时门控列显示 -
func writeAssetTable(w io.Writer, assets []*pipeline.Asset, features *pipeline.FeatureSet, prefix string) error {
	gated := features != nil
	if !gated {
		// 未启用门控时仍按前缀展示变量名
		features = pipeline.ResolveFeatures(prefix, nil)
	}

	rows := [][]string{{"STEM", "IDENTIFIER", "FEATURE", "BUILD"}}
	for _, asset := range assets {
		decision := "-"
		if gated {
			decision = lo.Ternary(features.Includes(asset), "yes", "no")
		}
		rows = append(rows, []string{asset.Stem, asset.Identifier, features.EnvName(asset), decision})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n共 %d 个图标\n", len(assets))
	return err
}
