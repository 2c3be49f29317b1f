package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/montecarlo/algorithm/finance"
	"github.com/wyfcoding/montecarlo/montecarlo"
)

// newTable 先输出标题行再返回表格. 标题不放进表格内部，避免比表格宽时被折行;
// 表头与表尾保留原始大小写.
func newTable(out io.Writer, title string) table.Writer {
	fmt.Fprintln(out, title)
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(style)
	return t
}

// alignNumbers 右对齐给定列 (从 1 开始编号).
func alignNumbers(t table.Writer, columns ...int) {
	cfgs := make([]table.ColumnConfig, len(columns))
	for i, n := range columns {
		cfgs[i] = table.ColumnConfig{Number: n, Align: text.AlignRight, AlignFooter: text.AlignRight}
	}
	t.SetColumnConfigs(cfgs)
}

func num(v float64) string { return fmt.Sprintf("%.4f", v) }

func pct(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }

func optNum(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderSingle(out io.Writer, initialPrice float64, s *finance.SimStats) {
	t := newTable(out, fmt.Sprintf("%s: %d paths x %d steps, S0 = %s", s.Model, s.Paths, s.Horizon, num(initialPrice)))
	t.AppendHeader(table.Row{"terminal price", "value"})
	t.AppendRows([]table.Row{
		{"mean", num(s.Mean)},
		{"std dev", num(s.StdDev)},
		{"median", num(s.Median)},
		{"p5", num(s.P5)},
		{"p25", num(s.P25)},
		{"p75", num(s.P75)},
		{"p95", num(s.P95)},
		{"best case", num(s.BestCase)},
		{"worst case", num(s.WorstCase)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"VaR 95%", pct(s.VaR95)},
		{"sharpe ratio", num(s.SharpeRatio)},
		{"max drawdown", pct(s.MaxDrawdown)},
	})
	alignNumbers(t, 2)
	t.Render()
}

func renderPortfolio(out io.Writer, capital float64, s *finance.PortfolioStats, allocs []montecarlo.Allocation) {
	summary := newTable(out, fmt.Sprintf("portfolio: capital %s", money(decimal.NewFromFloat(capital))))
	summary.AppendHeader(table.Row{"return", "value"})
	summary.AppendRows([]table.Row{
		{"mean", pct(s.MeanReturn)},
		{"median", pct(s.MedianReturn)},
		{"std dev", pct(s.StdReturn)},
		{"P(profit)", pct(s.ProbProfit)},
		{"P(loss)", pct(s.ProbLoss)},
		{"mean profit", pct(s.MeanProfit)},
		{"mean loss", pct(s.MeanLoss)},
		{"VaR 95%", pct(s.VaR95)},
		{"max drawdown", pct(s.MaxDrawdown)},
		{"worst return", pct(s.WorstReturnDrawdown)},
	})
	alignNumbers(summary, 2)
	summary.Render()

	inst := newTable(out, "instruments")
	inst.AppendHeader(table.Row{"symbol", "weight", "capital", "shares", "mean", "p5", "p95", "exp. P&L", "P(stop)", "P(target)", "t(stop)", "t(target)"})
	totalCapital, totalPnL := decimal.Zero, decimal.Zero
	for _, a := range allocs {
		st, ok := s.Instruments[a.Symbol]
		if !ok {
			continue
		}
		pnl := a.ProfitAt(st.Mean)
		totalCapital = totalCapital.Add(a.Capital)
		totalPnL = totalPnL.Add(pnl)
		inst.AppendRow(table.Row{
			a.Symbol,
			pct(a.Weight.InexactFloat64()),
			money(a.Capital),
			a.Shares.StringFixed(4),
			num(st.Mean),
			num(st.P5),
			num(st.P95),
			money(pnl),
			pct(st.ProbHitStopLoss),
			pct(st.ProbHitTarget),
			optNum(st.AvgTimeToStopLoss),
			optNum(st.AvgTimeToTarget),
		})
	}
	inst.AppendFooter(table.Row{"total", "", money(totalCapital), "", "", "", "", money(totalPnL), "", "", "", ""})
	alignNumbers(inst, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	inst.Render()
}
