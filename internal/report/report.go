package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlukyanov/csba/pkg/models"
)

// Стили консольного отчета
var (
	bullColor    = lipgloss.Color("#33cc33")
	bearColor    = lipgloss.Color("#cc3300")
	neutralColor = lipgloss.Color("#999999")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#0077cc")).
			Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().
			Foreground(neutralColor)
)

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 20:
		return lipgloss.NewStyle().Bold(true).Foreground(bullColor)
	case score <= -20:
		return lipgloss.NewStyle().Bold(true).Foreground(bearColor)
	default:
		return lipgloss.NewStyle().Foreground(neutralColor)
	}
}

// RenderSignal формирует консольный отчет по агрегированному сигналу
func RenderSignal(signal *models.SignalResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" %s — СИГНАЛ ", signal.Symbol)))
	b.WriteString("\n")

	if signal.NoData {
		b.WriteString(sectionStyle.Render(
			"Нет доступных факторов: оценка отсутствует, это не нейтральный сигнал"))
		b.WriteString("\n")
		return b.String()
	}

	var rows []string
	rows = append(rows, fmt.Sprintf("Оценка: %s   Рекомендация: %s",
		scoreStyle(signal.Score).Render(fmt.Sprintf("%+.2f", signal.Score)),
		signal.Recommendation))
	if signal.CurrentPrice > 0 {
		rows = append(rows, labelStyle.Render(fmt.Sprintf("Текущая цена: %.2f", signal.CurrentPrice)))
	}
	rows = append(rows, "")
	for _, f := range signal.Factors {
		rows = append(rows, fmt.Sprintf("%-18s %s  %s",
			f.Key,
			scoreStyle(f.Value).Render(fmt.Sprintf("%+6.1f", f.Value)),
			labelStyle.Render(f.Rationale)))
	}

	b.WriteString(sectionStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")
	return b.String()
}

// RenderBacktest формирует консольный отчет по результатам симуляции
func RenderBacktest(result *models.BacktestResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" %s %s — БЭКТЕСТ ", result.Symbol, result.Interval)))
	b.WriteString("\n")

	st := result.Stats
	var rows []string
	rows = append(rows, fmt.Sprintf("Свечей: %d   Период: %s — %s",
		result.Candles,
		result.Start.Format("02.01.2006"),
		result.End.Format("02.01.2006")))
	rows = append(rows, fmt.Sprintf("Сделок: %d (выигрышных %d, убыточных %d)", st.Trades, st.Wins, st.Losses))
	rows = append(rows, fmt.Sprintf("Доля выигрышных: %.1f%%", st.WinRate))
	rows = append(rows, fmt.Sprintf("Суммарный результат: %s",
		scoreStyle(st.TotalPnl).Render(fmt.Sprintf("%+.2f%%", st.TotalPnl))))
	rows = append(rows, fmt.Sprintf("Средняя сделка: %+.2f%%   средний плюс: %+.2f%%   средний минус: %+.2f%%",
		st.AvgPnl, st.AvgWin, st.AvgLoss))
	rows = append(rows, fmt.Sprintf("Профит-фактор: %s   Макс. просадка: %.2f%%",
		formatProfitFactor(st.ProfitFactor), st.MaxDrawdown))

	if len(result.Trades) > 0 {
		rows = append(rows, "", labelStyle.Render("Последние сделки:"))
		tail := result.Trades
		if len(tail) > 10 {
			tail = tail[len(tail)-10:]
		}
		for _, t := range tail {
			rows = append(rows, fmt.Sprintf("%-5s вход %.2f (бар %d) → выход %.2f (бар %d)  %s  %s",
				t.Side, t.EntryPrice, t.EntryIndex, t.ExitPrice, t.ExitIndex,
				scoreStyle(t.PnlPercent).Render(fmt.Sprintf("%+.2f%%", t.PnlPercent)),
				labelStyle.Render(string(t.Reason))))
		}
	}

	b.WriteString(sectionStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")
	return b.String()
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞ (нет убыточных сделок)"
	}
	return fmt.Sprintf("%.2f", pf)
}
