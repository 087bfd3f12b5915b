package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/mlukyanov/csba/internal/report"
	"github.com/mlukyanov/csba/pkg/logger"
	"github.com/mlukyanov/csba/pkg/models"
)

// ScoreFunc запрашивает свежий агрегированный сигнал
type ScoreFunc func(ctx context.Context) (*models.SignalResult, error)

// Стили watch-режима
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#0077cc")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cc3300")).
			Padding(0, 1)
)

// TermUI представляет терминальный интерфейс watch-режима:
// периодический пересчет сигнала с отрисовкой последнего результата
type TermUI struct {
	score    ScoreFunc
	interval time.Duration
	ctx      context.Context
}

// NewTermUI создает новый терминальный интерфейс
func NewTermUI(ctx context.Context, interval time.Duration, score ScoreFunc) *TermUI {
	return &TermUI{
		score:    score,
		interval: interval,
		ctx:      ctx,
	}
}

// Start запускает интерфейс (блокирующий вызов)
func (ui *TermUI) Start() error {
	model := watchModel{ui: ui}
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

type tickMsg time.Time

type signalMsg struct {
	signal *models.SignalResult
	err    error
}

// watchModel модель bubbletea
type watchModel struct {
	ui        *TermUI
	signal    *models.SignalResult
	lastErr   error
	updatedAt time.Time
	width     int
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.ui.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetch запрашивает сигнал в фоне, чтобы не блокировать отрисовку
func (m watchModel) fetch() tea.Cmd {
	return func() tea.Msg {
		signal, err := m.ui.score(m.ui.ctx)
		return signalMsg{signal: signal, err: err}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetch()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())
	case signalMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			logger.Warn("Ошибка обновления сигнала", zap.Error(msg.err))
			return m, nil
		}
		m.signal = msg.signal
		m.lastErr = nil
		m.updatedAt = time.Now()
	}
	return m, nil
}

func (m watchModel) View() string {
	view := headerStyle.Render(" CSBA — наблюдение за сигналом ") + "\n\n"

	switch {
	case m.lastErr != nil:
		view += errorStyle.Render(fmt.Sprintf("Ошибка: %v", m.lastErr)) + "\n"
	case m.signal == nil:
		view += statusStyle.Render("Ожидание первого сигнала...") + "\n"
	default:
		view += report.RenderSignal(m.signal)
	}

	if !m.updatedAt.IsZero() {
		view += "\n" + statusStyle.Render(fmt.Sprintf("Обновлено %s", m.updatedAt.Format("15:04:05")))
	}
	view += "\n" + statusStyle.Render("r — обновить, q — выход")
	return view
}
