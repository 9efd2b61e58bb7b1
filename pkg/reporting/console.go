// Package reporting renders protection state for startup output and lock
// reports.
package reporting

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/crypto-protection-bot/internal/protection"
	"github.com/ducminhle1904/crypto-protection-bot/internal/store"
)

// windowDisplay is the read-only view a protection exposes for startup
// rendering. Every protection embedding the shared window satisfies it.
type windowDisplay interface {
	StopDurationDisplay() string
	LookbackPeriodDisplay() string
	UnlockAtDisplay() string
}

// PrintProtections renders the configured protections as a startup table.
func PrintProtections(protections []protection.Protection) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("PROTECTIONS")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Protection", "Scope", "Stop Duration", "Lookback", "Unlock At"})
	for _, p := range protections {
		t.AppendRow(table.Row{p.Name(), scopeString(p), stopDuration(p), lookback(p), unlockAt(p)})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 16, Align: text.AlignLeft},
		{Number: 2, WidthMin: 12, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()

	for _, p := range protections {
		fmt.Printf("  %s\n", p.ShortDescription())
	}
	fmt.Println()
}

// PrintActiveLocks renders the currently active locks.
func PrintActiveLocks(locks []*store.PairLock, now time.Time) {
	if len(locks) == 0 {
		fmt.Println("No active locks.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("ACTIVE LOCKS")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Pair", "Side", "Until", "Protection", "Reason"})
	for _, lock := range locks {
		t.AppendRow(table.Row{
			lock.Pair,
			string(lock.Side),
			lock.Until.Format("2006-01-02 15:04:05"),
			lock.Protection,
			lock.Reason,
		})
	}

	t.Render()
	fmt.Println()
}

func scopeString(p protection.Protection) string {
	switch {
	case p.HasGlobalStop() && p.HasLocalStop():
		return "global+pair"
	case p.HasGlobalStop():
		return "global"
	case p.HasLocalStop():
		return "per pair"
	default:
		return "none"
	}
}

func stopDuration(p protection.Protection) string {
	if w, ok := p.(windowDisplay); ok {
		return w.StopDurationDisplay()
	}
	return ""
}

func lookback(p protection.Protection) string {
	if w, ok := p.(windowDisplay); ok {
		return w.LookbackPeriodDisplay()
	}
	return ""
}

func unlockAt(p protection.Protection) string {
	if w, ok := p.(windowDisplay); ok && w.UnlockAtDisplay() != "" {
		return w.UnlockAtDisplay()
	}
	return "-"
}
