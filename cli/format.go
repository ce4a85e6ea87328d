package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/nstehr/vimy/assault-core/ipc"
	"github.com/nstehr/vimy/assault-core/model"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

var phaseColors = map[model.Phase]*color.Color{
	model.PhaseAssemble:   color.New(color.FgMagenta),
	model.PhaseRendezvous: color.New(color.FgCyan),
	model.PhaseStage:      color.New(color.FgBlue),
	model.PhaseEngage:     color.New(color.FgRed, color.Bold),
	model.PhaseRetreat:    color.New(color.FgYellow),
}

func phaseColor(p model.Phase) *color.Color {
	if c, ok := phaseColors[p]; ok {
		return c
	}
	return dimColor
}

func printHeader(w io.Writer, title string) {
	_, _ = headerColor.Fprintf(w, "▸ %s\n", title)
}

func printSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", msg)
}

func printFailure(w io.Writer, msg string) {
	_, _ = errorColor.Fprintf(w, "✗ %s\n", msg)
}

// printPlans renders one tick's reply: a line per mission then a line per unit.
func printPlans(w io.Writer, plans ipc.PlansMessage) {
	_, _ = dimColor.Fprintf(w, "  tick %d\n", plans.Tick)
	for _, r := range plans.Missions {
		fmt.Fprintf(w, "    %s ", r.Mission)
		_, _ = phaseColor(r.Phase).Fprint(w, r.Phase)
		fmt.Fprintf(w, " members=%d threat=%d", r.Members, r.Threat.Level)
		if r.SpawnAllowed {
			fmt.Fprint(w, " spawn")
		}
		if r.Wiped {
			_, _ = errorColor.Fprint(w, " wiped")
		}
		fmt.Fprintln(w)
	}
	for _, p := range plans.Plans {
		move := "-"
		if p.Plan.MoveTarget != nil {
			move = p.Plan.MoveTarget.String()
		}
		target := "-"
		if p.Target != nil {
			target = p.Target.ID
		}
		var actions []string
		for _, a := range p.Plan.Actions {
			actions = append(actions, a.Action+"("+a.TargetID+")")
		}
		fmt.Fprintf(w, "      %-8s %-7s move=%s range=%d target=%s actions=%v\n",
			p.UnitID, p.Role, move, p.Plan.Range, target, actions)
	}
}
