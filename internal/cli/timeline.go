package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imkarma/pland/internal/schedule"
	"github.com/imkarma/pland/internal/store"
)

// ANSI color codes.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"

	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// ownerColors cycles through lane colors as owners appear.
var ownerColors = []string{colorBlue, colorGreen, colorYellow, colorMagenta, colorCyan, colorRed}

var timelineCmd = &cobra.Command{
	Use:   "timeline [plan_id]",
	Short: "Render a plan as a business-day timeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeline,
}

func runTimeline(cmd *cobra.Command, args []string) error {
	st, _, err := mustStore()
	if err != nil {
		return err
	}
	defer st.Close()

	plan, err := st.GetPlan(args[0])
	if err != nil {
		return err
	}
	return renderTimeline(plan)
}

func renderTimeline(plan *store.Plan) error {
	projStart, err := schedule.ParseDate(plan.StartDate)
	if err != nil {
		return err
	}
	projEnd, err := schedule.ParseDate(plan.EndDate)
	if err != nil {
		return err
	}

	days := schedule.BusinessDaysBetween(projStart, projEnd)
	fmt.Printf("%s%s%s  %s → %s  (%d business days)\n\n",
		colorBold, plan.ProjectName, colorReset, plan.StartDate, plan.EndDate, days)

	labelWidth := 0
	for _, t := range plan.Tasks {
		if n := len(label(t)); n > labelWidth {
			labelWidth = n
		}
	}

	colorByOwner := map[string]string{}
	for _, t := range plan.Tasks {
		start, err := schedule.ParseDate(t.StartDate)
		if err != nil {
			return err
		}
		end, err := schedule.ParseDate(t.EndDate)
		if err != nil {
			return err
		}

		owner := t.OwnerOrUnassigned()
		color, ok := colorByOwner[owner]
		if !ok {
			color = ownerColors[len(colorByOwner)%len(ownerColors)]
			colorByOwner[owner] = color
		}

		offset := schedule.BusinessDaysBetween(projStart, start) - 1
		width := schedule.BusinessDaysBetween(start, end)

		bar := strings.Repeat(" ", offset) + color + strings.Repeat("█", width) + colorReset
		fmt.Printf("%-*s  %s  %s%s — %s%s\n",
			labelWidth, label(t), bar, colorDim, t.StartDate, t.EndDate, colorReset)
	}

	fmt.Printf("\n%sEach █ is one business day; weekends are skipped.%s\n", colorDim, colorReset)
	return nil
}

func label(t schedule.Task) string {
	return fmt.Sprintf("%s (%s)", truncate(t.Title, 28), t.OwnerOrUnassigned())
}
