package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List stored plans",
	RunE:  runPlans,
}

func runPlans(cmd *cobra.Command, args []string) error {
	st, _, err := mustStore()
	if err != nil {
		return err
	}
	defer st.Close()

	plans, err := st.ListPlans()
	if err != nil {
		return err
	}

	if len(plans) == 0 {
		fmt.Println("No plans stored yet.")
		return nil
	}

	fmt.Printf("%-36s  %-28s %-10s  %-10s  %5s\n", "PLAN ID", "PROJECT", "START", "END", "TASKS")
	for _, p := range plans {
		fmt.Printf("%-36s  %-28s %-10s  %-10s  %5d\n",
			p.ID, truncate(p.ProjectName, 28), p.StartDate, p.EndDate, p.TaskCount)
	}
	return nil
}
