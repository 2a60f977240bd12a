package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bilant/internal/runlog"
)

func newHistoryCommand(repoDir *string) *cobra.Command {
	var runID, deleteID int64
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs, show the lines of one run or delete one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(*repoDir, true)
			if err != nil {
				return err
			}
			if deleteID != 0 {
				return runHistoryDelete(cmd.OutOrStdout(), p, deleteID)
			}
			if runID != 0 {
				return runHistoryShow(cmd.OutOrStdout(), p, runID)
			}
			return runHistoryList(cmd.OutOrStdout(), p, limit)
		},
	}

	cmd.Flags().Int64Var(&runID, "run", 0, "show the lines of this run")
	cmd.Flags().Int64Var(&deleteID, "delete", 0, "delete this run from history")
	cmd.MarkFlagsMutuallyExclusive("run", "delete")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to list (0 for all)")

	return cmd
}

func runHistoryList(out io.Writer, p *project, limit int) error {
	store, closeStore, err := p.openHistory()
	if err != nil {
		return err
	}
	defer closeStore()

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No saved runs.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tFORM\tROWS\tUNMATCHED\tBALANTA")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Form, r.RowCount, r.Unmatched, r.Balanta)
	}
	return tw.Flush()
}

func runHistoryShow(out io.Writer, p *project, runID int64) error {
	store, closeStore, err := p.openHistory()
	if err != nil {
		return err
	}
	defer closeStore()

	run, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	lines, err := store.LoadResults(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run #%d  %s  %s  %s\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04"), run.Form, run.Balanta)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RD.\tPRIOR\tCURRENT\tDESCRIPTION")
	for _, l := range lines {
		prior := ""
		if l.HasPrior {
			prior = l.Prior.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.NrRd, prior, l.Current.StringFixed(2), l.Description)
	}
	return tw.Flush()
}

func runHistoryDelete(out io.Writer, p *project, runID int64) error {
	store, closeStore, err := p.openHistory()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.DeleteRun(runID); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted run #%d\n", runID)
	return p.record(runlog.Entry{
		Command: "history delete",
		Input:   fmt.Sprintf("run %d", runID),
	})
}
