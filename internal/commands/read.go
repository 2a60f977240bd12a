package commands

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bilant/internal/id"
	"github.com/cleared-dev/bilant/internal/xfa"
)

func newReadCommand() *cobra.Command {
	var packets bool

	cmd := &cobra.Command{
		Use:   "read <pdf>",
		Short: "Print the values filled in an XFA form PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := xfa.OpenFile(args[0])
			if err != nil {
				return err
			}
			if packets {
				return runReadPackets(cmd.OutOrStdout(), doc)
			}
			return runRead(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().BoolVar(&packets, "packets", false, "list the XFA packets instead of the values")
	return cmd
}

func runRead(out io.Writer, doc *xfa.Document) error {
	v, err := doc.ReadValues()
	if err != nil {
		return err
	}
	current, prior := v.Current(), v.Prior()

	rows := make([]string, 0, len(v.Rows))
	for rowID := range v.Rows {
		rows = append(rows, rowID)
	}
	sort.Slice(rows, func(i, j int) bool { return id.Less(rows[i], rows[j]) })

	fmt.Fprintf(out, "Form %s: %d rows with values (%d current, %d prior)\n",
		v.Form, len(rows), len(current), len(prior))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "rd.\tC1\tC2\t")
	for _, rowID := range rows {
		c1, c2 := "", ""
		if prior.Has(rowID) {
			c1 = prior.Get(rowID).String()
		}
		if current.Has(rowID) {
			c2 = current.Get(rowID).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", rowID, c1, c2)
	}
	return tw.Flush()
}

func runReadPackets(out io.Writer, doc *xfa.Document) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKET\tOBJECT\tBYTES")
	for _, p := range doc.Packets() {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", p.Name, int(p.Ref.ObjectNumber), len(p.Data))
	}
	if doc.Encrypted() {
		fmt.Fprintln(tw, "(encrypted)\t\t")
	}
	return tw.Flush()
}
