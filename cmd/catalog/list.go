/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package catalog

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func NewListCommand(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the containers in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := open()
			if err != nil {
				return err
			}
			defer state.Close()
			entries, err := state.GetAllSummaries()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTORY\tASSETS\tAUDIO\tSIZE\tADDED")
			for _, e := range entries {
				story := "-"
				if e.Summary.Metadata != nil {
					story = fmt.Sprintf("%d", e.Summary.Metadata.StoryID)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", e.Name, story, len(e.Summary.Assets),
					len(e.Summary.Audio), e.Summary.Size, e.Added.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
	return cmd
}

func NewShowCommand(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print the summary of a container in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := open()
			if err != nil {
				return err
			}
			defer state.Close()
			entry, err := state.GetSummary(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), entry.String())
			return nil
		},
	}
	return cmd
}

func NewRemoveCommand(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a container from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := open()
			if err != nil {
				return err
			}
			defer state.Close()
			return state.Remove(args[0])
		},
	}
	return cmd
}
