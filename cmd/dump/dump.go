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

package dump

import (
	"fmt"
	"io/ioutil"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-snxrom/pkg/container"
)

const (
	NoMarksOptionName = "no-marks"
)

func NewCommand() *cobra.Command {
	var noMarks bool
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the layout of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ioutil.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, err := container.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			summary := c.Summary()
			if noMarks {
				for i := range summary.Audio {
					summary.Audio[i].Marks = nil
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&noMarks, NoMarksOptionName, false, "Leave the marks of audio assets out")
	return cmd
}
