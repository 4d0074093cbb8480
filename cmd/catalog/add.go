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
	"io/ioutil"
	"path/filepath"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-snxrom/pkg/catalog"
	"jinr.ru/greenlab/go-snxrom/pkg/container"
)

const (
	NameOptionName = "name"
)

type openFunc func() (*catalog.State, error)

func NewAddCommand(open openFunc) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add FILE...",
		Short: "Parse containers and add their summaries to the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--%s needs a single file", NameOptionName)
			}
			state, err := open()
			if err != nil {
				return err
			}
			defer state.Close()
			for _, path := range args {
				data, err := ioutil.ReadFile(path)
				if err != nil {
					return err
				}
				c, err := container.Parse(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				entryName := name
				if entryName == "" {
					entryName = filepath.Base(path)
				}
				if err := state.AddSummary(entryName, c.Summary()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", entryName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, NameOptionName, "", "Catalog name of the container. Defaults to the file name")
	return cmd
}
