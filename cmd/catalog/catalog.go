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
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-snxrom/pkg/catalog"
	"jinr.ru/greenlab/go-snxrom/pkg/config"
)

const (
	DBOptionName = "db"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Keep summaries of containers in a local catalog",
	}
	open := func() (*catalog.State, error) {
		if dbPath == "" {
			dbPath = cfg.CatalogPath
		}
		return catalog.NewState(dbPath)
	}
	cmd.AddCommand(NewAddCommand(open))
	cmd.AddCommand(NewListCommand(open))
	cmd.AddCommand(NewShowCommand(open))
	cmd.AddCommand(NewRemoveCommand(open))
	cmd.PersistentFlags().StringVar(&dbPath, DBOptionName, "", "Catalog database. Defaults to catalogPath of the config")
	return cmd
}
