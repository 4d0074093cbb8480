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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-snxrom/cmd/catalog"
	"jinr.ru/greenlab/go-snxrom/cmd/completion"
	"jinr.ru/greenlab/go-snxrom/cmd/config"
	"jinr.ru/greenlab/go-snxrom/cmd/dump"
	"jinr.ru/greenlab/go-snxrom/cmd/extract"
	"jinr.ru/greenlab/go-snxrom/cmd/pack"
	"jinr.ru/greenlab/go-snxrom/cmd/patch"
	pkgconfig "jinr.ru/greenlab/go-snxrom/pkg/config"
	"jinr.ru/greenlab/go-snxrom/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	loadErr := cfg.Load()
	cmd := &cobra.Command{
		Use:           "go-snxrom",
		Short:         "Tool to inspect and patch SNXROM story containers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
			if loadErr != nil {
				return fmt.Errorf("loading config %s: %w", cfg.Path(), loadErr)
			}
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(patch.NewCommand(cfg))
	cmd.AddCommand(dump.NewCommand())
	cmd.AddCommand(extract.NewCommand())
	cmd.AddCommand(pack.NewCommand())
	cmd.AddCommand(catalog.NewCommand(cfg))
	cmd.AddCommand(config.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
