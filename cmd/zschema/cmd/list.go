package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twoojoo/zschema/entities"
)

func newListCmd(a *app) *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := newStyles(out)
			n := 0
			for _, e := range entities.All() {
				if domain != "" && e.Domain != domain {
					continue
				}
				fmt.Fprintf(out, "%s %s %s\n",
					st.name.Render(e.Name),
					st.muted.Width(8).Render(e.Domain),
					st.muted.Render(strconv.Itoa(e.Schema.Len())+" fields"))
				n++
			}
			a.logger.Debug("listed schemas", zap.Int("count", n))
			if n == 0 && domain != "" {
				return fmt.Errorf("no schemas in domain %q", domain)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "only list schemas of this domain (common, user, todo, product, auth)")
	return cmd
}
