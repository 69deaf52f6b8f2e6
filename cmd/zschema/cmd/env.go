package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twoojoo/zschema/config"
	"github.com/twoojoo/zschema/i18n"
	"github.com/twoojoo/zschema/schema"
)

func newEnvCmd(a *app) *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Validate the environment configuration",
		Long: `Validate APP_ENV, DATABASE_URL, APP_URL, API_URL and LOG_LEVEL from the
process environment, merged over the file given with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := i18n.Load(locale)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			st := newStyles(out)

			cfg, err := config.Load(a.cfgFile, a.environ())
			if ve, ok := schema.IsValidationError(err); ok {
				fmt.Fprintf(out, "%s environment\n", st.fail.Render("✗"))
				for _, e := range catalog.Translate(ve, config.Schema.Title()) {
					fmt.Fprintf(out, "  • %s: %s\n", st.path.Render(e.Field()), e.Message)
				}
				a.logger.Warn("invalid environment", zap.Strings("fields", ve.Fields()))
				return ErrRejected
			}
			if err != nil {
				return err
			}

			rows := [][2]string{
				{config.KeyAppEnv, cfg.Env},
				{config.KeyDatabaseURL, redact(cfg.DatabaseURL)},
				{config.KeyAppURL, cfg.AppURL},
				{config.KeyAPIURL, cfg.APIURL},
				{config.KeyLogLevel, cfg.LogLevel},
			}
			fmt.Fprintf(out, "%s environment\n", st.ok.Render("✓"))
			for _, r := range rows {
				v := r[1]
				if v == "" {
					v = st.muted.Render("(unset)")
				}
				fmt.Fprintf(out, "  %s %s\n", st.name.Render(r[0]), v)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", i18n.DefaultLocale, "language of failure messages ("+strings.Join(i18n.Locales(), ", ")+")")
	return cmd
}

// redact hides the password of a connection URL.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
