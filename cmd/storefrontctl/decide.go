package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dwikikusuma/storefront/internal/guard"
)

type decideOutput struct {
	Path   string `yaml:"path"`
	Action string `yaml:"action"`
	Target string `yaml:"target,omitempty"`
	Origin string `yaml:"origin,omitempty"`
}

func newDecideCmd() *cobra.Command {
	var req guard.Request

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Show what the route guard does with one navigation",
		Example: `  storefrontctl decide --path /admin/products --auth --role user
  storefrontctl decide --path /auth/login --auth --origin /shop/cart`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := guard.DefaultPolicy().Decide(req)
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(decideOutput{
				Path:   req.Path,
				Action: d.Action.String(),
				Target: d.Target,
				Origin: d.Origin,
			})
		},
	}

	cmd.Flags().StringVar(&req.Path, "path", "/", "requested page path")
	cmd.Flags().BoolVar(&req.Authenticated, "auth", false, "visitor is signed in")
	cmd.Flags().StringVar(&req.Role, "role", "", "visitor role, e.g. admin")
	cmd.Flags().StringVar(&req.OriginPath, "origin", "", "path the visitor came from before logging in")
	return cmd
}
