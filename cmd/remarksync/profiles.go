package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/profile"
	"gopkg.in/yaml.v3"
)

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the reconciliation profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := profile.Load(viper.GetString("profiles.file"))
			if err != nil {
				return err
			}
			list := make([]profile.Profile, 0, len(set))
			for _, name := range set.Names() {
				list = append(list, set[name])
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(map[string]interface{}{"profiles": list}); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	return cmd
}
