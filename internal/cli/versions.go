package cli

import (
	"github.com/spf13/cobra"

	"github.com/Jaganpro/sf-schema-viewer/pkg/salesforce"
)

// versionsCommand creates the versions command that lists the API
// versions the connected org supports.
func (c *CLI) versionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the API versions the connected org supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := loadCLISession(ctx)
			if err != nil {
				return err
			}

			client, err := salesforce.NewClient(sess.InstanceURL, sess.AccessToken,
				salesforce.WithLogger(c.Logger))
			if err != nil {
				return err
			}

			versions, err := client.APIVersions(ctx)
			if err != nil {
				return err
			}

			for _, v := range versions {
				label := v.Label
				if label == "" {
					label = salesforce.ReleaseLabel(v.Version)
				}
				printKeyValue("v"+v.Version, label)
			}
			return nil
		},
	}
}
