package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wl",
		Short:         "WhatsApp Link CLI (wl): pair messaging accounts with an Evolution bridge",
		Long:          "wl supervises device pairing against an Evolution-style bridge: it starts pairing attempts, shows the QR or pairing code to scan, polls the bridge until the device links, and keeps a local record of each instance.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newPairCmd(app),
		newStatusCmd(app),
	)

	return rootCmd
}
