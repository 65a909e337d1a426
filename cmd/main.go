package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "time/tzdata"
)

var version = "v1.0.0"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "qrcreator",
		Short:         "QR code and barcode generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default ./config.yaml)")

	// --- bot command ---------------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(configPath)
		},
	})

	// --- serve command -------------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	})

	// --- render command ------------------------------------------------------
	var opts renderOptions
	renderCmd := &cobra.Command{
		Use:   "render [text]",
		Short: "Render a code to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.text = args[0]
			opts.sizeSet = cmd.Flags().Changed("size")
			return runRender(configPath, opts)
		},
	}
	renderCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: generated name in the working directory)")
	renderCmd.Flags().StringVarP(&opts.kind, "kind", "k", "qr", "Code kind: qr or bar")
	renderCmd.Flags().UintVarP(&opts.size, "size", "s", 0, "Side length in pixels (default: resolution preference)")
	renderCmd.Flags().StringVar(&opts.style, "style", "", "Code color: white or black (default: style preference)")
	renderCmd.Flags().StringVar(&opts.level, "level", "", "QR error correction: L, M, Q or H (default: level preference)")
	root.AddCommand(renderCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qrcreator %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
