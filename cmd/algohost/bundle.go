package main

import (
	"fmt"
	"os"

	"github.com/Aidin1998/algohost/api"
	"github.com/Aidin1998/algohost/internal/bundle"
	"github.com/Aidin1998/algohost/internal/manifest"
	"github.com/spf13/cobra"
)

var bundleOpts struct {
	manifest     string
	catalog      string
	provider     string
	algorithm    string
	output       string
	requirements []string
}

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Package a manifest and a catalog artifact as a zip",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, err := manifest.Load(bundleOpts.manifest)
		if err != nil {
			return err
		}
		catalog, err := bundle.LoadCatalog(bundleOpts.catalog)
		if err != nil {
			return err
		}
		artifact, err := catalog.Select(bundleOpts.provider, bundleOpts.algorithm)
		if err != nil {
			return err
		}

		output := bundleOpts.output
		if output == "" {
			output = manifest.ServiceNameFromAlgorithm(bundleOpts.algorithm) + ".zip"
		}
		f, err := os.Create(output)
		if err != nil {
			return err
		}

		w := &bundle.Writer{
			Templates:        api.Templates(),
			BaseRequirements: bundleOpts.requirements,
		}
		if err := w.Write(f, m, artifact); err != nil {
			f.Close()
			os.Remove(output)
			return fmt.Errorf("write bundle: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		cmd.Printf("wrote %s using artifact %s\n", output, artifact.Name)
		return nil
	},
}

func init() {
	flags := bundleCmd.Flags()
	flags.StringVarP(&bundleOpts.manifest, "manifest", "m", "manifest.yaml", "service manifest")
	flags.StringVar(&bundleOpts.catalog, "catalog", "", "directory of implementation artifacts")
	flags.StringVar(&bundleOpts.provider, "provider", "", "provider the artifact must target")
	flags.StringVar(&bundleOpts.algorithm, "algorithm", "", "algorithm the artifact must implement")
	flags.StringVarP(&bundleOpts.output, "output", "o", "", "zip file to write (default <algorithm up to the first _>.zip)")
	flags.StringSliceVar(&bundleOpts.requirements, "requirement", nil, "extra requirement lines, repeatable")
	_ = bundleCmd.MarkFlagRequired("catalog")
	_ = bundleCmd.MarkFlagRequired("provider")
	_ = bundleCmd.MarkFlagRequired("algorithm")
	rootCmd.AddCommand(bundleCmd)
}
