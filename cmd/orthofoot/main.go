package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wgdzlh/orthofoot"
	"github.com/wgdzlh/orthofoot/log"
	"github.com/wgdzlh/orthofoot/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "orthofoot",
		Short: "Extract valid-data footprints from orthophoto tiles",
		Long: `orthofoot scans raster containers (GeoPackage by default) for sub-layers whose
name contains a keyword, masks nodata pixels and writes the outline of the largest
valid region of every tile as WKT into a CSV table.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (yaml/json/toml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().Bool("json-log", false, "Log as JSON")
	root.PersistentFlags().StringP("keyword", "k", "", "Sub-layer name keyword (case-sensitive)")

	extract := &cobra.Command{
		Use:   "extract [container|dir ...]",
		Short: "Extract footprints of matching sub-layers into a CSV table",
		Example: `  orthofoot extract -k ORTO -o out/footprints.csv data/*.gpkg
  orthofoot extract --manifest batch.json -o file:///srv/out/footprints.csv -w 4`,
		RunE: runExtract,
	}
	extract.Flags().StringP("output", "o", "", "Footprint table path or bucket URL")
	extract.Flags().String("log", "", "Error log path or bucket URL (default <output>_errors.txt)")
	extract.Flags().StringP("manifest", "m", "", "JSON manifest with containers and keyword")
	extract.Flags().IntP("workers", "w", orthofoot.DefaultWorkers, "Containers processed in parallel")
	extract.Flags().Int("connectivity", orthofoot.DefaultConnectivity, "Pixel connectivity, 4 or 8")
	extract.Flags().StringP("encoding", "e", utils.UTF_8, "Output text encoding")
	extract.Flags().String("extension", orthofoot.FILE_EXT_GPKG, "Container extension used when expanding directories")

	layers := &cobra.Command{
		Use:   "layers <container>",
		Short: "List sub-layers matching the keyword and their identifiers",
		Args:  cobra.ExactArgs(1),
		RunE:  runLayers,
	}

	root.AddCommand(extract, layers)
	return root
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func setup(cmd *cobra.Command) (cfg *Config, err error) {
	if cfg, err = loadConfig(viper.New(), cfgFile, cmd); err != nil {
		return
	}
	if err = log.Init(cfg.Verbose, cfg.JsonLog); err != nil {
		err = fmt.Errorf("failed to initialize logger: %w", err)
	}
	return
}

func runExtract(cmd *cobra.Command, args []string) (err error) {
	cfg, err := setup(cmd)
	if err != nil {
		return
	}
	defer log.Sync()
	if err = cfg.Normalize(); err != nil {
		return
	}

	inputs := args
	keyword := cfg.Keyword
	if cfg.Manifest != "" {
		var m *orthofoot.Manifest
		if m, err = orthofoot.LoadManifest(cfg.Manifest); err != nil {
			return
		}
		inputs = append(inputs, m.Containers...)
		if keyword == "" {
			keyword = m.Keyword
		}
	}
	containers, err := utils.ExpandContainers(inputs, cfg.Extension)
	if err != nil {
		return
	}
	pred, err := cfg.Predicate()
	if err != nil {
		return
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 输出位置不可写时直接失败，不做任何处理
	recDst, err := orthofoot.OpenDestination(ctx, cfg.Output)
	if err != nil {
		return
	}
	errDst, err := orthofoot.OpenDestination(ctx, cfg.Log)
	if err != nil {
		recDst.Close()
		return
	}
	sink, err := orthofoot.NewResultSink(recDst, errDst, orthofoot.WithEncoding(cfg.Encoding))
	if err != nil {
		recDst.Close()
		errDst.Close()
		return
	}
	defer sink.Close()

	runner := orthofoot.NewBatchRunner(orthofoot.NewGdalToolbox(),
		orthofoot.WithPredicate(pred),
		orthofoot.WithExtractor(orthofoot.NewFootprintExtractor(orthofoot.WithConnectivity(cfg.Connectivity))),
		orthofoot.WithWorkers(cfg.Workers),
	)
	res, err := runner.Run(ctx, containers, keyword)
	if err != nil {
		return
	}
	if _, err = sink.WriteRecords(ctx, res.Records); err != nil {
		return
	}
	if _, err = sink.WriteErrors(ctx, res.Errors); err != nil {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Summary())
	return
}

func runLayers(cmd *cobra.Command, args []string) (err error) {
	cfg, err := setup(cmd)
	if err != nil {
		return
	}
	defer log.Sync()
	layers, err := orthofoot.NewGdalToolbox().ListLayers(args[0], cfg.Keyword)
	if err != nil {
		return
	}
	out := cmd.OutOrStdout()
	for _, l := range layers {
		fmt.Fprintf(out, "%s\t%s\n", orthofoot.LayerIdentifier(l), l)
	}
	log.Debug("layers listed", zap.String("container", args[0]), zap.Int("count", len(layers)))
	return
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
