package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"dataprep/pkg"
)

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "name of input file")
	cmd.Flags().StringP("metadata", "m", "", "metadata folder (defaults to the folder of the input file)")
	cmd.Flags().StringP("dataset", "d", "", "dataset name (defaults to the input base name, or the dataset found in the metadata folder)")
	cmd.Flags().StringP("product", "p", "", "name of the product file (defaults to <input>_<suffix>.csv)")
	cmd.Flags().Bool("strict", false, "fail on declared fields missing from the data and on schema drift")
	cmd.Flags().Int("chunk-size", 1024, "number of rows encoded per worker")
}

func commonOptions(v *viper.Viper) pkg.Options {
	return pkg.Options{
		DataFile:       v.GetString("input"),
		MetadataFolder: v.GetString("metadata"),
		DatasetName:    v.GetString("dataset"),
		ProductFile:    v.GetString("product"),
		Strict:         v.GetBool("strict"),
		ChunkSize:      v.GetInt("chunk-size"),
	}
}

// stringList reads a list option that may be given as repeated flags, a CSV string or a
// config file list.
func stringList(v *viper.Viper, key string) []string {
	var result []string
	for _, item := range v.GetStringSlice(key) {
		for _, s := range strings.Split(item, ",") {
			if s = strings.TrimSpace(s); s != "" {
				result = append(result, s)
			}
		}
	}
	return result
}

func InitialCommand(v *viper.Viper) *cobra.Command {

	var cmd = &cobra.Command{
		Use:   "initial -i dataFile [-c categoricFields] [-o outputFields]",
		Short: "Computes the encoding metadata of a dataset, stores it and writes the encoded dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Initial(cmd.Context(), pkg.InitialOptions{
				Options:   commonOptions(v),
				Categoric: stringList(v, "categoric"),
				Outputs:   stringList(v, "outputs"),
				Source:    v.GetString("source"),
			})
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().StringSliceP("categoric", "c", nil, "list of fields holding categoric data")
	cmd.Flags().StringSliceP("outputs", "o", nil, "list of output fields (defaults to the last field)")
	cmd.Flags().StringP("source", "s", "default", "data source: default, excel or matlab")

	return cmd
}

func IncrementalCommand(v *viper.Viper) *cobra.Command {

	var cmd = &cobra.Command{
		Use:   "incremental -i dataFile [-m metadataFolder]",
		Short: "Encodes a dataset with the metadata stored by a previous initial run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Incremental(cmd.Context(), commonOptions(v))
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func RevertPredictionsCommand(v *viper.Viper) *cobra.Command {

	var cmd = &cobra.Command{
		Use:   "revertpredictions -i predictionsFile [-m metadataFolder]",
		Short: "Converts model predictions back to the units of the original dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.RevertPredictions(cmd.Context(), commonOptions(v))
		},
	}
	addCommonFlags(cmd)
	return cmd
}

func RevertSensitivityCommand(v *viper.Viper) *cobra.Command {

	var cmd = &cobra.Command{
		Use:   "revertsensitivity -i sensitivityFile [-m metadataFolder]",
		Short: "Converts model sensitivities back to the units of the original dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.RevertSensitivity(cmd.Context(), commonOptions(v))
		},
	}
	addCommonFlags(cmd)
	return cmd
}

// NewRootCommand builds the command tree. Flag values are resolved through a viper instance
// so they can also come from a config file or DATAPREP_* environment variables.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("dataprep")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	Main := &cobra.Command{
		Use:           "dataprep",
		Short:         "Encodes tabular data for model training and reverts model outputs to original units",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if configFile := v.GetString("config"); configFile != "" {
				v.SetConfigFile(configFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("error reading config file %s: %w", configFile, err)
				}
			}
			return setupLogging(v.GetString("log-level"), v.GetString("log-format"))
		},
	}

	Main.PersistentFlags().StringP("config", "", "", "config file (yaml, json or toml)")
	Main.PersistentFlags().StringP("log-level", "", "info", "Logging level: info warn error or debug")
	Main.PersistentFlags().StringP("log-format", "", "auto", "Logging format: pretty json or auto")

	Main.AddCommand(InitialCommand(v))
	Main.AddCommand(IncrementalCommand(v))
	Main.AddCommand(RevertPredictionsCommand(v))
	Main.AddCommand(RevertSensitivityCommand(v))

	return Main
}

func main() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

func setupLogging(logLevel, logFormat string) error {

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		return fmt.Errorf("invalid logging level %q", logLevel)
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "auto":
		if term.IsTerminal(int(os.Stderr.Fd())) {
			setupPrettyLogging()
		} else {
			setupJSONLogging()
		}
	case "json":
		setupJSONLogging()
	default:
		return fmt.Errorf("invalid log format %q", logFormat)
	}
	return nil
}

func setupJSONLogging() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return fmt.Sprintf("%d", n)
			}
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}

	}
	log.Logger = log.Output(writer)

}
